package stock

import (
	"context"
	"fmt"
	"strings"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// YahooClient looks up Hong Kong tickers through Yahoo Finance.
type YahooClient struct {
	get func(symbol string) (*finance.Quote, error)
}

func NewYahooClient() *YahooClient {
	return &YahooClient{get: quote.Get}
}

// YahooSymbol turns a numeric ticker into Yahoo's four-digit NNNN.HK form.
func YahooSymbol(ticker string) string {
	t := strings.TrimLeft(ticker, "0")
	if len(t) < 4 {
		t = strings.Repeat("0", 4-len(t)) + t
	}
	return t + ".HK"
}

func (y *YahooClient) Quote(ctx context.Context, ticker string) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol := YahooSymbol(ticker)
	q, err := y.get(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get quote for %s: %v", ErrUpstream, symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("%w: no quote for %s", ErrUpstream, symbol)
	}
	name := q.ShortName
	if name == "" {
		name = symbol
	}
	return &Quote{
		Symbol: name,
		Price:  decimal.NewFromFloat(q.RegularMarketPrice),
	}, nil
}
