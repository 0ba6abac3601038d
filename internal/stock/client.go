package stock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Placeholder is replaced by the padded ticker in the URL template.
const Placeholder = "<%STOCK_QUOTE%>"

var ErrUpstream = errors.New("stock price service failed")

// Quote is a symbol and its latest price.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
}

// String formats the quote the way it is replied to users.
func (q Quote) String() string {
	return fmt.Sprintf("%s : $%s", q.Symbol, q.Price.String())
}

// Quoter looks up a ticker.
type Quoter interface {
	Quote(ctx context.Context, ticker string) (*Quote, error)
}

// Client fetches quotes from a dataset-style JSON API addressed by a URL
// template.
type Client struct {
	client      *resty.Client
	urlTemplate string
}

func NewClient(urlTemplate string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(1)
	client.SetRetryWaitTime(300 * time.Millisecond)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || (r != nil && r.StatusCode() >= 500)
	})

	return &Client{
		client:      client,
		urlTemplate: urlTemplate,
	}
}

// PadTicker left-pads ticker with zeros to five characters.
func PadTicker(ticker string) string {
	if len(ticker) >= 5 {
		return ticker
	}
	return strings.Repeat("0", 5-len(ticker)) + ticker
}

// URL substitutes the padded ticker into the template.
func (c *Client) URL(ticker string) string {
	return strings.ReplaceAll(c.urlTemplate, Placeholder, PadTicker(ticker))
}

type datasetResponse struct {
	Dataset *struct {
		Name string              `json:"name"`
		Data [][]json.RawMessage `json:"data"`
	} `json:"dataset"`
}

func (c *Client) Quote(ctx context.Context, ticker string) (*Quote, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(c.URL(ticker))
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrUpstream, ticker, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: API error %d: %s", ErrUpstream, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	q, err := parseDataset(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return q, nil
}

func parseDataset(body []byte) (*Quote, error) {
	var out datasetResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse quote response: %w", err)
	}
	if out.Dataset == nil {
		return nil, fmt.Errorf("quote response has no dataset")
	}
	if len(out.Dataset.Data) == 0 || len(out.Dataset.Data[0]) < 2 {
		return nil, fmt.Errorf("quote response has no price rows")
	}
	raw := bytes.TrimSpace(out.Dataset.Data[0][1])
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("quote response has no price")
	}
	var price decimal.Decimal
	if err := json.Unmarshal(raw, &price); err != nil {
		return nil, fmt.Errorf("failed to parse price %s: %w", raw, err)
	}
	return &Quote{Symbol: out.Dataset.Name, Price: price}, nil
}
