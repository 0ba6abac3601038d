package intent

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	Unrecognized Kind = iota
	Payment
	Stock
)

func (k Kind) String() string {
	switch k {
	case Payment:
		return "payment"
	case Stock:
		return "stock"
	default:
		return "unrecognized"
	}
}

var (
	rePayment = regexp.MustCompile(`(?i)Pay HKD(\d*) to (.*)`)
	reStock   = regexp.MustCompile(`(?i)(\d*)\.hk`)
)

// Intent is the classified purpose of a text message.
type Intent struct {
	Kind Kind

	// Payment
	Recipient string
	Amount    decimal.Decimal

	// Stock
	Ticker string
}

// Classify matches text against the payment template first, then the
// ticker template. An empty digit group is kept as an empty ticker or a
// zero amount instead of being rejected.
func Classify(text string) Intent {
	if m := rePayment.FindStringSubmatch(text); m != nil {
		amount := decimal.Zero
		if m[1] != "" {
			// \d+ always parses
			amount, _ = decimal.NewFromString(m[1])
		}
		return Intent{
			Kind:      Payment,
			Recipient: strings.TrimSpace(m[2]),
			Amount:    amount,
		}
	}
	if m := reStock.FindStringSubmatch(text); m != nil {
		return Intent{Kind: Stock, Ticker: m[1]}
	}
	return Intent{Kind: Unrecognized}
}
