package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Decimal parses the money amount. Platform amounts are decimal strings
// ("100.00"); float arithmetic must not be used on them.
func (m Money) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid money amount %q: %w", m.Amount, err)
	}
	return d, nil
}

// IsDiscounted reports whether price is strictly below compareAt. Unparseable
// or missing amounts never count as a discount.
func IsDiscounted(price Money, compareAt *Money) bool {
	if compareAt == nil {
		return false
	}
	p, err := price.Decimal()
	if err != nil {
		return false
	}
	c, err := compareAt.Decimal()
	if err != nil {
		return false
	}
	return p.LessThan(c)
}

// FormatMoney renders a money value the way the grid's unit-price column
// shows it, with a narrow currency symbol where one is common.
func FormatMoney(m Money) string {
	switch m.CurrencyCode {
	case "USD", "CAD", "AUD":
		return "$" + m.Amount
	case "EUR":
		return "€" + m.Amount
	case "GBP":
		return "£" + m.Amount
	default:
		return m.Amount + " " + m.CurrencyCode
	}
}
