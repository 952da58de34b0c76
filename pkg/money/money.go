// Package money formats and parses Brazilian real amounts as shown on the menu.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the marker prefixed to every formatted amount.
const Currency = "R$"

// ErrInvalidPrice indicates a displayed price could not be read as a number.
var ErrInvalidPrice = errors.New("invalid price")

// Format renders amount with two fraction digits and a comma separator,
// e.g. 12.5 becomes "R$ 12,50".
func Format(amount decimal.Decimal) string {
	return Currency + " " + strings.Replace(amount.StringFixed(2), ".", ",", 1)
}

// ParseMenuPrice reads a price as printed on a menu card, such as
// "A partir de R$ 12,50" or "R$ 8,00".
func ParseMenuPrice(text string) (decimal.Decimal, error) {
	s := strings.Replace(text, "A partir de ", "", 1)
	s = strings.Replace(s, Currency, "", 1)
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return decimal.Zero, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	return d, nil
}
