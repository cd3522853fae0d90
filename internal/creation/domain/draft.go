package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Draft is the transient form state for defining a product after a catalog
// miss. It lives independently of the scan session that spawned it.
type Draft struct {
	Code        string
	Name        string
	Description string
	PriceText   string
}

var ErrBadPrice = errors.New("price must be a number greater than zero")

// ParsePrice turns user price text into a decimal. Comma decimal separators
// are accepted and normalized to a dot before parsing.
func ParsePrice(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	if text == "" {
		return decimal.Decimal{}, ErrBadPrice
	}

	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, ErrBadPrice
	}
	if !price.IsPositive() {
		return decimal.Decimal{}, ErrBadPrice
	}
	return price, nil
}
