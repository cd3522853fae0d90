package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one catalog record, keyed by its barcode value.
type Product struct {
	Code        string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
