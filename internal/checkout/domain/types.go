package domain

import "github.com/shopspring/decimal"

// QuoteLine is one cart line re-priced against the current catalog.
type QuoteLine struct {
	Code      string
	Name      string
	Quantity  int32
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type Quote struct {
	Lines []QuoteLine
	Total decimal.Decimal
}
