package app

import (
	"context"

	catalogdomain "github.com/nicolasrigourd/pos-mobile/internal/catalog/domain"
)

// CatalogReader resolves barcode values against the product catalog.
type CatalogReader interface {
	Lookup(ctx context.Context, code string) (catalogdomain.Product, error)
}

// MissHandler is told about codes the catalog cannot resolve. A miss is a
// defined branch into product creation, not an error.
type MissHandler interface {
	CatalogMiss(ctx context.Context, code string)
}
