package adapter

import (
	"context"

	catalogapp "github.com/nicolasrigourd/pos-mobile/internal/catalog/app"
	checkoutapp "github.com/nicolasrigourd/pos-mobile/internal/checkout/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, code string) (checkoutapp.Product, error) {
	p, err := r.svc.Lookup(ctx, code)
	if err != nil {
		return checkoutapp.Product{}, err
	}

	return checkoutapp.Product{
		Code:      p.Code,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
	}, nil
}
