package adapter

import (
	"context"

	cartapp "github.com/nicolasrigourd/pos-mobile/internal/cart/app"
	checkoutapp "github.com/nicolasrigourd/pos-mobile/internal/checkout/app"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) Lines(ctx context.Context) ([]checkoutapp.CartLine, error) {
	items := r.svc.Items(ctx)

	lines := make([]checkoutapp.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, checkoutapp.CartLine{
			Code:     it.Code,
			Quantity: it.Quantity,
		})
	}
	return lines, nil
}
