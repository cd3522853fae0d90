package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nicolasrigourd/pos-mobile/internal/checkout/domain"
)

type CartReader interface {
	Lines(ctx context.Context) ([]CartLine, error)
}

type CartLine struct {
	Code     string
	Quantity int32
}

type CatalogReader interface {
	GetProduct(ctx context.Context, code string) (Product, error)
}

type Product struct {
	Code      string
	Name      string
	UnitPrice decimal.Decimal
}

// Service re-prices the cart against the catalog at quote time. A product
// redefined after it was scanned shows up here at its current price; the
// cart itself is never mutated.
type Service struct {
	Cart    CartReader
	Catalog CatalogReader

	maxConcurrent int
}

func NewService(cart CartReader, catalog CatalogReader, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		maxConcurrent: maxConcurrent,
	}
}

var ErrEmptyCart = errors.New("cart is empty")

func (s *Service) Quote(ctx context.Context) (domain.Quote, error) {
	lines, err := s.Cart.Lines(ctx)
	if err != nil {
		return domain.Quote{}, err
	}

	if len(lines) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	out := make([]domain.QuoteLine, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range lines {
		idx := idx
		g.Go(func() error {
			ln := lines[idx]
			if ln.Quantity <= 0 {
				return fmt.Errorf("quantity must be greater than zero: %d", ln.Quantity)
			}

			product, err := s.Catalog.GetProduct(ctx, ln.Code)
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", ln.Code, err)
			}

			out[idx] = domain.QuoteLine{
				Code:      product.Code,
				Name:      product.Name,
				Quantity:  ln.Quantity,
				UnitPrice: product.UnitPrice,
				LineTotal: product.UnitPrice.Mul(decimal.NewFromInt32(ln.Quantity)),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	total := decimal.Zero
	for _, line := range out {
		total = total.Add(line.LineTotal)
	}

	return domain.Quote{
		Lines: out,
		Total: total,
	}, nil
}
