package app

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeCart struct {
	lines []CartLine
}

func (f fakeCart) Lines(ctx context.Context) ([]CartLine, error) { return f.lines, nil }

type fakeCatalog struct {
	products map[string]Product
}

func (f fakeCatalog) GetProduct(ctx context.Context, code string) (Product, error) {
	p, ok := f.products[code]
	if !ok {
		return Product{}, errors.New("not found")
	}
	return p, nil
}

func TestQuote(t *testing.T) {
	catalog := fakeCatalog{products: map[string]Product{
		"1": {Code: "1", Name: "Coca Cola 500ml", UnitPrice: decimal.NewFromInt(1500)},
		"2": {Code: "2", Name: "Galletitas", UnitPrice: decimal.NewFromInt(900)},
	}}

	t.Run("totals line by line", func(t *testing.T) {
		cart := fakeCart{lines: []CartLine{
			{Code: "1", Quantity: 2},
			{Code: "2", Quantity: 3},
		}}
		svc := NewService(cart, catalog, 4)

		quote, err := svc.Quote(context.Background())
		if err != nil {
			t.Fatalf("quote failed: %v", err)
		}

		if len(quote.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(quote.Lines))
		}
		if !quote.Lines[0].LineTotal.Equal(decimal.NewFromInt(3000)) {
			t.Fatalf("expected line total 3000, got %s", quote.Lines[0].LineTotal)
		}
		if !quote.Total.Equal(decimal.NewFromInt(5700)) {
			t.Fatalf("expected total 5700, got %s", quote.Total)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		svc := NewService(fakeCart{}, catalog, 4)
		if _, err := svc.Quote(context.Background()); err != ErrEmptyCart {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("unknown product fails the quote", func(t *testing.T) {
		cart := fakeCart{lines: []CartLine{{Code: "999", Quantity: 1}}}
		svc := NewService(cart, catalog, 4)
		if _, err := svc.Quote(context.Background()); err == nil {
			t.Fatal("expected error for unknown product")
		}
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		cart := fakeCart{lines: []CartLine{{Code: "1", Quantity: 0}}}
		svc := NewService(cart, catalog, 4)
		if _, err := svc.Quote(context.Background()); err == nil {
			t.Fatal("expected error for zero quantity")
		}
	})
}
