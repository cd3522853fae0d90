package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	catalogapp "github.com/nicolasrigourd/pos-mobile/internal/catalog/app"
	catalogdomain "github.com/nicolasrigourd/pos-mobile/internal/catalog/domain"
)

type fakeCatalog struct {
	products map[string]catalogdomain.Product
}

func (f fakeCatalog) Lookup(ctx context.Context, code string) (catalogdomain.Product, error) {
	p, ok := f.products[code]
	if !ok {
		return catalogdomain.Product{}, catalogapp.ErrNotFound
	}
	return p, nil
}

type missRecorder struct {
	codes []string
}

func (m *missRecorder) CatalogMiss(ctx context.Context, code string) {
	m.codes = append(m.codes, code)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() fakeCatalog {
	return fakeCatalog{products: map[string]catalogdomain.Product{
		"7791234567890": {Code: "7791234567890", Name: "Coca Cola 500ml", UnitPrice: decimal.NewFromInt(1500)},
		"7790000000001": {Code: "7790000000001", Name: "Galletitas", UnitPrice: decimal.NewFromInt(900)},
	}}
}

// checkTotal verifies the derived-total invariant against the current items.
func checkTotal(t *testing.T, svc *Service) {
	t.Helper()
	sum := decimal.Zero
	for _, it := range svc.Items(context.Background()) {
		sum = sum.Add(it.Subtotal)
	}
	if total := svc.Total(context.Background()); !total.Equal(sum) {
		t.Fatalf("total %s != sum of subtotals %s", total, sum)
	}
}

func TestAddByCode_RepetitionAggregates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testCatalog(), discardLogger())

	const n = 5
	for i := 0; i < n; i++ {
		if err := svc.AddByCode(ctx, "7791234567890"); err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
		checkTotal(t, svc)
	}

	items := svc.Items(ctx)
	if len(items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(items))
	}
	if items[0].Quantity != n {
		t.Fatalf("expected quantity %d, got %d", n, items[0].Quantity)
	}
	want := decimal.NewFromInt(1500 * n)
	if !items[0].Subtotal.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, items[0].Subtotal)
	}
}

func TestAddByCode_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testCatalog(), discardLogger())

	for _, code := range []string{"7790000000001", "7791234567890", "7790000000001"} {
		if err := svc.AddByCode(ctx, code); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		checkTotal(t, svc)
	}

	items := svc.Items(ctx)
	if len(items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(items))
	}
	if items[0].Code != "7790000000001" || items[1].Code != "7791234567890" {
		t.Fatalf("unexpected order: %q, %q", items[0].Code, items[1].Code)
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected first line quantity 2, got %d", items[0].Quantity)
	}
}

func TestAddByCode_Normalization(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testCatalog(), discardLogger())

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		if err := svc.AddByCode(ctx, "  7791234567890  "); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		items := svc.Items(ctx)
		if len(items) != 1 || items[0].Code != "7791234567890" {
			t.Fatalf("expected one item for trimmed code, got %+v", items)
		}
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		before := len(svc.Items(ctx))
		if err := svc.AddByCode(ctx, ""); err != nil {
			t.Fatalf("empty add errored: %v", err)
		}
		if err := svc.AddByCode(ctx, "   "); err != nil {
			t.Fatalf("blank add errored: %v", err)
		}
		if got := len(svc.Items(ctx)); got != before {
			t.Fatalf("expected %d items, got %d", before, got)
		}
	})
}

func TestAddByCode_MissRoutesToHandler(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testCatalog(), discardLogger())
	rec := &missRecorder{}
	svc.SetMissHandler(rec)

	if err := svc.AddByCode(ctx, "  999  "); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if len(svc.Items(ctx)) != 0 {
		t.Fatal("miss must not create a line item")
	}
	if len(rec.codes) != 1 || rec.codes[0] != "999" {
		t.Fatalf("expected normalized miss for 999, got %v", rec.codes)
	}
}

func TestAddByCode_MissWithoutHandlerIsSilent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testCatalog(), discardLogger())

	if err := svc.AddByCode(ctx, "999"); err != nil {
		t.Fatalf("miss without handler errored: %v", err)
	}
	if len(svc.Items(ctx)) != 0 {
		t.Fatal("miss must not create a line item")
	}
}

func TestRemoveByCode_DropsWholeLine(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testCatalog(), discardLogger())

	for i := 0; i < 3; i++ {
		if err := svc.AddByCode(ctx, "7791234567890"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	if err := svc.AddByCode(ctx, "7790000000001"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if !svc.RemoveByCode(ctx, "7791234567890") {
		t.Fatal("expected removal to report true")
	}
	checkTotal(t, svc)

	items := svc.Items(ctx)
	if len(items) != 1 || items[0].Code != "7790000000001" {
		t.Fatalf("expected only galletitas left, got %+v", items)
	}

	if svc.RemoveByCode(ctx, "7791234567890") {
		t.Fatal("second removal of same code must report false")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testCatalog(), discardLogger())

	if err := svc.AddByCode(ctx, "7791234567890"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	svc.Clear(ctx)

	if len(svc.Items(ctx)) != 0 {
		t.Fatal("expected empty cart after clear")
	}
	if !svc.Total(ctx).Equal(decimal.Zero) {
		t.Fatalf("expected zero total, got %s", svc.Total(ctx))
	}
}
