package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nicolasrigourd/pos-mobile/internal/cart/domain"
	catalogapp "github.com/nicolasrigourd/pos-mobile/internal/catalog/app"
)

// Service owns the cart. Scanned and typed codes both land on AddByCode, so
// quantities merge the same way regardless of input method.
type Service struct {
	mu      sync.Mutex
	cart    domain.Cart
	catalog CatalogReader
	miss    MissHandler
	log     *slog.Logger
}

func NewService(catalog CatalogReader, log *slog.Logger) *Service {
	return &Service{
		cart:    domain.Cart{ID: uuid.NewString()},
		catalog: catalog,
		log:     log,
	}
}

// SetMissHandler wires the creation flow in after construction; the flow
// itself needs this service to retry saved codes.
func (s *Service) SetMissHandler(h MissHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.miss = h
}

// AddByCode resolves the code and merges one unit into the cart. Empty input
// is a no-op. An unresolved code never creates a line item; it is routed to
// the miss handler instead.
func (s *Service) AddByCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}

	product, err := s.catalog.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, catalogapp.ErrNotFound) {
			s.log.Info("catalog miss", slog.String("code", code))
			s.mu.Lock()
			h := s.miss
			s.mu.Unlock()
			if h != nil {
				h.CatalogMiss(ctx, code)
			}
			return nil
		}
		return err
	}

	s.mu.Lock()
	item := s.cart.Add(product.Code, product.Name, product.Description, product.UnitPrice)
	s.mu.Unlock()

	s.log.Info("item added",
		slog.String("code", item.Code),
		slog.Int("quantity", int(item.Quantity)),
		slog.String("subtotal", item.Subtotal.String()),
	)
	return nil
}

// RemoveByCode drops the whole line item, not a single unit.
func (s *Service) RemoveByCode(ctx context.Context, code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}

	s.mu.Lock()
	removed := s.cart.Remove(code)
	s.mu.Unlock()

	if removed {
		s.log.Info("item removed", slog.String("code", code))
	}
	return removed
}

func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	s.cart.Clear()
	s.mu.Unlock()
	s.log.Info("cart cleared")
}

// Items returns a snapshot of the current line items in first-scan order.
func (s *Service) Items(ctx context.Context) []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.LineItem, len(s.cart.Items))
	copy(out, s.cart.Items)
	return out
}

func (s *Service) Total(ctx context.Context) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *Service) CartID() string {
	return s.cart.ID
}
