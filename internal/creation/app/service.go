package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/nicolasrigourd/pos-mobile/internal/catalog/domain"
	"github.com/nicolasrigourd/pos-mobile/internal/creation/domain"
)

// ErrNoDraft is returned when save or cancel is requested with no open draft.
var ErrNoDraft = errors.New("no open draft")

// ValidationError keeps a failed save local to the draft: the draft stays
// open and the message is shown on the form.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// CatalogWriter is the creation flow's write side of the catalog. It is the
// only component that mutates the catalog.
type CatalogWriter interface {
	Define(ctx context.Context, code, name, desc string, unitPrice decimal.Decimal) (catalogdomain.Product, error)
}

// CartAdder retries the saved code so the new product lands in the cart.
type CartAdder interface {
	AddByCode(ctx context.Context, code string) error
}

// Service holds at most one pending draft at a time. A new catalog miss
// replaces whatever draft was open.
type Service struct {
	mu    sync.Mutex
	draft *domain.Draft

	catalog CatalogWriter
	cart    CartAdder
	log     *slog.Logger
}

func NewService(catalog CatalogWriter, cart CartAdder, log *slog.Logger) *Service {
	return &Service{
		catalog: catalog,
		cart:    cart,
		log:     log,
	}
}

// CatalogMiss opens a draft pre-filled with the missed code. Implements the
// cart aggregator's miss handler port.
func (s *Service) CatalogMiss(ctx context.Context, code string) {
	s.mu.Lock()
	s.draft = &domain.Draft{Code: code}
	s.mu.Unlock()
	s.log.Info("creation draft opened", slog.String("code", code))
}

// Current returns the open draft, if any.
func (s *Service) Current() (domain.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return domain.Draft{}, false
	}
	return *s.draft, true
}

// Save validates the submitted fields, writes the product into the catalog
// and retries the code against the cart. Validation failures leave the
// draft open with the submitted values.
func (s *Service) Save(ctx context.Context, in domain.Draft) error {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return ErrNoDraft
	}
	*s.draft = in
	s.mu.Unlock()

	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" {
		return &ValidationError{Msg: "code is required"}
	}
	if name == "" {
		return &ValidationError{Msg: "name is required"}
	}

	price, err := domain.ParsePrice(in.PriceText)
	if err != nil {
		return &ValidationError{Msg: err.Error()}
	}

	if _, err := s.catalog.Define(ctx, code, name, in.Description, price); err != nil {
		return fmt.Errorf("define product %s: %w", code, err)
	}

	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()

	s.log.Info("product created",
		slog.String("code", code),
		slog.String("unit_price", price.String()),
	)

	return s.cart.AddByCode(ctx, code)
}

// Cancel discards the open draft. Cancelling with no draft is a no-op.
func (s *Service) Cancel(ctx context.Context) {
	s.mu.Lock()
	had := s.draft != nil
	s.draft = nil
	s.mu.Unlock()
	if had {
		s.log.Info("creation draft cancelled")
	}
}
