package app

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nicolasrigourd/pos-mobile/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// Lookup resolves a barcode value to its product record.
func (s *Service) Lookup(ctx context.Context, code string) (domain.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, code)
}

// Define writes a product record for the given code, replacing any existing
// record outright. Last write wins; there is no merge.
func (s *Service) Define(ctx context.Context, code, name, desc string, unitPrice decimal.Decimal) (domain.Product, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)

	if code == "" || name == "" || !unitPrice.IsPositive() {
		return domain.Product{}, ErrInvalidInput
	}

	p := domain.Product{
		Code:        code,
		Name:        name,
		Description: desc,
		UnitPrice:   unitPrice,
	}

	product, err := s.repo.Put(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Seed loads the initial product set. Records that fail validation are
// skipped rather than aborting startup.
func (s *Service) Seed(ctx context.Context, products []domain.Product) (int, error) {
	n := 0
	for _, p := range products {
		if _, err := s.Define(ctx, p.Code, p.Name, p.Description, p.UnitPrice); err != nil {
			if errors.Is(err, ErrInvalidInput) {
				continue
			}
			return n, err
		}
		n++
	}
	return n, nil
}
