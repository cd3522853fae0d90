package app

import (
	"context"

	"github.com/nicolasrigourd/pos-mobile/internal/catalog/domain"
)

type ProductRepo interface {
	Get(ctx context.Context, code string) (domain.Product, error)
	Put(ctx context.Context, p domain.Product) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}
