package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nicolasrigourd/pos-mobile/internal/catalog/app"
	"github.com/nicolasrigourd/pos-mobile/internal/catalog/domain"
)

// ProductRepo keeps the catalog in process memory for the lifetime of the
// POS session. Growth is monotonic: records are added or replaced, never
// removed.
type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product

	now func() time.Time
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{
		products: make(map[string]domain.Product),
		now:      time.Now,
	}
}

func (r *ProductRepo) Get(ctx context.Context, code string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[code]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) Put(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if prev, ok := r.products[p.Code]; ok {
		p.CreatedAt = prev.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	r.products[p.Code] = p
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
