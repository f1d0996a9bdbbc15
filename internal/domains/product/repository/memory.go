package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"pointhub-backend/internal/domains/product/model"
)

// MemoryRepository keeps products in a map for tests and fixtures.
type MemoryRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]model.Product
	// Reads counts List and GetByID calls, so tests can observe cache hits.
	Reads int
}

var _ RepositoryInterface = (*MemoryRepository)(nil)

func NewMemoryRepository(seed ...*model.Product) *MemoryRepository {
	r := &MemoryRepository{products: make(map[uuid.UUID]model.Product)}
	for _, p := range seed {
		r.products[p.ID] = *p
	}
	return r
}

func (r *MemoryRepository) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++

	p, ok := r.products[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) List(_ context.Context, filter model.ListFilter) ([]*model.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++

	out := make([]*model.Product, 0)
	for _, p := range r.products {
		if !filter.IncludeInactive && !p.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	total := len(out)
	out = out[min(filter.Offset(), len(out)):]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *MemoryRepository) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[p.ID]; !ok {
		return model.ErrProductNotFound
	}
	r.products[p.ID] = *p
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return model.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}
