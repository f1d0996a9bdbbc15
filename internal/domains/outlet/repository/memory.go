package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"pointhub-backend/internal/domains/outlet/model"
)

// MemoryRepository keeps outlets in a map for tests and fixtures.
type MemoryRepository struct {
	mu      sync.Mutex
	outlets map[uuid.UUID]model.Outlet
}

var _ RepositoryInterface = (*MemoryRepository)(nil)

func NewMemoryRepository(seed ...*model.Outlet) *MemoryRepository {
	r := &MemoryRepository{outlets: make(map[uuid.UUID]model.Outlet)}
	for _, o := range seed {
		r.outlets[o.ID] = *o
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context) ([]*model.Outlet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.Outlet, 0, len(r.outlets))
	for _, o := range r.outlets {
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Outlet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.outlets[id]
	if !ok {
		return nil, model.ErrOutletNotFound
	}
	return &o, nil
}

func (r *MemoryRepository) Create(_ context.Context, o *model.Outlet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outlets[o.ID] = *o
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, o *model.Outlet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.outlets[o.ID]; !ok {
		return model.ErrOutletNotFound
	}
	r.outlets[o.ID] = *o
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.outlets[id]; !ok {
		return model.ErrOutletNotFound
	}
	delete(r.outlets, id)
	return nil
}
