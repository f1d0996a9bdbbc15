package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pointhub-backend/internal/domains/order/model"
)

// MemoryRepository keeps orders in a map. The tx arguments are ignored.
type MemoryRepository struct {
	mu     sync.Mutex
	orders map[uuid.UUID]model.Order
}

var _ RepositoryInterface = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[uuid.UUID]model.Order)}
}

func (r *MemoryRepository) Create(_ context.Context, _ pgx.Tx, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *o
	cp.Items = slices.Clone(o.Items)
	r.orders[o.ID] = cp
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, _ pgx.Tx, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	return withoutItems(o), nil
}

func (r *MemoryRepository) MarkPaid(_ context.Context, _ pgx.Tx, id uuid.UUID, paidAt time.Time) (*model.Order, error) {
	return r.transition(id, func(o *model.Order) {
		o.Status = model.StatusPaid
		o.PaidAt = &paidAt
	})
}

func (r *MemoryRepository) MarkCancelled(_ context.Context, _ pgx.Tx, id uuid.UUID, at time.Time) (*model.Order, error) {
	return r.transition(id, func(o *model.Order) {
		o.Status = model.StatusCancelled
		o.CancelledAt = &at
	})
}

func (r *MemoryRepository) transition(id uuid.UUID, apply func(*model.Order)) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok || o.Status != model.StatusPending {
		return nil, nil
	}
	apply(&o)
	r.orders[id] = o
	return withoutItems(o), nil
}

func (r *MemoryRepository) List(_ context.Context, filter model.ListFilter) ([]*model.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.Order, 0)
	for _, o := range r.orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, o.Status) {
			continue
		}
		out = append(out, withoutItems(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := len(out)
	if filter.Offset > 0 {
		out = out[min(filter.Offset, len(out)):]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *MemoryRepository) Items(_ context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return []model.OrderItem{}, nil
	}
	items := slices.Clone(o.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductName < items[j].ProductName })
	return items, nil
}

func (r *MemoryRepository) PaidSummary(_ context.Context, userID uuid.UUID) (model.PaidSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s model.PaidSummary
	for _, o := range r.orders {
		if o.UserID == userID && o.Status == model.StatusPaid {
			s.TotalOrders++
			s.LifetimeSpent += o.Total
		}
	}
	return s, nil
}

func withoutItems(o model.Order) *model.Order {
	o.Items = nil
	return &o
}
