package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pointhub-backend/internal/domains/voucher/model"
)

// MemoryRepository keeps vouchers keyed by code. The tx arguments are ignored.
type MemoryRepository struct {
	mu       sync.Mutex
	vouchers map[string]model.Voucher
}

var _ RepositoryInterface = (*MemoryRepository)(nil)

func NewMemoryRepository(seed ...*model.Voucher) *MemoryRepository {
	r := &MemoryRepository{vouchers: make(map[string]model.Voucher)}
	for _, v := range seed {
		r.vouchers[v.Code] = *v
	}
	return r
}

func (r *MemoryRepository) Insert(_ context.Context, _ pgx.Tx, v *model.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vouchers[v.Code]; ok {
		return model.ErrCodeCollision
	}
	r.vouchers[v.Code] = *v
	return nil
}

func (r *MemoryRepository) GetByCode(_ context.Context, _ pgx.Tx, code string) (*model.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vouchers[code]
	if !ok {
		return nil, model.ErrVoucherNotFound
	}
	return &v, nil
}

func (r *MemoryRepository) Consume(_ context.Context, _ pgx.Tx, code string, orderID uuid.UUID, now time.Time) (*model.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vouchers[code]
	if !ok || v.Status != model.StatusActive || v.ExpiresAt.Before(now) {
		return nil, nil
	}
	usedAt := now
	v.Status = model.StatusUsed
	v.UsedAt = &usedAt
	v.OrderID = &orderID
	r.vouchers[code] = v
	return &v, nil
}

func (r *MemoryRepository) List(_ context.Context, filter model.ListFilter, now time.Time) ([]*model.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.Voucher, 0)
	for _, v := range r.vouchers {
		if filter.UserID != nil && v.UserID != *filter.UserID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, v.EffectiveStatus(now)) {
			continue
		}
		cp := v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) MarkExpired(_ context.Context, now time.Time, limit int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for code, v := range r.vouchers {
		if limit > 0 && n >= int64(limit) {
			break
		}
		if v.Status == model.StatusActive && v.ExpiresAt.Before(now) {
			v.Status = model.StatusExpired
			r.vouchers[code] = v
			n++
		}
	}
	return n, nil
}
