package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pointhub-backend/internal/domains/user/model"
	"pointhub-backend/internal/shared/utils"
)

// MemoryRepository keeps users in a map. The tx arguments are ignored, so it
// is meant for tests and fixtures, not for concurrent production traffic.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

var _ RepositoryInterface = (*MemoryRepository)(nil)

func NewMemoryRepository(seed ...*model.User) *MemoryRepository {
	r := &MemoryRepository{users: make(map[uuid.UUID]model.User)}
	for _, u := range seed {
		cp := *u
		cp.Email = utils.NormalizeEmail(cp.Email)
		r.users[cp.ID] = cp
	}
	return r
}

func (r *MemoryRepository) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := utils.NormalizeEmail(u.Email)
	for _, existing := range r.users {
		if existing.Email == email {
			return model.ErrEmailAlreadyExists
		}
	}
	cp := *u
	cp.Email = email
	r.users[u.ID] = cp
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = utils.NormalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *MemoryRepository) List(_ context.Context, filter model.ListUsersFilter) ([]*model.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Search != "" && !strings.Contains(u.Email, strings.ToLower(filter.Search)) {
			continue
		}
		cp := u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (r *MemoryRepository) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[u.ID]
	if !ok {
		return model.ErrUserNotFound
	}
	existing.Role = u.Role
	existing.OutletID = u.OutletID
	r.users[u.ID] = existing
	return nil
}

func (r *MemoryRepository) LockForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*model.User, error) {
	return r.GetByID(ctx, id)
}

func (r *MemoryRepository) AdjustPoints(_ context.Context, _ pgx.Tx, id uuid.UUID, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return 0, model.ErrUserNotFound
	}
	if u.PointsBalance+delta < 0 {
		return 0, model.ErrInsufficientPoints
	}
	u.PointsBalance += delta
	r.users[id] = u
	return u.PointsBalance, nil
}
