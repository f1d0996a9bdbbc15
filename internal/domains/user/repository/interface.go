package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pointhub-backend/internal/domains/user/model"
)

// RepositoryInterface is the user store. Methods taking a pgx.Tx run inside
// the caller's transaction; a nil tx runs on the pool.
type RepositoryInterface interface {
	// Create returns ErrEmailAlreadyExists on a duplicate (case-insensitive) email.
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filter model.ListUsersFilter) ([]*model.User, int, error)
	Update(ctx context.Context, u *model.User) error

	// LockForUpdate reads the user with SELECT ... FOR UPDATE, serializing
	// point mutations for that user until tx ends.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.User, error)
	// AdjustPoints adds delta to the balance and returns the new balance.
	// A balance that would go negative yields ErrInsufficientPoints.
	AdjustPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) (int64, error)
}
