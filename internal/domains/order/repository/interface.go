package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pointhub-backend/internal/domains/order/model"
)

type RepositoryInterface interface {
	// Create inserts the order and its items.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error
	GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)
	// MarkPaid moves a PENDING order to PAID. It returns nil when the order
	// was not PENDING (or does not exist).
	MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, paidAt time.Time) (*model.Order, error)
	// MarkCancelled moves a PENDING order to CANCELLED, nil when not PENDING.
	MarkCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) (*model.Order, error)
	List(ctx context.Context, filter model.ListFilter) ([]*model.Order, int, error)
	Items(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
	PaidSummary(ctx context.Context, userID uuid.UUID) (model.PaidSummary, error)
}
