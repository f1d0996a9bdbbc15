package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pointhub-backend/internal/domains/voucher/model"
)

type RepositoryInterface interface {
	// Insert stores a new voucher. A taken code returns ErrCodeCollision
	// without aborting the surrounding transaction.
	Insert(ctx context.Context, tx pgx.Tx, v *model.Voucher) error
	GetByCode(ctx context.Context, tx pgx.Tx, code string) (*model.Voucher, error)
	// Consume flips ACTIVE to USED only when the voucher is still ACTIVE and
	// unexpired at now. It returns the updated row, or nil when no row matched.
	Consume(ctx context.Context, tx pgx.Tx, code string, orderID uuid.UUID, now time.Time) (*model.Voucher, error)
	// List returns vouchers newest first; statuses filter on the derived status at now.
	List(ctx context.Context, filter model.ListFilter, now time.Time) ([]*model.Voucher, error)
	// MarkExpired persists EXPIRED for up to limit ACTIVE vouchers past expiry.
	MarkExpired(ctx context.Context, now time.Time, limit int) (int64, error)
}
