package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"pointhub-backend/internal/domains/voucher/model"
	"pointhub-backend/internal/shared/utils"
	"pointhub-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const voucherColumns = `id, code, user_id, value_rp, min_spend_rp, status, created_at, expires_at, used_at, order_id`

func scanVoucher(row pgx.Row) (*model.Voucher, error) {
	var v model.Voucher
	err := row.Scan(&v.ID, &v.Code, &v.UserID, &v.ValueRp, &v.MinSpendRp, &v.Status,
		&v.CreatedAt, &v.ExpiresAt, &v.UsedAt, &v.OrderID)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *postgresRepository) Insert(ctx context.Context, tx pgx.Tx, v *model.Voucher) error {
	// ON CONFLICT keeps the transaction usable so the caller can retry with a new code
	query := `
		INSERT INTO vouchers (id, code, user_id, value_rp, min_spend_rp, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO NOTHING
		RETURNING id
	`
	var id uuid.UUID
	err := database.Q(r.pool, tx).QueryRow(ctx, query,
		v.ID, v.Code, v.UserID, v.ValueRp, v.MinSpendRp, v.Status, v.CreatedAt, v.ExpiresAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) || database.IsUniqueViolation(err) {
		return model.ErrCodeCollision
	}
	if err != nil {
		return fmt.Errorf("insert voucher: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByCode(ctx context.Context, tx pgx.Tx, code string) (*model.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE code = $1`
	v, err := scanVoucher(database.Q(r.pool, tx).QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrVoucherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return v, nil
}

func (r *postgresRepository) Consume(ctx context.Context, tx pgx.Tx, code string, orderID uuid.UUID, now time.Time) (*model.Voucher, error) {
	query := `
		UPDATE vouchers
		SET status = 'USED', used_at = $3, order_id = $2
		WHERE code = $1 AND status = 'ACTIVE' AND expires_at >= $3
		RETURNING ` + voucherColumns
	v, err := scanVoucher(database.Q(r.pool, tx).QueryRow(ctx, query, code, orderID, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("consume voucher: %w", err)
	}
	return v, nil
}

// effectiveStatusSQL mirrors Voucher.EffectiveStatus; the placeholder is now.
const effectiveStatusSQL = `CASE WHEN status = 'ACTIVE' AND expires_at < ? THEN 'EXPIRED' ELSE status END`

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter, now time.Time) ([]*model.Voucher, error) {
	var where utils.WhereBuilder
	if filter.UserID != nil {
		where.Add("user_id = ?", *filter.UserID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		where.Add(effectiveStatusSQL+" = ANY(?::text[])", now, pq.Array(statuses))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	query := `SELECT ` + voucherColumns + ` FROM vouchers` + where.SQL() +
		` ORDER BY created_at DESC LIMIT ` + where.Next(limit)

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	vouchers := make([]*model.Voucher, 0)
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

func (r *postgresRepository) MarkExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	query := `
		UPDATE vouchers SET status = 'EXPIRED'
		WHERE id IN (
			SELECT id FROM vouchers
			WHERE status = 'ACTIVE' AND expires_at < $1
			ORDER BY expires_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
	`
	tag, err := r.pool.Exec(ctx, query, now, limit)
	if err != nil {
		return 0, fmt.Errorf("mark vouchers expired: %w", err)
	}
	return tag.RowsAffected(), nil
}
