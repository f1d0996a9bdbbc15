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

	"pointhub-backend/internal/domains/order/model"
	"pointhub-backend/internal/shared/utils"
	"pointhub-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const orderColumns = `id, order_number, user_id, subtotal, voucher_code, voucher_discount, discount_capped,
	total, points_earned, status, source, created_by, created_at, paid_at, cancelled_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Subtotal, &o.VoucherCode, &o.VoucherDiscount, &o.DiscountCapped,
		&o.Total, &o.PointsEarned, &o.Status, &o.Source, &o.CreatedBy, &o.CreatedAt, &o.PaidAt, &o.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// =====================================================
// WRITE OPERATIONS
// =====================================================

func (r *postgresRepository) Create(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	q := database.Q(r.pool, tx)

	query := `
		INSERT INTO orders (
			id, order_number, user_id, subtotal, voucher_code, voucher_discount, discount_capped,
			total, points_earned, status, source, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := q.Exec(ctx, query,
		o.ID, o.OrderNumber, o.UserID, o.Subtotal, o.VoucherCode, o.VoucherDiscount, o.DiscountCapped,
		o.Total, o.PointsEarned, o.Status, o.Source, o.CreatedBy, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if len(o.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (id, order_id, product_id, product_name, price, quantity, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.ID, item.OrderID, item.ProductID, item.ProductName, item.Price, item.Quantity, item.LineTotal)
	}
	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

func (r *postgresRepository) MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, paidAt time.Time) (*model.Order, error) {
	query := `
		UPDATE orders SET status = 'PAID', paid_at = $2
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + orderColumns
	return r.transition(ctx, tx, query, id, paidAt)
}

func (r *postgresRepository) MarkCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) (*model.Order, error) {
	query := `
		UPDATE orders SET status = 'CANCELLED', cancelled_at = $2
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + orderColumns
	return r.transition(ctx, tx, query, id, at)
}

func (r *postgresRepository) transition(ctx context.Context, tx pgx.Tx, query string, id uuid.UUID, at time.Time) (*model.Order, error) {
	o, err := scanOrder(database.Q(r.pool, tx).QueryRow(ctx, query, id, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return o, nil
}

// =====================================================
// READ OPERATIONS
// =====================================================

func (r *postgresRepository) GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(database.Q(r.pool, tx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.Order, int, error) {
	var where utils.WhereBuilder
	if filter.UserID != nil {
		where.Add("user_id = ?", *filter.UserID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		where.Add("status = ANY(?::text[])", pq.Array(statuses))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders` + where.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT ` + orderColumns + ` FROM orders` + where.SQL() +
		` ORDER BY created_at DESC LIMIT ` + where.Next(limit) + ` OFFSET ` + where.Next(filter.Offset)

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

func (r *postgresRepository) Items(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, price, quantity, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_name
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepository) PaidSummary(ctx context.Context, userID uuid.UUID) (model.PaidSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE user_id = $1 AND status = 'PAID'
	`
	var s model.PaidSummary
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&s.TotalOrders, &s.LifetimeSpent); err != nil {
		return model.PaidSummary{}, fmt.Errorf("paid summary: %w", err)
	}
	return s, nil
}
