package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pointhub-backend/internal/domains/dashboard/model"
)

type RepositoryInterface interface {
	// WindowTotals aggregates [from, to). ActiveUsers counts member accounts
	// that existed at to.
	WindowTotals(ctx context.Context, from, to time.Time) (model.WindowTotals, error)
	// DailyRevenue returns PAID revenue per UTC day in [from, to); days without
	// sales are omitted.
	DailyRevenue(ctx context.Context, from, to time.Time) ([]model.DailyRevenue, error)
	PaidOrders(ctx context.Context, from, to time.Time) ([]model.ExportRow, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) WindowTotals(ctx context.Context, from, to time.Time) (model.WindowTotals, error) {
	var t model.WindowTotals
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(total), 0) FROM orders
			  WHERE status = 'PAID' AND paid_at >= $1 AND paid_at < $2) AS revenue,
			(SELECT COUNT(*) FROM orders
			  WHERE status = 'PAID' AND paid_at >= $1 AND paid_at < $2) AS paid_orders,
			(SELECT COUNT(*) FROM vouchers
			  WHERE status = 'USED' AND used_at >= $1 AND used_at < $2) AS vouchers_redeemed,
			(SELECT COUNT(*) FROM users
			  WHERE role = 'user' AND created_at < $2) AS active_users
	`, from, to).Scan(&t.Revenue, &t.PaidOrders, &t.VouchersRedeemed, &t.ActiveUsers)
	if err != nil {
		return model.WindowTotals{}, fmt.Errorf("dashboard totals: %w", err)
	}
	return t, nil
}

func (r *postgresRepository) DailyRevenue(ctx context.Context, from, to time.Time) ([]model.DailyRevenue, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char((paid_at AT TIME ZONE 'UTC')::date, 'YYYY-MM-DD') AS day,
		       COALESCE(SUM(total), 0) AS revenue,
		       COUNT(*) AS orders
		FROM orders
		WHERE status = 'PAID' AND paid_at >= $1 AND paid_at < $2
		GROUP BY day
		ORDER BY day ASC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily revenue: %w", err)
	}
	defer rows.Close()

	var points []model.DailyRevenue
	for rows.Next() {
		var p model.DailyRevenue
		if err := rows.Scan(&p.Date, &p.Revenue, &p.Orders); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *postgresRepository) PaidOrders(ctx context.Context, from, to time.Time) ([]model.ExportRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.order_number, o.paid_at, u.email, o.source, o.subtotal,
		       o.voucher_code, o.voucher_discount, o.total, o.points_earned
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.status = 'PAID' AND o.paid_at >= $1 AND o.paid_at < $2
		ORDER BY o.paid_at ASC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("export orders: %w", err)
	}
	defer rows.Close()

	var out []model.ExportRow
	for rows.Next() {
		var e model.ExportRow
		if err := rows.Scan(&e.OrderNumber, &e.PaidAt, &e.CustomerEmail, &e.Source, &e.Subtotal,
			&e.VoucherCode, &e.VoucherDiscount, &e.Total, &e.PointsEarned); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
