package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pointhub-backend/internal/domains/outlet/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const outletColumns = `id, name, location, contact_email, created_at, updated_at`

func scanOutlet(row pgx.Row) (*model.Outlet, error) {
	var o model.Outlet
	err := row.Scan(&o.ID, &o.Name, &o.Location, &o.ContactEmail, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrOutletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan outlet: %w", err)
	}
	return &o, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*model.Outlet, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+outletColumns+` FROM outlets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list outlets: %w", err)
	}
	defer rows.Close()

	out := make([]*model.Outlet, 0)
	for rows.Next() {
		o, err := scanOutlet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Outlet, error) {
	return scanOutlet(r.pool.QueryRow(ctx, `SELECT `+outletColumns+` FROM outlets WHERE id = $1`, id))
}

func (r *postgresRepository) Create(ctx context.Context, o *model.Outlet) error {
	query := `
		INSERT INTO outlets (id, name, location, contact_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, query, o.ID, o.Name, o.Location, o.ContactEmail, o.CreatedAt, o.UpdatedAt); err != nil {
		return fmt.Errorf("insert outlet: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, o *model.Outlet) error {
	query := `
		UPDATE outlets
		SET name = $2, location = $3, contact_email = $4, updated_at = $5
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, o.ID, o.Name, o.Location, o.ContactEmail, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update outlet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOutletNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM outlets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete outlet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOutletNotFound
	}
	return nil
}
