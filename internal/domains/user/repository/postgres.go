package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pointhub-backend/internal/domains/user/model"
	"pointhub-backend/internal/shared/utils"
	"pointhub-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const userColumns = `id, email, password_hash, role, points_balance, outlet_id, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.PointsBalance, &u.OutletID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, points_balance, outlet_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		u.ID, utils.NormalizeEmail(u.Email), u.PasswordHash, u.Role, u.PointsBalance, u.OutletID, u.CreatedAt, u.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return model.ErrEmailAlreadyExists
	}
	if database.IsForeignKeyViolation(err) {
		return model.ErrUnknownOutlet
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = $1`
	return scanUser(r.pool.QueryRow(ctx, query, utils.NormalizeEmail(email)))
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListUsersFilter) ([]*model.User, int, error) {
	var where utils.WhereBuilder
	if filter.Role != "" {
		where.Add("role = ?", filter.Role)
	}
	if filter.Search != "" {
		where.Add("email ILIKE ?", "%"+filter.Search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users` + where.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `SELECT ` + userColumns + ` FROM users` + where.SQL() +
		` ORDER BY created_at DESC LIMIT ` + where.Next(limit) + ` OFFSET ` + where.Next(filter.Offset)

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, u *model.User) error {
	query := `UPDATE users SET role = $2, outlet_id = $3, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, u.ID, u.Role, u.OutletID)
	if database.IsForeignKeyViolation(err) {
		return model.ErrUnknownOutlet
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return scanUser(database.Q(r.pool, tx).QueryRow(ctx, query, id))
}

func (r *postgresRepository) AdjustPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) (int64, error) {
	query := `
		UPDATE users SET points_balance = points_balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING points_balance
	`
	var balance int64
	err := database.Q(r.pool, tx).QueryRow(ctx, query, id, delta).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, model.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		return 0, model.ErrInsufficientPoints
	}
	if err != nil {
		return 0, fmt.Errorf("adjust points: %w", err)
	}
	return balance, nil
}
