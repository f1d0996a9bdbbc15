package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pointhub-backend/internal/domains/campaign/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const campaignColumns = `id, name, accrual_per, redeem_value, discount_cap_pct, expiry_days, is_active`

func scanCampaign(row pgx.Row) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.AccrualPer, &c.RedeemValue, &c.DiscountCapPct, &c.ExpiryDays, &c.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan campaign: %w", err)
	}
	return &c, nil
}

func (r *postgresRepository) GetCurrent(ctx context.Context) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY is_active DESC, updated_at DESC LIMIT 1`
	return scanCampaign(r.pool.QueryRow(ctx, query))
}

func (r *postgresRepository) Update(ctx context.Context, c *model.Campaign) error {
	query := `
		UPDATE campaigns
		SET name = $2, accrual_per = $3, redeem_value = $4, discount_cap_pct = $5,
		    expiry_days = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.AccrualPer, c.RedeemValue, c.DiscountCapPct, c.ExpiryDays, c.IsActive)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCampaignNotFound
	}
	return nil
}
