package repository

import (
	"context"

	"pointhub-backend/internal/domains/campaign/model"
)

type RepositoryInterface interface {
	// GetCurrent returns the active campaign or, failing that, the most recent one.
	GetCurrent(ctx context.Context) (*model.Campaign, error)
	Update(ctx context.Context, c *model.Campaign) error
}
