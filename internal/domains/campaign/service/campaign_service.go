package service

import (
	"context"
	"fmt"
	"time"

	"pointhub-backend/internal/domains/campaign/model"
	"pointhub-backend/internal/domains/campaign/repository"
	"pointhub-backend/pkg/cache"
	"pointhub-backend/pkg/logger"
)

const cacheKeyCurrent = "campaign:current"

type ServiceInterface interface {
	GetActive(ctx context.Context) (*model.Campaign, error)
	Update(ctx context.Context, req model.UpdateCampaignRequest) (*model.Campaign, error)
}

type campaignService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	ttl   time.Duration
}

func NewCampaignService(repo repository.RepositoryInterface, c cache.Cache, ttl time.Duration) ServiceInterface {
	return &campaignService{repo: repo, cache: c, ttl: ttl}
}

// GetActive returns the campaign in force: the active record, or the most
// recent one when an admin has switched the campaign off. Callers check IsActive.
func (s *campaignService) GetActive(ctx context.Context) (*model.Campaign, error) {
	var cached model.Campaign
	if s.cache != nil {
		found, err := s.cache.Get(ctx, cacheKeyCurrent, &cached)
		if err != nil {
			logger.Error("campaign cache read failed", err)
		}
		if found {
			return &cached, nil
		}
	}

	c, err := s.repo.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyCurrent, c, s.ttl); err != nil {
			logger.Error("campaign cache write failed", err)
		}
	}
	return c, nil
}

// Update merges the patch, validates the result and invalidates the cache.
func (s *campaignService) Update(ctx context.Context, req model.UpdateCampaignRequest) (*model.Campaign, error) {
	current, err := s.repo.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	updated := req.Apply(*current)
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKeyCurrent); err != nil {
			logger.Error("campaign cache invalidation failed", err)
		}
	}

	logger.Info("campaign updated", map[string]interface{}{
		"campaign_id":      updated.ID.String(),
		"accrual_per":      updated.AccrualPer,
		"discount_cap_pct": updated.DiscountCapPct,
		"expiry_days":      updated.ExpiryDays,
		"is_active":        updated.IsActive,
	})
	return &updated, nil
}
