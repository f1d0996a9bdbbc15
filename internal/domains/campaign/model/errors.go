package model

import "pointhub-backend/internal/shared/apperr"

var (
	ErrCampaignNotFound = apperr.NotFound("CAMPAIGN_NOT_FOUND", "no campaign configured")
	ErrCampaignInactive = apperr.BusinessRule("CAMPAIGN_INACTIVE", "loyalty campaign is not active")
)
