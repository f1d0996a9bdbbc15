package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Campaign is the process-wide loyalty configuration. Exactly one is active.
type Campaign struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	AccrualPer     int64     `json:"accrualPer"`     // rupiah per 1 point
	RedeemValue    int64     `json:"redeemValue"`    // informational, tier catalog is authoritative
	DiscountCapPct int       `json:"discountCapPct"` // max share of subtotal a voucher may discount
	ExpiryDays     int       `json:"expiryDays"`
	IsActive       bool      `json:"isActive"`
}

// Validate enforces the invariants the pricing engine relies on.
func (c Campaign) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&c.AccrualPer, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.RedeemValue, validation.Min(int64(0))),
		validation.Field(&c.DiscountCapPct, validation.Min(0), validation.Max(100)),
		validation.Field(&c.ExpiryDays, validation.Required, validation.Min(1)),
	)
}

// UpdateCampaignRequest is a partial update; nil fields keep their value.
type UpdateCampaignRequest struct {
	Name           *string `json:"name"`
	AccrualPer     *int64  `json:"accrualPer"`
	RedeemValue    *int64  `json:"redeemValue"`
	DiscountCapPct *int    `json:"discountCapPct"`
	ExpiryDays     *int    `json:"expiryDays"`
	IsActive       *bool   `json:"isActive"`
}

// Apply returns c with the non-nil fields of req.
func (req UpdateCampaignRequest) Apply(c Campaign) Campaign {
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.AccrualPer != nil {
		c.AccrualPer = *req.AccrualPer
	}
	if req.RedeemValue != nil {
		c.RedeemValue = *req.RedeemValue
	}
	if req.DiscountCapPct != nil {
		c.DiscountCapPct = *req.DiscountCapPct
	}
	if req.ExpiryDays != nil {
		c.ExpiryDays = *req.ExpiryDays
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	return c
}
