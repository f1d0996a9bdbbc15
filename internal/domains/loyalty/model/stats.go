package model

import (
	"github.com/google/uuid"

	voucherModel "pointhub-backend/internal/domains/voucher/model"
	"pointhub-backend/internal/shared/money"
)

type UserStats struct {
	UserID              uuid.UUID             `json:"userId"`
	PointsBalance       int64                 `json:"pointsBalance"`
	TotalOrders         int                   `json:"totalOrders"`
	LifetimeSpent       money.Rupiah          `json:"lifetimeSpent"`
	NextVoucherProgress voucherModel.Progress `json:"nextVoucherProgress"`
}

type Points struct {
	UserID        uuid.UUID `json:"userId"`
	PointsBalance int64     `json:"pointsBalance"`
}
