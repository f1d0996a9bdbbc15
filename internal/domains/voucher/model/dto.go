package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"pointhub-backend/internal/shared/money"
)

type RedeemRequest struct {
	PointsCost int64 `json:"pointsCost"`
}

func (r RedeemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PointsCost, validation.Required, validation.Min(int64(1))),
	)
}

type RedeemResult struct {
	Voucher       *Voucher `json:"voucher"`
	PointsSpent   int64    `json:"pointsSpent"`
	PointsBalance int64    `json:"pointsBalance"`
}

type IssueRequest struct {
	UserID  uuid.UUID    `json:"userId"`
	ValueRp money.Rupiah `json:"valueRp"`
}

func (r IssueRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.By(func(any) error {
			if r.UserID == uuid.Nil {
				return validation.NewError("validation_required", "cannot be blank")
			}
			return nil
		})),
		validation.Field(&r.ValueRp, validation.Required, validation.Min(money.Rupiah(1))),
	)
}

// Resolution is the outcome of looking up a code for a cart. Reason is set
// whenever Applicable is false.
type Resolution struct {
	Code       string   `json:"code"`
	Voucher    *Voucher `json:"voucher,omitempty"`
	Applicable bool     `json:"applicable"`
	Reason     error    `json:"-"`
}

// ValueRp is the value to price with: the voucher value when applicable, else 0.
func (r *Resolution) ValueRp() money.Rupiah {
	if r == nil || !r.Applicable || r.Voucher == nil {
		return 0
	}
	return r.Voucher.ValueRp
}
