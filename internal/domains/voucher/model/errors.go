package model

import (
	userModel "pointhub-backend/internal/domains/user/model"
	"pointhub-backend/internal/shared/apperr"
)

var (
	ErrVoucherNotFound = apperr.NotFound("VOUCHER_NOT_FOUND", "voucher not found")

	ErrInvalidTier   = apperr.Validation("INVALID_TIER", "points cost does not match a voucher tier")
	ErrInvalidValue  = apperr.Validation("INVALID_VOUCHER_VALUE", "voucher value must be positive")
	ErrInvalidStatus = apperr.Validation("INVALID_VOUCHER_STATUS", "unknown voucher status")

	ErrInsufficientPoints = userModel.ErrInsufficientPoints
	ErrVoucherExpired     = apperr.BusinessRule("VOUCHER_EXPIRED", "voucher has expired")
	ErrVoucherUsed        = apperr.BusinessRule("VOUCHER_USED", "voucher has already been used")
	ErrMinSpendNotMet     = apperr.BusinessRule("MIN_SPEND_NOT_MET", "subtotal is below the voucher minimum spend")
	ErrVoucherNotOwned    = apperr.BusinessRule("VOUCHER_NOT_OWNED", "voucher belongs to another user")

	// ErrVoucherAlreadyUsed is the lost compare-and-swap on consumption.
	ErrVoucherAlreadyUsed = apperr.Conflict("VOUCHER_ALREADY_USED", "voucher was consumed by another order")

	// ErrCodeCollision signals a generated code that already exists; the service retries.
	ErrCodeCollision           = apperr.Conflict("VOUCHER_CODE_COLLISION", "voucher code already exists")
	ErrCodeGenerationExhausted = apperr.Internal("VOUCHER_CODE_EXHAUSTED", "could not generate a unique voucher code", nil)
)
