package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	pricingModel "pointhub-backend/internal/domains/pricing/model"
)

// CheckoutRequest carries the client-held cart. Prices and names are the
// snapshots taken when each line was added.
type CheckoutRequest struct {
	Items       []pricingModel.CartItem `json:"items"`
	VoucherCode *string                 `json:"voucherCode"`
}

func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VoucherCode, validation.NilOrNotEmpty, validation.Length(1, 32)),
	)
}

// HasVoucher reports a non-blank voucher code.
func (r CheckoutRequest) HasVoucher() bool {
	return r.VoucherCode != nil && *r.VoucherCode != ""
}

// Preview is the pricing engine output plus what happened to the voucher.
type Preview struct {
	pricingModel.PricePreview
	VoucherCode    *string `json:"voucherCode"`
	VoucherApplied bool    `json:"voucherApplied"`
	// VoucherReason is the error code explaining why a supplied voucher was not applied.
	VoucherReason string `json:"voucherReason,omitempty"`
}
