package service

import (
	campaignModel "pointhub-backend/internal/domains/campaign/model"
	"pointhub-backend/internal/domains/pricing/model"
	"pointhub-backend/internal/shared/money"
)

// PreviewPrice computes the checkout totals for a cart. It is pure and is
// called with the same inputs for the preview and for the checkout snapshot,
// so the committed total always equals the previewed one.
//
// Business Logic:
//  1. subtotal = Σ price × quantity
//  2. voucher value > 0: maxDiscount = floor(subtotal × capPct / 100),
//     discount = min(value, maxDiscount), capped = discount < value
//  3. total = subtotal − discount
//  4. pointsToEarn = floor(total / accrualPer)
//
// accrualPer > 0 is a campaign invariant, not checked here.
func PreviewPrice(items []model.CartItem, voucherValueRp *money.Rupiah, campaign campaignModel.Campaign) model.PricePreview {
	subtotal := Subtotal(items)

	var discount money.Rupiah
	capped := false
	if voucherValueRp != nil && *voucherValueRp > 0 {
		discount, capped = VoucherDiscount(subtotal, *voucherValueRp, campaign.DiscountCapPct)
	}

	total := subtotal - discount

	return model.PricePreview{
		Subtotal:        subtotal,
		VoucherDiscount: discount,
		Total:           total,
		DiscountCapped:  capped,
		PointsToEarn:    PointsFor(total, campaign.AccrualPer),
	}
}

// Subtotal sums price × quantity over the cart. Callers pass carts that
// passed model.ValidateCart, which bounds the sum.
func Subtotal(items []model.CartItem) money.Rupiah {
	var subtotal money.Rupiah
	for _, item := range items {
		subtotal += item.LineTotal()
	}
	return subtotal
}

// VoucherDiscount caps the voucher value at capPct percent of the subtotal.
func VoucherDiscount(subtotal, valueRp money.Rupiah, capPct int) (money.Rupiah, bool) {
	if valueRp <= 0 {
		return 0, false
	}
	maxDiscount := money.PercentFloor(subtotal, capPct)
	discount := money.Min(valueRp, maxDiscount)
	return discount, discount < valueRp
}

// PointsFor returns floor(total / accrualPer), 0 for a non-positive rate.
func PointsFor(total money.Rupiah, accrualPer int64) int64 {
	if accrualPer <= 0 || total <= 0 {
		return 0
	}
	return money.FloorDiv(total, accrualPer)
}
