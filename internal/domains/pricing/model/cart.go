package model

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"pointhub-backend/internal/shared/apperr"
	"pointhub-backend/internal/shared/money"
)

// Per-line and per-cart ceilings. Prices and quantities come from the client,
// so every product of them must stay well inside int64.
const (
	MaxItemPrice    money.Rupiah = 10_000_000_000
	MaxItemQuantity              = 10_000
	MaxCartSubtotal money.Rupiah = 100_000_000_000_000
)

var ErrCartTooLarge = apperr.Validation("CART_TOO_LARGE", "cart subtotal exceeds the allowed maximum")

// CartItem is a client-held line item. Name and price are snapshots taken
// when the product was added to the cart.
type CartItem struct {
	ProductID   uuid.UUID    `json:"productId"`
	ProductName string       `json:"productName"`
	Price       money.Rupiah `json:"price"`
	Quantity    int          `json:"quantity"`
}

func (i CartItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ProductID, validation.By(notNilUUID)),
		validation.Field(&i.ProductName, validation.Required),
		validation.Field(&i.Price, validation.Min(int64(0)), validation.Max(MaxItemPrice)),
		validation.Field(&i.Quantity, validation.Required, validation.Min(1), validation.Max(MaxItemQuantity)),
	)
}

// LineTotal is price * quantity.
func (i CartItem) LineTotal() money.Rupiah {
	return money.Sum(i.Price, i.Quantity)
}

// ValidateCart validates every line of the cart and bounds its subtotal.
func ValidateCart(items []CartItem) error {
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return validation.Errors{"items": validation.Errors{strconv.Itoa(idx): err}}
		}
	}
	_, err := CartSubtotal(items)
	return err
}

// CartSubtotal sums price * quantity, failing with ErrCartTooLarge on
// overflow or when the sum passes MaxCartSubtotal.
func CartSubtotal(items []CartItem) (money.Rupiah, error) {
	var subtotal money.Rupiah
	for _, item := range items {
		line, ok := money.CheckedSum(item.Price, item.Quantity)
		if !ok {
			return 0, ErrCartTooLarge
		}
		if subtotal, ok = money.CheckedAdd(subtotal, line); !ok || subtotal > MaxCartSubtotal {
			return 0, ErrCartTooLarge
		}
	}
	return subtotal, nil
}

// PricePreview is recomputed on every cart or voucher change and never stored.
type PricePreview struct {
	Subtotal        money.Rupiah `json:"subtotal"`
	VoucherDiscount money.Rupiah `json:"voucherDiscount"`
	Total           money.Rupiah `json:"total"`
	DiscountCapped  bool         `json:"discountCapped"`
	PointsToEarn    int64        `json:"pointsToEarn"`
}

func notNilUUID(value interface{}) error {
	if id, ok := value.(uuid.UUID); !ok || id == uuid.Nil {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}
