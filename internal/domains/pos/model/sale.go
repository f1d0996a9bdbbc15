package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	orderModel "pointhub-backend/internal/domains/order/model"
	pricingModel "pointhub-backend/internal/domains/pricing/model"
	userModel "pointhub-backend/internal/domains/user/model"
)

// SaleRequest is an in-store purchase rung up by a terminal operator.
type SaleRequest struct {
	CustomerEmail string                  `json:"customerEmail"`
	Items         []pricingModel.CartItem `json:"items"`
	VoucherCode   *string                 `json:"voucherCode,omitempty"`
}

func (r *SaleRequest) Normalize() {
	r.CustomerEmail = strings.ToLower(strings.TrimSpace(r.CustomerEmail))
}

func (r SaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CustomerEmail, validation.Required, is.EmailFormat),
	)
}

func (r SaleRequest) Checkout() orderModel.CheckoutRequest {
	return orderModel.CheckoutRequest{Items: r.Items, VoucherCode: r.VoucherCode}
}

type Sale struct {
	Order           *orderModel.Order `json:"order"`
	Customer        *userModel.User   `json:"customer"`
	CustomerCreated bool              `json:"customerCreated"`
}
