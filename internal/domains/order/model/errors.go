package model

import "pointhub-backend/internal/shared/apperr"

var (
	ErrOrderNotFound = apperr.NotFound("ORDER_NOT_FOUND", "order not found")

	ErrNoActiveUser  = apperr.Validation("NO_ACTIVE_USER", "checkout requires a signed-in user")
	ErrCartEmpty     = apperr.Validation("CART_EMPTY", "cart is empty")
	ErrInvalidStatus = apperr.Validation("INVALID_ORDER_STATUS", "unknown order status")

	// ErrOrderNotPayable is returned when confirming a CANCELLED order.
	ErrOrderNotPayable = apperr.Conflict("ORDER_NOT_PAYABLE", "order cannot be paid")
	// ErrOrderNotCancellable is returned when cancelling a PAID order.
	ErrOrderNotCancellable = apperr.Conflict("ORDER_NOT_CANCELLABLE", "order cannot be cancelled")
)
