package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	userModel "pointhub-backend/internal/domains/user/model"
	"pointhub-backend/internal/shared/money"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Source records which surface created the order.
const (
	SourceWeb = "web"
	SourcePOS = "pos"
)

// Order is a checkout snapshot. Every money field is frozen at checkout and
// never recomputed, even if the campaign changes before payment.
type Order struct {
	ID              uuid.UUID    `json:"id"`
	OrderNumber     string       `json:"orderNumber"`
	UserID          uuid.UUID    `json:"userId"`
	Subtotal        money.Rupiah `json:"subtotal"`
	VoucherCode     *string      `json:"voucherCode"`
	VoucherDiscount money.Rupiah `json:"voucherDiscount"`
	DiscountCapped  bool         `json:"discountCapped"`
	Total           money.Rupiah `json:"total"`
	PointsEarned    int64        `json:"pointsEarned"`
	Status          Status       `json:"status"`
	Source          string       `json:"source"`
	CreatedBy       *uuid.UUID   `json:"createdBy,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	PaidAt          *time.Time   `json:"paidAt"`
	CancelledAt     *time.Time   `json:"cancelledAt,omitempty"`

	Items []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID          uuid.UUID    `json:"id"`
	OrderID     uuid.UUID    `json:"orderId"`
	ProductID   uuid.UUID    `json:"productId"`
	ProductName string       `json:"productName"`
	Price       money.Rupiah `json:"price"`
	Quantity    int          `json:"quantity"`
	LineTotal   money.Rupiah `json:"lineTotal"`
}

// NewOrderNumber formats ORD-YYYYMMDD-XXXXXXXX from the creation date and id.
func NewOrderNumber(id uuid.UUID, createdAt time.Time) string {
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return "ORD-" + createdAt.Format("20060102") + "-" + hex[:8]
}

// Session identifies the caller of an order operation. A zero UserID means
// nobody is signed in.
type Session struct {
	UserID uuid.UUID
	Role   string
	// OperatorID is set when staff act on behalf of the customer (POS).
	OperatorID *uuid.UUID
}

// IsStaff reports whether the caller may see and act on any order.
func (s Session) IsStaff() bool {
	return s.Role == userModel.RoleAdmin || s.Role == userModel.RolePOS
}

// CanAccess reports whether the session may read or act on o.
func (s Session) CanAccess(o *Order) bool {
	return s.IsStaff() || (s.UserID != uuid.Nil && s.UserID == o.UserID)
}

type ListFilter struct {
	UserID   *uuid.UUID
	Statuses []Status
	Limit    int
	Offset   int
}

// PaidSummary aggregates a user's PAID orders.
type PaidSummary struct {
	TotalOrders   int          `json:"totalOrders"`
	LifetimeSpent money.Rupiah `json:"lifetimeSpent"`
}
