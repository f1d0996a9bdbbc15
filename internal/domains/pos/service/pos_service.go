package service

import (
	"context"

	"github.com/google/uuid"

	orderModel "pointhub-backend/internal/domains/order/model"
	"pointhub-backend/internal/domains/pos/model"
	userModel "pointhub-backend/internal/domains/user/model"
	"pointhub-backend/pkg/logger"
)

type CustomerDirectory interface {
	FindOrCreateCustomer(ctx context.Context, email string) (*userModel.User, bool, error)
}

type OrderPlacer interface {
	Checkout(ctx context.Context, session orderModel.Session, req orderModel.CheckoutRequest) (*orderModel.Order, error)
	ConfirmPayment(ctx context.Context, orderID uuid.UUID) (*orderModel.Order, error)
}

type ServiceInterface interface {
	QuickSale(ctx context.Context, operatorID uuid.UUID, req model.SaleRequest) (*model.Sale, error)
}

type posService struct {
	customers CustomerDirectory
	orders    OrderPlacer
}

func NewPOSService(customers CustomerDirectory, orders OrderPlacer) ServiceInterface {
	return &posService{customers: customers, orders: orders}
}

// QuickSale checks out the cart as the customer and confirms payment at once,
// since the customer pays at the counter. If confirmation fails the order is
// left PENDING and can be marked paid later.
func (s *posService) QuickSale(ctx context.Context, operatorID uuid.UUID, req model.SaleRequest) (*model.Sale, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, created, err := s.customers.FindOrCreateCustomer(ctx, req.CustomerEmail)
	if err != nil {
		return nil, err
	}

	session := orderModel.Session{
		UserID:     customer.ID,
		Role:       userModel.RoleUser,
		OperatorID: &operatorID,
	}
	order, err := s.orders.Checkout(ctx, session, req.Checkout())
	if err != nil {
		return nil, err
	}

	paid, err := s.orders.ConfirmPayment(ctx, order.ID)
	if err != nil {
		logger.Error("pos sale left pending", err)
		return nil, err
	}
	// Checkout's view carries the line items; ConfirmPayment returns the header row.
	if len(paid.Items) == 0 {
		paid.Items = order.Items
	}

	logger.Info("pos sale completed", map[string]interface{}{
		"order_id":         paid.ID.String(),
		"operator_id":      operatorID.String(),
		"customer_id":      customer.ID.String(),
		"customer_created": created,
		"total":            paid.Total,
	})

	// the balance shown at the counter includes the points just credited
	view := *customer
	view.PointsBalance += paid.PointsEarned
	return &model.Sale{Order: paid, Customer: &view, CustomerCreated: created}, nil
}
