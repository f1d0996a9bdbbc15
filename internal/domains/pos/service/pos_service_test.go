package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	orderModel "pointhub-backend/internal/domains/order/model"
	"pointhub-backend/internal/domains/pos/model"
	pricingModel "pointhub-backend/internal/domains/pricing/model"
	userModel "pointhub-backend/internal/domains/user/model"
)

type mockCustomers struct{ mock.Mock }

func (m *mockCustomers) FindOrCreateCustomer(ctx context.Context, email string) (*userModel.User, bool, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*userModel.User)
	return u, args.Bool(1), args.Error(2)
}

type mockOrders struct{ mock.Mock }

func (m *mockOrders) Checkout(ctx context.Context, session orderModel.Session, req orderModel.CheckoutRequest) (*orderModel.Order, error) {
	args := m.Called(ctx, session, req)
	o, _ := args.Get(0).(*orderModel.Order)
	return o, args.Error(1)
}

func (m *mockOrders) ConfirmPayment(ctx context.Context, orderID uuid.UUID) (*orderModel.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*orderModel.Order)
	return o, args.Error(1)
}

func saleRequest() model.SaleRequest {
	return model.SaleRequest{
		CustomerEmail: "  Walkin@Example.com ",
		Items: []pricingModel.CartItem{
			{ProductID: uuid.New(), ProductName: "Kopi Susu", Price: 25000, Quantity: 2},
		},
	}
}

func TestQuickSale_ChecksOutAsCustomerAndConfirms(t *testing.T) {
	ctx := context.Background()
	operator := uuid.New()
	customer := &userModel.User{ID: uuid.New(), Email: "walkin@example.com", Role: userModel.RoleUser, PointsBalance: 10}

	customers := &mockCustomers{}
	customers.On("FindOrCreateCustomer", ctx, "walkin@example.com").Return(customer, true, nil)

	pending := &orderModel.Order{ID: uuid.New(), UserID: customer.ID, Total: 50000, PointsEarned: 5,
		Status: orderModel.StatusPending, Source: orderModel.SourcePOS,
		Items: []orderModel.OrderItem{{ProductName: "Kopi Susu", Quantity: 2}}}
	paid := *pending
	paid.Status = orderModel.StatusPaid
	paid.Items = nil

	orders := &mockOrders{}
	orders.On("Checkout", ctx, mock.MatchedBy(func(s orderModel.Session) bool {
		return s.UserID == customer.ID && s.OperatorID != nil && *s.OperatorID == operator && !s.IsStaff()
	}), mock.Anything).Return(pending, nil)
	orders.On("ConfirmPayment", ctx, pending.ID).Return(&paid, nil)

	sale, err := NewPOSService(customers, orders).QuickSale(ctx, operator, saleRequest())
	require.NoError(t, err)

	assert.Equal(t, orderModel.StatusPaid, sale.Order.Status)
	assert.Len(t, sale.Order.Items, 1)
	assert.True(t, sale.CustomerCreated)
	assert.Equal(t, int64(15), sale.Customer.PointsBalance)
	assert.Equal(t, int64(10), customer.PointsBalance)
	customers.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestQuickSale_InvalidEmail(t *testing.T) {
	customers, orders := &mockCustomers{}, &mockOrders{}
	req := saleRequest()
	req.CustomerEmail = "not-an-email"

	_, err := NewPOSService(customers, orders).QuickSale(context.Background(), uuid.New(), req)
	require.Error(t, err)
	customers.AssertNotCalled(t, "FindOrCreateCustomer", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuickSale_CheckoutFailureSkipsConfirmation(t *testing.T) {
	ctx := context.Background()
	customer := &userModel.User{ID: uuid.New(), Email: "walkin@example.com"}

	customers := &mockCustomers{}
	customers.On("FindOrCreateCustomer", ctx, "walkin@example.com").Return(customer, false, nil)
	orders := &mockOrders{}
	orders.On("Checkout", ctx, mock.Anything, mock.Anything).Return(nil, orderModel.ErrCartEmpty)

	_, err := NewPOSService(customers, orders).QuickSale(ctx, uuid.New(), saleRequest())
	assert.ErrorIs(t, err, orderModel.ErrCartEmpty)
	orders.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
}

func TestQuickSale_ConfirmFailure(t *testing.T) {
	ctx := context.Background()
	customer := &userModel.User{ID: uuid.New(), Email: "walkin@example.com"}
	pending := &orderModel.Order{ID: uuid.New(), Status: orderModel.StatusPending}
	boom := fmt.Errorf("confirm payment: %w", assert.AnError)

	customers := &mockCustomers{}
	customers.On("FindOrCreateCustomer", ctx, "walkin@example.com").Return(customer, false, nil)
	orders := &mockOrders{}
	orders.On("Checkout", ctx, mock.Anything, mock.Anything).Return(pending, nil)
	orders.On("ConfirmPayment", ctx, pending.ID).Return(nil, boom)

	_, err := NewPOSService(customers, orders).QuickSale(ctx, uuid.New(), saleRequest())
	assert.ErrorIs(t, err, assert.AnError)
}
