package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pointhub-backend/internal/domains/order/model"
	"pointhub-backend/internal/domains/order/service"
	"pointhub-backend/internal/shared/middleware"
	"pointhub-backend/internal/shared/response"
)

type mockService struct {
	mock.Mock
	service.ServiceInterface
}

func (m *mockService) Checkout(_ context.Context, s model.Session, req model.CheckoutRequest) (*model.Order, error) {
	args := m.Called(s, req)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockService) ConfirmPayment(_ context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(id)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockService) List(_ context.Context, f model.ListFilter) ([]*model.Order, int, error) {
	args := m.Called(f)
	return args.Get(0).([]*model.Order), args.Int(1), args.Error(2)
}

func newRouter(h *OrderHandler, userID uuid.UUID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, role)
		c.Next()
	})
	r.POST("/orders/checkout", h.Checkout)
	r.POST("/orders/:id/mark-paid", h.MarkPaid)
	r.GET("/orders", h.List)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCheckoutEndpoint(t *testing.T) {
	svc := new(mockService)
	userID := uuid.New()
	orderID := uuid.New()
	svc.On("Checkout", model.Session{UserID: userID, Role: "user"}, mock.AnythingOfType("model.CheckoutRequest")).
		Return(&model.Order{ID: orderID, Status: model.StatusPending}, nil)

	body := `{"items":[{"productId":"` + uuid.NewString() + `","productName":"Kopi","price":25000,"quantity":2}],"voucherCode":"VCH-ABCDEFGH"}`
	w := httptest.NewRecorder()
	newRouter(NewOrderHandler(svc), userID, "user").
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders/checkout", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/v1/orders/"+orderID.String(), w.Header().Get("Location"))

	req := svc.Calls[0].Arguments.Get(1).(model.CheckoutRequest)
	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(25000), req.Items[0].Price)
	assert.Equal(t, "VCH-ABCDEFGH", *req.VoucherCode)
}

func TestMarkPaidEndpoint_MapsErrors(t *testing.T) {
	svc := new(mockService)
	cancelled := uuid.New()
	missing := uuid.New()
	svc.On("ConfirmPayment", cancelled).Return(nil, model.ErrOrderNotPayable)
	svc.On("ConfirmPayment", missing).Return(nil, model.ErrOrderNotFound)
	router := newRouter(NewOrderHandler(svc), uuid.New(), "admin")

	cases := []struct {
		path   string
		status int
		code   string
	}{
		{"/orders/" + cancelled.String() + "/mark-paid", http.StatusConflict, "ORDER_NOT_PAYABLE"},
		{"/orders/" + missing.String() + "/mark-paid", http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"/orders/nope/mark-paid", http.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tc.path, nil))

		assert.Equal(t, tc.status, w.Code, tc.path)
		resp := decode(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, tc.code, resp.Error.Code)
	}
}

func TestListEndpoint_MembersOnlySeeTheirOwn(t *testing.T) {
	svc := new(mockService)
	userID := uuid.New()
	other := uuid.New()
	svc.On("List", mock.MatchedBy(func(f model.ListFilter) bool {
		return f.UserID != nil && *f.UserID == userID &&
			len(f.Statuses) == 1 && f.Statuses[0] == model.StatusPaid
	})).Return([]*model.Order{}, 0, nil)

	w := httptest.NewRecorder()
	newRouter(NewOrderHandler(svc), userID, "user").
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders?status=paid&userId="+other.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
