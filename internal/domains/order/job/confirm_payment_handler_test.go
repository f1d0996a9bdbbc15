package job

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pointhub-backend/internal/domains/order/model"
	"pointhub-backend/internal/domains/order/service"
	"pointhub-backend/internal/shared"
	"pointhub-backend/internal/shared/utils"
)

type mockOrderService struct {
	mock.Mock
	service.ServiceInterface
}

func (m *mockOrderService) ConfirmPayment(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	args := m.Called(orderID)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func confirmTask(t *testing.T, orderID string) *asynq.Task {
	t.Helper()
	task, err := utils.NewTask(shared.TypeConfirmPayment, shared.ConfirmPaymentPayload{OrderID: orderID, Source: "auto"})
	require.NoError(t, err)
	return task
}

func TestConfirmPaymentHandler_Confirms(t *testing.T) {
	svc := new(mockOrderService)
	id := uuid.New()
	svc.On("ConfirmPayment", id).Return(&model.Order{ID: id, Status: model.StatusPaid, PointsEarned: 5}, nil).Once()

	err := NewConfirmPaymentHandler(svc).ProcessTask(context.Background(), confirmTask(t, id.String()))
	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestConfirmPaymentHandler_TerminalFailuresSkipRetry(t *testing.T) {
	for _, e := range []error{model.ErrOrderNotFound, model.ErrOrderNotPayable} {
		svc := new(mockOrderService)
		id := uuid.New()
		svc.On("ConfirmPayment", id).Return(nil, e).Once()

		err := NewConfirmPaymentHandler(svc).ProcessTask(context.Background(), confirmTask(t, id.String()))
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.ErrorIs(t, err, e)
	}
}

func TestConfirmPaymentHandler_BadOrderID(t *testing.T) {
	svc := new(mockOrderService)

	err := NewConfirmPaymentHandler(svc).ProcessTask(context.Background(), confirmTask(t, "not-a-uuid"))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	svc.AssertNotCalled(t, "ConfirmPayment", mock.Anything)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestConfirmPaymentHandler_LogMessages(t *testing.T) {
	buf := captureLogs(t)

	svc := new(mockOrderService)
	paid := uuid.New()
	gone := uuid.New()
	svc.On("ConfirmPayment", paid).Return(&model.Order{ID: paid, Status: model.StatusPaid}, nil).Once()
	svc.On("ConfirmPayment", gone).Return(nil, model.ErrOrderNotFound).Once()

	h := NewConfirmPaymentHandler(svc)
	require.NoError(t, h.ProcessTask(context.Background(), confirmTask(t, paid.String())))
	require.Error(t, h.ProcessTask(context.Background(), confirmTask(t, gone.String())))

	assert.Contains(t, buf.String(), `"message":"payment confirmed"`)
	assert.Contains(t, buf.String(), `"message":"payment confirmation dropped"`)
}
