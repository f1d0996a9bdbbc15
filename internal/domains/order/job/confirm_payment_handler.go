package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"pointhub-backend/internal/domains/order/model"
	"pointhub-backend/internal/domains/order/service"
	"pointhub-backend/internal/shared"
	"pointhub-backend/internal/shared/utils"
	"pointhub-backend/pkg/logger"
)

// ConfirmPaymentHandler applies a delivered payment confirmation.
// ConfirmPayment is idempotent, so asynq redeliveries are harmless.
type ConfirmPaymentHandler struct {
	orderService service.ServiceInterface
}

func NewConfirmPaymentHandler(orderService service.ServiceInterface) *ConfirmPaymentHandler {
	return &ConfirmPaymentHandler{orderService: orderService}
}

func (h *ConfirmPaymentHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ConfirmPaymentPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return err
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", payload.OrderID, asynq.SkipRetry)
	}

	order, err := h.orderService.ConfirmPayment(ctx, orderID)
	switch {
	case errors.Is(err, model.ErrOrderNotFound), errors.Is(err, model.ErrOrderNotPayable):
		logger.Warn("payment confirmation dropped", map[string]interface{}{
			"order_id": payload.OrderID,
			"source":   payload.Source,
			"error":    err.Error(),
		})
		return fmt.Errorf("confirm payment: %w: %w", err, asynq.SkipRetry)
	case err != nil:
		return fmt.Errorf("confirm payment: %w", err)
	}

	logger.Info("payment confirmed", map[string]interface{}{
		"order_id":      order.ID.String(),
		"source":        payload.Source,
		"points_earned": order.PointsEarned,
	})
	return nil
}
