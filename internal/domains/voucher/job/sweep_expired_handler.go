package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"pointhub-backend/internal/domains/voucher/service"
	"pointhub-backend/internal/shared"
	"pointhub-backend/internal/shared/utils"
	"pointhub-backend/pkg/logger"
)

type SweepExpiredHandler struct {
	service          service.ServiceInterface
	defaultBatchSize int
}

func NewSweepExpiredHandler(s service.ServiceInterface, defaultBatchSize int) *SweepExpiredHandler {
	return &SweepExpiredHandler{service: s, defaultBatchSize: defaultBatchSize}
}

func (h *SweepExpiredHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.SweepExpiredPayload
	if len(t.Payload()) > 0 {
		if err := utils.UnmarshalTask(t, &payload); err != nil {
			return err
		}
	}

	batch := payload.BatchSize
	if batch <= 0 {
		batch = h.defaultBatchSize
	}

	n, err := h.service.SweepExpired(ctx, batch)
	if err != nil {
		return fmt.Errorf("sweep expired vouchers: %w", err)
	}

	logger.Info("expired vouchers swept", map[string]interface{}{
		"count":      n,
		"batch_size": batch,
	})
	return nil
}
