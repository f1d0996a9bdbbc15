package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"pointhub-backend/internal/shared"
	"pointhub-backend/internal/shared/utils"
	"pointhub-backend/pkg/logger"
)

// Client wraps asynq.Client with typed enqueue helpers.
type Client struct {
	client *asynq.Client
}

func NewClient(redisOpt asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpt)}
}

// EnqueueConfirmPayment schedules payment confirmation for an order after delay.
// The task id is derived from the order so duplicate enqueues collapse into one.
func (c *Client) EnqueueConfirmPayment(ctx context.Context, orderID string, delay time.Duration, source string) error {
	task, err := utils.NewTask(shared.TypeConfirmPayment, shared.ConfirmPaymentPayload{
		OrderID: orderID,
		Source:  source,
	})
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueCritical),
		asynq.ProcessIn(delay),
		asynq.MaxRetry(10),
		asynq.TaskID("confirm-payment:"+orderID),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue %s: %w", shared.TypeConfirmPayment, err)
	}

	logger.Info("payment confirmation enqueued", map[string]interface{}{
		"order_id": orderID,
		"task_id":  info.ID,
		"delay":    delay.String(),
		"source":   source,
	})
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
