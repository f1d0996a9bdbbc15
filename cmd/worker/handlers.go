package main

import (
	"github.com/hibiken/asynq"

	orderJob "pointhub-backend/internal/domains/order/job"
	voucherJob "pointhub-backend/internal/domains/voucher/job"
	"pointhub-backend/internal/shared"
	"pointhub-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	confirmPayment *orderJob.ConfirmPaymentHandler
	sweepExpired   *voucherJob.SweepExpiredHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		confirmPayment: c.ConfirmPaymentJob,
		sweepExpired:   c.SweepExpiredJob,
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Orders
	mux.HandleFunc(shared.TypeConfirmPayment, h.confirmPayment.ProcessTask)

	// Vouchers
	mux.HandleFunc(shared.TypeSweepExpiredVoucher, h.sweepExpired.ProcessTask)
}
