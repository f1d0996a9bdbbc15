package shared

// Background task types, shared by the API (enqueue) and the worker (handle).
const (
	TypeConfirmPayment      = "order:confirm_payment"
	TypeSweepExpiredVoucher = "voucher:sweep_expired"
)

// Queue names with their asynq priority weights.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ConfirmPaymentPayload is enqueued by checkout or a payment webhook.
type ConfirmPaymentPayload struct {
	OrderID string `json:"order_id"`
	Source  string `json:"source"`
}

// SweepExpiredPayload is the (empty) payload of the periodic expiry sweep.
type SweepExpiredPayload struct {
	BatchSize int `json:"batch_size,omitempty"`
}
