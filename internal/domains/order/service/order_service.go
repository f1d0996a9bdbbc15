package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	campaignModel "pointhub-backend/internal/domains/campaign/model"
	"pointhub-backend/internal/domains/order/model"
	"pointhub-backend/internal/domains/order/repository"
	pricingModel "pointhub-backend/internal/domains/pricing/model"
	pricing "pointhub-backend/internal/domains/pricing/service"
	userModel "pointhub-backend/internal/domains/user/model"
	voucherModel "pointhub-backend/internal/domains/voucher/model"
	"pointhub-backend/internal/infrastructure/metrics"
	"pointhub-backend/internal/shared/apperr"
	"pointhub-backend/internal/shared/clock"
	"pointhub-backend/internal/shared/money"
	"pointhub-backend/pkg/database"
	"pointhub-backend/pkg/logger"
)

// =====================================================
// COLLABORATORS
// =====================================================

type CampaignProvider interface {
	GetActive(ctx context.Context) (*campaignModel.Campaign, error)
}

// VoucherApplier is the part of the voucher service checkout relies on.
type VoucherApplier interface {
	Resolve(ctx context.Context, code string, userID uuid.UUID, subtotal money.Rupiah) (*voucherModel.Resolution, error)
	Consume(ctx context.Context, tx pgx.Tx, code string, orderID uuid.UUID) (*voucherModel.Voucher, error)
}

// PointsLedger credits points. Implemented by the user repository.
type PointsLedger interface {
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*userModel.User, error)
	AdjustPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) (int64, error)
}

// PaymentScheduler triggers ConfirmPayment later, e.g. the asynq client.
type PaymentScheduler interface {
	EnqueueConfirmPayment(ctx context.Context, orderID string, delay time.Duration, source string) error
}

type ServiceInterface interface {
	PreviewPrice(ctx context.Context, session model.Session, req model.CheckoutRequest) (*model.Preview, error)
	Checkout(ctx context.Context, session model.Session, req model.CheckoutRequest) (*model.Order, error)
	ConfirmPayment(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	Cancel(ctx context.Context, session model.Session, orderID uuid.UUID) (*model.Order, error)
	Get(ctx context.Context, session model.Session, orderID uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter model.ListFilter) ([]*model.Order, int, error)
	Items(ctx context.Context, session model.Session, orderID uuid.UUID) ([]model.OrderItem, error)
	PaidSummary(ctx context.Context, userID uuid.UUID) (model.PaidSummary, error)
}

type Options struct {
	// AutoConfirmDelay, when positive, enqueues a simulated payment
	// confirmation after each web checkout.
	AutoConfirmDelay time.Duration
}

type orderService struct {
	tm        database.TxManager
	repo      repository.RepositoryInterface
	campaigns CampaignProvider
	vouchers  VoucherApplier
	ledger    PointsLedger
	payments  PaymentScheduler
	clock     clock.Clock
	opts      Options
}

func NewOrderService(
	tm database.TxManager,
	repo repository.RepositoryInterface,
	campaigns CampaignProvider,
	vouchers VoucherApplier,
	ledger PointsLedger,
	payments PaymentScheduler,
	clk clock.Clock,
	opts Options,
) ServiceInterface {
	return &orderService{
		tm:        tm,
		repo:      repo,
		campaigns: campaigns,
		vouchers:  vouchers,
		ledger:    ledger,
		payments:  payments,
		clock:     clk,
		opts:      opts,
	}
}

// =====================================================
// PRICING
// =====================================================

// PreviewPrice prices the cart exactly as Checkout would, without writing.
// An empty cart previews to all zeros.
func (s *orderService) PreviewPrice(ctx context.Context, session model.Session, req model.CheckoutRequest) (*model.Preview, error) {
	if err := pricingModel.ValidateCart(req.Items); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	preview, _, err := s.price(ctx, session.UserID, req)
	return preview, err
}

// price resolves the campaign and voucher and runs the pricing engine.
func (s *orderService) price(ctx context.Context, userID uuid.UUID, req model.CheckoutRequest) (*model.Preview, *voucherModel.Resolution, error) {
	campaign, err := s.campaigns.GetActive(ctx)
	if err != nil {
		return nil, nil, err
	}

	var resolution *voucherModel.Resolution
	if req.HasVoucher() {
		resolution, err = s.vouchers.Resolve(ctx, *req.VoucherCode, userID, pricing.Subtotal(req.Items))
		if err != nil {
			return nil, nil, err
		}
	}

	value := resolution.ValueRp()
	out := &model.Preview{PricePreview: pricing.PreviewPrice(req.Items, &value, *campaign)}
	if resolution != nil {
		code := resolution.Code
		out.VoucherCode = &code
		out.VoucherApplied = resolution.Applicable
		if e, ok := apperr.As(resolution.Reason); ok {
			out.VoucherReason = e.Code
		}
	}
	return out, resolution, nil
}

// =====================================================
// CHECKOUT
// =====================================================

// Checkout freezes the priced cart into a PENDING order. Order, items and
// voucher consumption commit together; losing the voucher race aborts the
// whole checkout.
func (s *orderService) Checkout(ctx context.Context, session model.Session, req model.CheckoutRequest) (order *model.Order, err error) {
	defer func() { metrics.ObserveCheckout(err) }()

	if session.UserID == uuid.Nil {
		return nil, model.ErrNoActiveUser
	}
	if len(req.Items) == 0 {
		return nil, model.ErrCartEmpty
	}
	if err := pricingModel.ValidateCart(req.Items); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	preview, resolution, err := s.price(ctx, session.UserID, req)
	if err != nil {
		return nil, err
	}

	order = s.newOrder(session, req.Items, preview)
	applied := resolution != nil && resolution.Applicable
	if applied {
		code := resolution.Code
		order.VoucherCode = &code
	}

	err = s.tm.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.Create(ctx, tx, order); err != nil {
			return err
		}
		if applied {
			if _, err := s.vouchers.Consume(ctx, tx, resolution.Code, order.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order checked out", map[string]interface{}{
		"order_id":      order.ID.String(),
		"order_number":  order.OrderNumber,
		"user_id":       order.UserID.String(),
		"total":         order.Total,
		"points_earned": order.PointsEarned,
		"voucher":       applied,
		"source":        order.Source,
	})

	if order.Source == model.SourceWeb && s.opts.AutoConfirmDelay > 0 && s.payments != nil {
		if err := s.payments.EnqueueConfirmPayment(ctx, order.ID.String(), s.opts.AutoConfirmDelay, "auto"); err != nil {
			// The order stays PENDING; confirmation can still arrive through mark-paid.
			logger.Error("failed to schedule payment confirmation", err)
		}
	}
	return order, nil
}

func (s *orderService) newOrder(session model.Session, items []pricingModel.CartItem, preview *model.Preview) *model.Order {
	now := s.clock.Now()
	id := uuid.New()

	order := &model.Order{
		ID:              id,
		OrderNumber:     model.NewOrderNumber(id, now),
		UserID:          session.UserID,
		Subtotal:        preview.Subtotal,
		VoucherDiscount: preview.VoucherDiscount,
		DiscountCapped:  preview.DiscountCapped,
		Total:           preview.Total,
		PointsEarned:    preview.PointsToEarn,
		Status:          model.StatusPending,
		Source:          model.SourceWeb,
		CreatedAt:       now,
		Items:           make([]model.OrderItem, len(items)),
	}
	if session.OperatorID != nil {
		order.Source = model.SourcePOS
		order.CreatedBy = session.OperatorID
	}

	for i, item := range items {
		order.Items[i] = model.OrderItem{
			ID:          uuid.New(),
			OrderID:     id,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal(),
		}
	}
	return order
}

// =====================================================
// STATE TRANSITIONS
// =====================================================

// ConfirmPayment moves a PENDING order to PAID and credits its points in the
// same transaction. The status update is conditional, so duplicate or
// concurrent confirmations credit exactly once; a replay returns the stored
// order unchanged.
func (s *orderService) ConfirmPayment(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	replayed := false

	order, err := database.WithTransactionResult(ctx, s.tm, func(tx pgx.Tx) (*model.Order, error) {
		paid, err := s.repo.MarkPaid(ctx, tx, orderID, s.clock.Now())
		if err != nil {
			return nil, err
		}

		if paid == nil {
			current, err := s.repo.GetByID(ctx, tx, orderID)
			if err != nil {
				return nil, err
			}
			switch current.Status {
			case model.StatusPaid:
				replayed = true
				return current, nil
			case model.StatusCancelled:
				return nil, model.ErrOrderNotPayable
			}
			return nil, apperr.Internal("ORDER_STATE", "order is pending but was not updated", nil)
		}

		if paid.PointsEarned > 0 {
			if _, err := s.ledger.LockForUpdate(ctx, tx, paid.UserID); err != nil {
				return nil, err
			}
			if _, err := s.ledger.AdjustPoints(ctx, tx, paid.UserID, paid.PointsEarned); err != nil {
				return nil, err
			}
		}
		return paid, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ObservePayment(replayed, order.PointsEarned)
	if !replayed {
		logger.Info("order paid", map[string]interface{}{
			"order_id":      order.ID.String(),
			"user_id":       order.UserID.String(),
			"points_earned": order.PointsEarned,
		})
	}
	return order, nil
}

// Cancel moves a PENDING order to CANCELLED. It has no voucher or points
// side effects; cancelling twice is a no-op.
func (s *orderService) Cancel(ctx context.Context, session model.Session, orderID uuid.UUID) (*model.Order, error) {
	current, err := s.Get(ctx, session, orderID)
	if err != nil {
		return nil, err
	}
	switch current.Status {
	case model.StatusCancelled:
		return current, nil
	case model.StatusPaid:
		return nil, model.ErrOrderNotCancellable
	}

	cancelled, err := s.repo.MarkCancelled(ctx, nil, orderID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if cancelled == nil {
		// lost a race with ConfirmPayment or another cancel
		latest, err := s.repo.GetByID(ctx, nil, orderID)
		if err != nil {
			return nil, err
		}
		if latest.Status == model.StatusCancelled {
			return latest, nil
		}
		return nil, model.ErrOrderNotCancellable
	}

	logger.Info("order cancelled", map[string]interface{}{
		"order_id": orderID.String(),
	})
	return cancelled, nil
}

// =====================================================
// QUERIES
// =====================================================

// Get hides other users' orders behind ErrOrderNotFound.
func (s *orderService) Get(ctx context.Context, session model.Session, orderID uuid.UUID) (*model.Order, error) {
	o, err := s.repo.GetByID(ctx, nil, orderID)
	if err != nil {
		return nil, err
	}
	if !session.CanAccess(o) {
		return nil, model.ErrOrderNotFound
	}
	return o, nil
}

func (s *orderService) List(ctx context.Context, filter model.ListFilter) ([]*model.Order, int, error) {
	for _, st := range filter.Statuses {
		if !st.IsValid() {
			return nil, 0, model.ErrInvalidStatus
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *orderService) Items(ctx context.Context, session model.Session, orderID uuid.UUID) ([]model.OrderItem, error) {
	if _, err := s.Get(ctx, session, orderID); err != nil {
		return nil, err
	}
	return s.repo.Items(ctx, orderID)
}

func (s *orderService) PaidSummary(ctx context.Context, userID uuid.UUID) (model.PaidSummary, error) {
	return s.repo.PaidSummary(ctx, userID)
}
