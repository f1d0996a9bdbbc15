package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	campaignModel "pointhub-backend/internal/domains/campaign/model"
	userModel "pointhub-backend/internal/domains/user/model"
	"pointhub-backend/internal/domains/voucher/model"
	"pointhub-backend/internal/domains/voucher/repository"
	"pointhub-backend/internal/infrastructure/metrics"
	"pointhub-backend/internal/shared/clock"
	"pointhub-backend/internal/shared/money"
	"pointhub-backend/pkg/database"
	"pointhub-backend/pkg/logger"
)

// CampaignProvider is the read side of the campaign service.
type CampaignProvider interface {
	GetActive(ctx context.Context) (*campaignModel.Campaign, error)
}

// PointsLedger reads and mutates user balances. Implemented by the user repository.
type PointsLedger interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userModel.User, error)
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*userModel.User, error)
	AdjustPoints(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) (int64, error)
}

type ServiceInterface interface {
	Issue(ctx context.Context, userID uuid.UUID, valueRp money.Rupiah) (*model.Voucher, error)
	Redeem(ctx context.Context, userID uuid.UUID, pointsCost int64) (*model.RedeemResult, error)
	Validate(ctx context.Context, code string) (*model.Voucher, error)
	Resolve(ctx context.Context, code string, userID uuid.UUID, subtotal money.Rupiah) (*model.Resolution, error)
	Consume(ctx context.Context, tx pgx.Tx, code string, orderID uuid.UUID) (*model.Voucher, error)
	List(ctx context.Context, filter model.ListFilter) ([]*model.Voucher, error)
	SweepExpired(ctx context.Context, batchSize int) (int64, error)
	Tiers() []model.Tier
}

type Options struct {
	// RequireActiveCampaign refuses issuance and redemption while the campaign is off.
	RequireActiveCampaign bool
	// CodeAttempts bounds code generation retries on collision.
	CodeAttempts int
}

type voucherService struct {
	tm        database.TxManager
	repo      repository.RepositoryInterface
	campaigns CampaignProvider
	ledger    PointsLedger
	clock     clock.Clock
	codes     CodeGenerator
	opts      Options
}

func NewVoucherService(
	tm database.TxManager,
	repo repository.RepositoryInterface,
	campaigns CampaignProvider,
	ledger PointsLedger,
	clk clock.Clock,
	codes CodeGenerator,
	opts Options,
) ServiceInterface {
	if opts.CodeAttempts <= 0 {
		opts.CodeAttempts = 5
	}
	if codes == nil {
		codes = NewRandomCodeGenerator()
	}
	return &voucherService{
		tm:        tm,
		repo:      repo,
		campaigns: campaigns,
		ledger:    ledger,
		clock:     clk,
		codes:     codes,
		opts:      opts,
	}
}

// ============================================================================
// ISSUANCE
// ============================================================================

// Issue grants a voucher without spending points (admin/manual issuance).
func (s *voucherService) Issue(ctx context.Context, userID uuid.UUID, valueRp money.Rupiah) (*model.Voucher, error) {
	if valueRp <= 0 {
		return nil, model.ErrInvalidValue
	}
	campaign, err := s.issuingCampaign(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.ledger.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	v, err := s.issue(ctx, nil, userID, valueRp, campaign)
	if err != nil {
		return nil, err
	}

	logger.Info("voucher issued", map[string]interface{}{
		"voucher_code": v.Code,
		"user_id":      userID.String(),
		"value_rp":     valueRp,
	})
	return v, nil
}

// Redeem exchanges pointsCost points for a voucher of the matching tier.
// The deduction and the insert share one transaction with the user row locked,
// so concurrent redemptions cannot overspend a balance.
func (s *voucherService) Redeem(ctx context.Context, userID uuid.UUID, pointsCost int64) (*model.RedeemResult, error) {
	tier, ok := model.FindTier(pointsCost)
	if !ok {
		return nil, model.ErrInvalidTier
	}
	campaign, err := s.issuingCampaign(ctx)
	if err != nil {
		return nil, err
	}

	result, err := database.WithTransactionResult(ctx, s.tm, func(tx pgx.Tx) (*model.RedeemResult, error) {
		user, err := s.ledger.LockForUpdate(ctx, tx, userID)
		if err != nil {
			return nil, err
		}
		if user.PointsBalance < tier.PointsCost {
			return nil, model.ErrInsufficientPoints
		}

		balance, err := s.ledger.AdjustPoints(ctx, tx, userID, -tier.PointsCost)
		if err != nil {
			return nil, err
		}

		v, err := s.issue(ctx, tx, userID, tier.ValueRp, campaign)
		if err != nil {
			return nil, err
		}
		return &model.RedeemResult{Voucher: v, PointsSpent: tier.PointsCost, PointsBalance: balance}, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.VouchersRedeemedTotal.WithLabelValues(strconv.FormatInt(tier.PointsCost, 10)).Inc()
	logger.Info("voucher redeemed", map[string]interface{}{
		"voucher_code":   result.Voucher.Code,
		"user_id":        userID.String(),
		"points_cost":    tier.PointsCost,
		"points_balance": result.PointsBalance,
	})
	return result, nil
}

func (s *voucherService) issuingCampaign(ctx context.Context) (*campaignModel.Campaign, error) {
	campaign, err := s.campaigns.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if s.opts.RequireActiveCampaign && !campaign.IsActive {
		return nil, campaignModel.ErrCampaignInactive
	}
	return campaign, nil
}

// issue inserts a fresh ACTIVE voucher, regenerating the code on collision.
func (s *voucherService) issue(ctx context.Context, tx pgx.Tx, userID uuid.UUID, valueRp money.Rupiah, campaign *campaignModel.Campaign) (*model.Voucher, error) {
	now := s.clock.Now()

	for attempt := 1; attempt <= s.opts.CodeAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate voucher code: %w", err)
		}

		v := &model.Voucher{
			ID:         uuid.New(),
			Code:       code,
			UserID:     userID,
			ValueRp:    valueRp,
			MinSpendRp: model.MinSpendFor(valueRp),
			Status:     model.StatusActive,
			CreatedAt:  now,
			ExpiresAt:  model.ExpiresAt(now, campaign.ExpiryDays),
		}

		err = s.repo.Insert(ctx, tx, v)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, model.ErrCodeCollision) {
			return nil, err
		}
		logger.Warn("voucher code collision", map[string]interface{}{
			"attempt": attempt,
		})
	}
	return nil, model.ErrCodeGenerationExhausted
}

// ============================================================================
// LOOKUP & APPLICATION
// ============================================================================

// Validate returns the voucher with its status derived at the current time.
// It never writes.
func (s *voucherService) Validate(ctx context.Context, code string) (*model.Voucher, error) {
	v, err := s.repo.GetByCode(ctx, nil, model.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	return v.AsOf(s.clock.Now()), nil
}

// ApplicableForCheckout reports why v cannot discount a cart of subtotal, or nil.
// A zero userID skips the ownership check.
func ApplicableForCheckout(v *model.Voucher, userID uuid.UUID, subtotal money.Rupiah, now time.Time) error {
	switch v.EffectiveStatus(now) {
	case model.StatusUsed:
		return model.ErrVoucherUsed
	case model.StatusExpired:
		return model.ErrVoucherExpired
	}
	if userID != uuid.Nil && v.UserID != userID {
		return model.ErrVoucherNotOwned
	}
	if subtotal < v.MinSpendRp {
		return model.ErrMinSpendNotMet
	}
	return nil
}

// Resolve looks up code and decides whether it applies to the cart.
// An unknown or inapplicable voucher is not an error; the reason is reported
// on the resolution and the caller prices the cart without a discount.
func (s *voucherService) Resolve(ctx context.Context, code string, userID uuid.UUID, subtotal money.Rupiah) (*model.Resolution, error) {
	code = model.NormalizeCode(code)
	v, err := s.repo.GetByCode(ctx, nil, code)
	if errors.Is(err, model.ErrVoucherNotFound) {
		return &model.Resolution{Code: code, Reason: model.ErrVoucherNotFound}, nil
	}
	if err != nil {
		return nil, err
	}

	v = v.AsOf(s.clock.Now())
	reason := ApplicableForCheckout(v, userID, subtotal, s.clock.Now())
	return &model.Resolution{
		Code:       code,
		Voucher:    v,
		Applicable: reason == nil,
		Reason:     reason,
	}, nil
}

// Consume marks the voucher USED for orderID. It is a compare-and-swap on
// ACTIVE and unexpired; a lost swap is classified by re-reading the row.
func (s *voucherService) Consume(ctx context.Context, tx pgx.Tx, code string, orderID uuid.UUID) (*model.Voucher, error) {
	now := s.clock.Now()
	code = model.NormalizeCode(code)

	v, err := s.repo.Consume(ctx, tx, code, orderID, now)
	if err != nil {
		return nil, err
	}
	if v != nil {
		metrics.VouchersConsumedTotal.Inc()
		return v, nil
	}

	current, err := s.repo.GetByCode(ctx, tx, code)
	if err != nil {
		return nil, err
	}
	if current.EffectiveStatus(now) == model.StatusExpired {
		return nil, model.ErrVoucherExpired
	}
	return nil, model.ErrVoucherAlreadyUsed
}

func (s *voucherService) List(ctx context.Context, filter model.ListFilter) ([]*model.Voucher, error) {
	for _, st := range filter.Statuses {
		if !st.IsValid() {
			return nil, model.ErrInvalidStatus
		}
	}

	now := s.clock.Now()
	vouchers, err := s.repo.List(ctx, filter, now)
	if err != nil {
		return nil, err
	}
	for i, v := range vouchers {
		vouchers[i] = v.AsOf(now)
	}
	return vouchers, nil
}

// SweepExpired persists EXPIRED for ACTIVE vouchers past expiry, batchSize rows
// at a time. Reads derive the status themselves; this only keeps stored data tidy.
func (s *voucherService) SweepExpired(ctx context.Context, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	now := s.clock.Now()

	var total int64
	for {
		n, err := s.repo.MarkExpired(ctx, now, batchSize)
		if err != nil {
			return total, err
		}
		total += n
		if n < int64(batchSize) {
			break
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
	}

	if total > 0 {
		metrics.VouchersSweptTotal.Add(float64(total))
	}
	return total, nil
}

func (s *voucherService) Tiers() []model.Tier {
	return model.Tiers
}
