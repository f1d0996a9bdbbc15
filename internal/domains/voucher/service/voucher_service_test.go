package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	campaignModel "pointhub-backend/internal/domains/campaign/model"
	userModel "pointhub-backend/internal/domains/user/model"
	userRepository "pointhub-backend/internal/domains/user/repository"
	"pointhub-backend/internal/domains/voucher/model"
	"pointhub-backend/internal/domains/voucher/repository"
	"pointhub-backend/internal/shared/clock"
	"pointhub-backend/pkg/database"
)

type inlineTx struct{}

func (inlineTx) WithTx(_ context.Context, fn database.TxFunc) error {
	return fn(nil)
}

type stubCampaigns struct {
	campaign campaignModel.Campaign
}

func (s *stubCampaigns) GetActive(context.Context) (*campaignModel.Campaign, error) {
	c := s.campaign
	return &c, nil
}

type sequenceCodes struct {
	mu    sync.Mutex
	codes []string
}

func (g *sequenceCodes) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.codes) == 0 {
		return "", errors.New("no more codes")
	}
	code := g.codes[0]
	g.codes = g.codes[1:]
	return code, nil
}

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc       ServiceInterface
	vouchers  *repository.MemoryRepository
	users     *userRepository.MemoryRepository
	campaigns *stubCampaigns
	clock     *clock.Fixed
	user      *userModel.User
}

func newFixture(t *testing.T, balance int64, codes CodeGenerator) *fixture {
	t.Helper()
	user := &userModel.User{
		ID:            uuid.New(),
		Email:         "member@example.com",
		Role:          userModel.RoleUser,
		PointsBalance: balance,
	}
	f := &fixture{
		vouchers: repository.NewMemoryRepository(),
		users:    userRepository.NewMemoryRepository(user),
		campaigns: &stubCampaigns{campaign: campaignModel.Campaign{
			ID:             uuid.New(),
			AccrualPer:     10000,
			RedeemValue:    500,
			DiscountCapPct: 50,
			ExpiryDays:     90,
			IsActive:       true,
		}},
		clock: clock.NewFixed(testNow),
		user:  user,
	}
	f.svc = NewVoucherService(inlineTx{}, f.vouchers, f.campaigns, f.users, f.clock, codes,
		Options{RequireActiveCampaign: true, CodeAttempts: 3})
	return f
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	u, err := f.users.GetByID(context.Background(), f.user.ID)
	require.NoError(t, err)
	return u.PointsBalance
}

func TestRedeem_DeductsPointsAndIssuesTierVoucher(t *testing.T) {
	f := newFixture(t, 150, nil)

	res, err := f.svc.Redeem(context.Background(), f.user.ID, 100)
	require.NoError(t, err)

	assert.Equal(t, int64(50), res.PointsBalance)
	assert.Equal(t, int64(50), f.balance(t))
	assert.Equal(t, int64(100), res.PointsSpent)

	v := res.Voucher
	assert.Equal(t, f.user.ID, v.UserID)
	assert.Equal(t, int64(50000), v.ValueRp)
	assert.Equal(t, int64(100000), v.MinSpendRp)
	assert.Equal(t, model.StatusActive, v.Status)
	assert.Equal(t, testNow.AddDate(0, 0, 90), v.ExpiresAt)
	assert.True(t, model.IsWellFormedCode(v.Code), v.Code)
}

func TestRedeem_SucceedsIffBalanceCoversTier(t *testing.T) {
	for _, tier := range model.Tiers {
		for _, balance := range []int64{0, tier.PointsCost - 1, tier.PointsCost, tier.PointsCost + 37} {
			t.Run(fmt.Sprintf("cost=%d/balance=%d", tier.PointsCost, balance), func(t *testing.T) {
				f := newFixture(t, balance, nil)

				_, err := f.svc.Redeem(context.Background(), f.user.ID, tier.PointsCost)
				if balance >= tier.PointsCost {
					require.NoError(t, err)
					assert.Equal(t, balance-tier.PointsCost, f.balance(t))
					return
				}
				assert.ErrorIs(t, err, model.ErrInsufficientPoints)
				assert.Equal(t, balance, f.balance(t))
			})
		}
	}
}

func TestRedeem_RejectsUnknownTier(t *testing.T) {
	f := newFixture(t, 1000, nil)

	_, err := f.svc.Redeem(context.Background(), f.user.ID, 150)
	assert.ErrorIs(t, err, model.ErrInvalidTier)
	assert.Equal(t, int64(1000), f.balance(t))
}

func TestRedeem_UnknownUser(t *testing.T) {
	f := newFixture(t, 1000, nil)

	_, err := f.svc.Redeem(context.Background(), uuid.New(), 100)
	assert.ErrorIs(t, err, userModel.ErrUserNotFound)
}

func TestRedeem_InactiveCampaign(t *testing.T) {
	f := newFixture(t, 1000, nil)
	f.campaigns.campaign.IsActive = false

	_, err := f.svc.Redeem(context.Background(), f.user.ID, 100)
	assert.ErrorIs(t, err, campaignModel.ErrCampaignInactive)
	assert.Equal(t, int64(1000), f.balance(t))
}

func TestIssue_RetriesOnCodeCollision(t *testing.T) {
	codes := &sequenceCodes{codes: []string{"VCH-AAAAAAAA", "VCH-AAAAAAAA", "VCH-BBBBBBBB"}}
	f := newFixture(t, 0, codes)
	ctx := context.Background()

	first, err := f.svc.Issue(ctx, f.user.ID, 50000)
	require.NoError(t, err)
	assert.Equal(t, "VCH-AAAAAAAA", first.Code)

	second, err := f.svc.Issue(ctx, f.user.ID, 50000)
	require.NoError(t, err)
	assert.Equal(t, "VCH-BBBBBBBB", second.Code)
}

func TestIssue_GivesUpAfterBoundedAttempts(t *testing.T) {
	gen := CodeGeneratorFunc(func() (string, error) { return "VCH-SAMECODE", nil })
	f := newFixture(t, 0, gen)
	ctx := context.Background()

	_, err := f.svc.Issue(ctx, f.user.ID, 50000)
	require.NoError(t, err)

	_, err = f.svc.Issue(ctx, f.user.ID, 50000)
	assert.ErrorIs(t, err, model.ErrCodeGenerationExhausted)
}

func TestIssue_MinSpendFloor(t *testing.T) {
	f := newFixture(t, 0, nil)

	v, err := f.svc.Issue(context.Background(), f.user.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, model.MinSpendFloor, v.MinSpendRp)

	_, err = f.svc.Issue(context.Background(), f.user.ID, 0)
	assert.ErrorIs(t, err, model.ErrInvalidValue)
}

func TestIssue_AllowedWhenCampaignCheckDisabled(t *testing.T) {
	f := newFixture(t, 0, nil)
	f.campaigns.campaign.IsActive = false
	f.svc = NewVoucherService(inlineTx{}, f.vouchers, f.campaigns, f.users, f.clock, nil, Options{})

	_, err := f.svc.Issue(context.Background(), f.user.ID, 50000)
	assert.NoError(t, err)
}

func TestValidate_DerivesExpiryWithoutWriting(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	v, err := f.svc.Issue(ctx, f.user.ID, 50000)
	require.NoError(t, err)

	f.clock.Set(v.ExpiresAt)
	got, err := f.svc.Validate(ctx, v.Code)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status, "still valid at the expiry instant")

	f.clock.Advance(time.Second)
	got, err = f.svc.Validate(ctx, " "+strings.ToLower(v.Code)+" ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, got.Status)

	stored, err := f.vouchers.GetByCode(ctx, nil, v.Code)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, stored.Status)

	_, err = f.svc.Validate(ctx, "VCH-MISSING1")
	assert.ErrorIs(t, err, model.ErrVoucherNotFound)
}

func TestResolve_ReportsReasons(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	v, err := f.svc.Issue(ctx, f.user.ID, 50000)
	require.NoError(t, err)

	res, err := f.svc.Resolve(ctx, v.Code, f.user.ID, 100000)
	require.NoError(t, err)
	assert.True(t, res.Applicable)
	assert.Equal(t, int64(50000), res.ValueRp())

	res, err = f.svc.Resolve(ctx, v.Code, f.user.ID, 99999)
	require.NoError(t, err)
	assert.False(t, res.Applicable)
	assert.ErrorIs(t, res.Reason, model.ErrMinSpendNotMet)
	assert.Zero(t, res.ValueRp())

	res, err = f.svc.Resolve(ctx, v.Code, uuid.New(), 100000)
	require.NoError(t, err)
	assert.ErrorIs(t, res.Reason, model.ErrVoucherNotOwned)

	res, err = f.svc.Resolve(ctx, "vch-nothere", f.user.ID, 100000)
	require.NoError(t, err)
	assert.ErrorIs(t, res.Reason, model.ErrVoucherNotFound)
	assert.Equal(t, "VCH-NOTHERE", res.Code)

	f.clock.Advance(91 * 24 * time.Hour)
	res, err = f.svc.Resolve(ctx, v.Code, f.user.ID, 100000)
	require.NoError(t, err)
	assert.ErrorIs(t, res.Reason, model.ErrVoucherExpired)
}

func TestConsume_CompareAndSwap(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	v, err := f.svc.Issue(ctx, f.user.ID, 50000)
	require.NoError(t, err)

	orderID := uuid.New()
	used, err := f.svc.Consume(ctx, nil, v.Code, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUsed, used.Status)
	require.NotNil(t, used.OrderID)
	assert.Equal(t, orderID, *used.OrderID)
	require.NotNil(t, used.UsedAt)
	assert.Equal(t, testNow, *used.UsedAt)

	_, err = f.svc.Consume(ctx, nil, v.Code, uuid.New())
	assert.ErrorIs(t, err, model.ErrVoucherAlreadyUsed)

	res, err := f.svc.Resolve(ctx, v.Code, f.user.ID, 100000)
	require.NoError(t, err)
	assert.ErrorIs(t, res.Reason, model.ErrVoucherUsed)
}

func TestConsume_ConcurrentCheckoutsOnlyOneWins(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	v, err := f.svc.Issue(ctx, f.user.ID, 50000)
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Consume(ctx, nil, v.Code, uuid.New())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, model.ErrVoucherAlreadyUsed)
	}
	assert.Equal(t, 1, wins)
}

func TestConsume_ExpiredAndMissing(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	v, err := f.svc.Issue(ctx, f.user.ID, 50000)
	require.NoError(t, err)

	f.clock.Set(v.ExpiresAt.Add(time.Nanosecond))
	_, err = f.svc.Consume(ctx, nil, v.Code, uuid.New())
	assert.ErrorIs(t, err, model.ErrVoucherExpired)

	_, err = f.svc.Consume(ctx, nil, "VCH-ZZZZZZZZ", uuid.New())
	assert.ErrorIs(t, err, model.ErrVoucherNotFound)
}

func TestList_FiltersOnDerivedStatusNewestFirst(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	old, err := f.svc.Issue(ctx, f.user.ID, 50000)
	require.NoError(t, err)
	f.clock.Advance(80 * 24 * time.Hour)
	fresh, err := f.svc.Issue(ctx, f.user.ID, 100000)
	require.NoError(t, err)
	f.clock.Advance(11 * 24 * time.Hour)

	all, err := f.svc.List(ctx, model.ListFilter{UserID: &f.user.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, fresh.Code, all[0].Code)
	assert.Equal(t, model.StatusActive, all[0].Status)
	assert.Equal(t, model.StatusExpired, all[1].Status)

	expired, err := f.svc.List(ctx, model.ListFilter{UserID: &f.user.ID, Statuses: []model.Status{model.StatusExpired}})
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, old.Code, expired[0].Code)

	_, err = f.svc.List(ctx, model.ListFilter{Statuses: []model.Status{"BOGUS"}})
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestSweepExpired_PersistsInBatches(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.svc.Issue(ctx, f.user.ID, 50000)
		require.NoError(t, err)
	}
	live, err := f.svc.Issue(ctx, f.user.ID, 50000)
	require.NoError(t, err)
	// keep one voucher fresh
	f.clock.Advance(91 * 24 * time.Hour)
	live.CreatedAt = f.clock.Now()
	live.ExpiresAt = f.clock.Now().AddDate(0, 0, 90)
	live.Code = "VCH-LIVE0001"
	require.NoError(t, f.vouchers.Insert(ctx, nil, live))

	n, err := f.svc.SweepExpired(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	stored, err := f.vouchers.GetByCode(ctx, nil, "VCH-LIVE0001")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, stored.Status)

	n, err = f.svc.SweepExpired(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, n)
}
