package service

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	campaignModel "pointhub-backend/internal/domains/campaign/model"
	"pointhub-backend/internal/domains/order/model"
	"pointhub-backend/internal/domains/order/repository"
	pricingModel "pointhub-backend/internal/domains/pricing/model"
	userModel "pointhub-backend/internal/domains/user/model"
	userRepository "pointhub-backend/internal/domains/user/repository"
	voucherModel "pointhub-backend/internal/domains/voucher/model"
	voucherRepository "pointhub-backend/internal/domains/voucher/repository"
	voucherService "pointhub-backend/internal/domains/voucher/service"
	"pointhub-backend/internal/shared/apperr"
	"pointhub-backend/internal/shared/clock"
	"pointhub-backend/internal/shared/money"
	"pointhub-backend/pkg/database"
)

type inlineTx struct{}

func (inlineTx) WithTx(_ context.Context, fn database.TxFunc) error { return fn(nil) }

type stubCampaigns struct {
	campaign campaignModel.Campaign
}

func (s *stubCampaigns) GetActive(context.Context) (*campaignModel.Campaign, error) {
	c := s.campaign
	return &c, nil
}

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) EnqueueConfirmPayment(ctx context.Context, orderID string, delay time.Duration, source string) error {
	return m.Called(orderID, delay, source).Error(0)
}

type fixture struct {
	svc       ServiceInterface
	orders    *repository.MemoryRepository
	users     *userRepository.MemoryRepository
	vouchers  voucherService.ServiceInterface
	campaigns *stubCampaigns
	clock     *clock.Fixed
	member    *userModel.User
	session   model.Session
}

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, opts Options, payments PaymentScheduler) *fixture {
	t.Helper()
	member := &userModel.User{ID: uuid.New(), Email: "member@example.com", Role: userModel.RoleUser}
	f := &fixture{
		orders: repository.NewMemoryRepository(),
		users:  userRepository.NewMemoryRepository(member),
		campaigns: &stubCampaigns{campaign: campaignModel.Campaign{
			ID: uuid.New(), AccrualPer: 10000, RedeemValue: 500, DiscountCapPct: 50, ExpiryDays: 90, IsActive: true,
		}},
		clock:   clock.NewFixed(testNow),
		member:  member,
		session: model.Session{UserID: member.ID, Role: userModel.RoleUser},
	}
	f.vouchers = voucherService.NewVoucherService(inlineTx{}, voucherRepository.NewMemoryRepository(),
		f.campaigns, f.users, f.clock, nil, voucherService.Options{RequireActiveCampaign: true})
	f.svc = NewOrderService(inlineTx{}, f.orders, f.campaigns, f.vouchers, f.users, payments, f.clock, opts)
	return f
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	u, err := f.users.GetByID(context.Background(), f.member.ID)
	require.NoError(t, err)
	return u.PointsBalance
}

func cart(lines ...pricingModel.CartItem) []pricingModel.CartItem { return lines }

func line(name string, price money.Rupiah, qty int) pricingModel.CartItem {
	return pricingModel.CartItem{ProductID: uuid.New(), ProductName: name, Price: price, Quantity: qty}
}

func strPtr(s string) *string { return &s }

func TestCheckout_FreezesSnapshotAsPending(t *testing.T) {
	f := newFixture(t, Options{}, nil)

	order, err := f.svc.Checkout(context.Background(), f.session, model.CheckoutRequest{
		Items: cart(line("Kopi Susu", 25000, 2), line("Roti Bakar", 5000, 1)),
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, int64(55000), order.Subtotal)
	assert.Equal(t, int64(55000), order.Total)
	assert.Equal(t, int64(5), order.PointsEarned)
	assert.Nil(t, order.VoucherCode)
	assert.Nil(t, order.PaidAt)
	assert.Equal(t, testNow, order.CreatedAt)
	assert.Equal(t, model.SourceWeb, order.Source)
	assert.Regexp(t, `^ORD-20250301-[0-9A-F]{8}$`, order.OrderNumber)

	items, err := f.svc.Items(context.Background(), f.session, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Kopi Susu", items[0].ProductName)
	assert.Equal(t, int64(50000), items[0].LineTotal)

	assert.Zero(t, f.balance(t), "points are credited on payment, not at checkout")
}

func TestCheckout_RequiresUserAndItems(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, model.Session{}, model.CheckoutRequest{Items: cart(line("A", 1000, 1))})
	assert.ErrorIs(t, err, model.ErrNoActiveUser)

	_, err = f.svc.Checkout(ctx, f.session, model.CheckoutRequest{})
	assert.ErrorIs(t, err, model.ErrCartEmpty)

	_, err = f.svc.Checkout(ctx, f.session, model.CheckoutRequest{Items: cart(line("A", 1000, 0))})
	assert.Error(t, err)
}

func TestCheckout_RejectsOversizedCart(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	ctx := context.Background()
	huge := cart(line("Emas", math.MaxInt64/2+1, 2))

	_, err := f.svc.Checkout(ctx, f.session, model.CheckoutRequest{Items: huge})
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.PreviewPrice(ctx, f.session, model.CheckoutRequest{Items: huge})
	assert.Error(t, err)

	big := line("Emas", pricingModel.MaxItemPrice, pricingModel.MaxItemQuantity)
	_, err = f.svc.Checkout(ctx, f.session, model.CheckoutRequest{Items: cart(big, line("Roti", 1, 1))})
	assert.ErrorIs(t, err, pricingModel.ErrCartTooLarge)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	orders, total, err := f.svc.List(ctx, model.ListFilter{UserID: &f.member.ID})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}

func TestCheckout_WithVoucherConsumesIt(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	ctx := context.Background()

	v, err := f.vouchers.Issue(ctx, f.member.ID, 100000)
	require.NoError(t, err)

	order, err := f.svc.Checkout(ctx, f.session, model.CheckoutRequest{
		Items:       cart(line("Hampers", 250000, 1)),
		VoucherCode: strPtr(v.Code),
	})
	require.NoError(t, err)

	require.NotNil(t, order.VoucherCode)
	assert.Equal(t, v.Code, *order.VoucherCode)
	assert.Equal(t, int64(100000), order.VoucherDiscount)
	assert.Equal(t, int64(150000), order.Total)
	assert.Equal(t, int64(15), order.PointsEarned)

	used, err := f.vouchers.Validate(ctx, v.Code)
	require.NoError(t, err)
	assert.Equal(t, voucherModel.StatusUsed, used.Status)
	require.NotNil(t, used.OrderID)
	assert.Equal(t, order.ID, *used.OrderID)

	// a second cart cannot reuse the voucher and is priced without it
	second, err := f.svc.Checkout(ctx, f.session, model.CheckoutRequest{
		Items:       cart(line("Hampers", 250000, 1)),
		VoucherCode: strPtr(v.Code),
	})
	require.NoError(t, err)
	assert.Nil(t, second.VoucherCode)
	assert.Zero(t, second.VoucherDiscount)
}

func TestCheckout_VoucherBelowMinSpendIsNotConsumed(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	ctx := context.Background()

	v, err := f.vouchers.Issue(ctx, f.member.ID, 50000)
	require.NoError(t, err)

	req := model.CheckoutRequest{Items: cart(line("Kopi", 30000, 3)), VoucherCode: strPtr(v.Code)}

	preview, err := f.svc.PreviewPrice(ctx, f.session, req)
	require.NoError(t, err)
	assert.False(t, preview.VoucherApplied)
	assert.Equal(t, voucherModel.ErrMinSpendNotMet.Code, preview.VoucherReason)
	assert.Zero(t, preview.VoucherDiscount)

	order, err := f.svc.Checkout(ctx, f.session, req)
	require.NoError(t, err)
	assert.Nil(t, order.VoucherCode)
	assert.Equal(t, int64(90000), order.Total)

	still, err := f.vouchers.Validate(ctx, v.Code)
	require.NoError(t, err)
	assert.Equal(t, voucherModel.StatusActive, still.Status)
}

func TestPreviewPrice_MatchesCheckoutAndReportsCap(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	f.campaigns.campaign.DiscountCapPct = 30
	ctx := context.Background()

	v, err := f.vouchers.Issue(ctx, f.member.ID, 50000)
	require.NoError(t, err)

	req := model.CheckoutRequest{Items: cart(line("Paket", 100000, 1)), VoucherCode: strPtr(v.Code)}
	preview, err := f.svc.PreviewPrice(ctx, f.session, req)
	require.NoError(t, err)
	assert.True(t, preview.VoucherApplied)
	assert.True(t, preview.DiscountCapped)
	assert.Equal(t, int64(30000), preview.VoucherDiscount)
	assert.Equal(t, int64(70000), preview.Total)
	assert.Equal(t, int64(7), preview.PointsToEarn)

	order, err := f.svc.Checkout(ctx, f.session, req)
	require.NoError(t, err)
	assert.Equal(t, preview.Total, order.Total)
	assert.Equal(t, preview.VoucherDiscount, order.VoucherDiscount)
	assert.Equal(t, preview.PointsToEarn, order.PointsEarned)
	assert.True(t, order.DiscountCapped)
}

func TestPreviewPrice_EmptyCartIsZero(t *testing.T) {
	f := newFixture(t, Options{}, nil)

	preview, err := f.svc.PreviewPrice(context.Background(), model.Session{}, model.CheckoutRequest{})
	require.NoError(t, err)
	assert.Zero(t, preview.Subtotal)
	assert.Zero(t, preview.Total)
	assert.Zero(t, preview.PointsToEarn)
	assert.Nil(t, preview.VoucherCode)
}

type racingVouchers struct{}

func (racingVouchers) Resolve(_ context.Context, code string, userID uuid.UUID, _ money.Rupiah) (*voucherModel.Resolution, error) {
	return &voucherModel.Resolution{
		Code:       code,
		Applicable: true,
		Voucher:    &voucherModel.Voucher{Code: code, UserID: userID, ValueRp: 50000, Status: voucherModel.StatusActive},
	}, nil
}

func (racingVouchers) Consume(context.Context, pgx.Tx, string, uuid.UUID) (*voucherModel.Voucher, error) {
	return nil, voucherModel.ErrVoucherAlreadyUsed
}

func TestCheckout_LostVoucherRaceAborts(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	f.svc = NewOrderService(inlineTx{}, f.orders, f.campaigns, racingVouchers{}, f.users, nil, f.clock, Options{})

	_, err := f.svc.Checkout(context.Background(), f.session, model.CheckoutRequest{
		Items:       cart(line("Paket", 200000, 1)),
		VoucherCode: strPtr("VCH-RACE0001"),
	})
	assert.ErrorIs(t, err, voucherModel.ErrVoucherAlreadyUsed)
}

func TestConfirmPayment_IsIdempotent(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	ctx := context.Background()

	order, err := f.svc.Checkout(ctx, f.session, model.CheckoutRequest{Items: cart(line("Paket", 55000, 1))})
	require.NoError(t, err)

	f.clock.Advance(3 * time.Second)
	first, err := f.svc.ConfirmPayment(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, first.Status)
	require.NotNil(t, first.PaidAt)
	assert.Equal(t, testNow.Add(3*time.Second), *first.PaidAt)
	assert.Equal(t, int64(5), f.balance(t))

	f.clock.Advance(time.Minute)
	second, err := f.svc.ConfirmPayment(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(5), f.balance(t))
}

func TestConfirmPayment_ConcurrentDuplicatesCreditOnce(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	ctx := context.Background()

	order, err := f.svc.Checkout(ctx, f.session, model.CheckoutRequest{Items: cart(line("Paket", 120000, 1))})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ConfirmPayment(ctx, order.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(12), f.balance(t))
}

func TestConfirmPayment_Failures(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	ctx := context.Background()

	_, err := f.svc.ConfirmPayment(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrOrderNotFound)

	order, err := f.svc.Checkout(ctx, f.session, model.CheckoutRequest{Items: cart(line("Paket", 55000, 1))})
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, f.session, order.ID)
	require.NoError(t, err)

	_, err = f.svc.ConfirmPayment(ctx, order.ID)
	assert.ErrorIs(t, err, model.ErrOrderNotPayable)
	assert.Zero(t, f.balance(t))
}

func TestCancel(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	ctx := context.Background()

	pending, err := f.svc.Checkout(ctx, f.session, model.CheckoutRequest{Items: cart(line("A", 10000, 1))})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, f.session, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	again, err := f.svc.Cancel(ctx, f.session, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, again.Status)

	paid, err := f.svc.Checkout(ctx, f.session, model.CheckoutRequest{Items: cart(line("B", 10000, 1))})
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, paid.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, f.session, paid.ID)
	assert.ErrorIs(t, err, model.ErrOrderNotCancellable)
}

func TestGet_HidesOtherUsersOrders(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	ctx := context.Background()

	order, err := f.svc.Checkout(ctx, f.session, model.CheckoutRequest{Items: cart(line("A", 10000, 1))})
	require.NoError(t, err)

	stranger := model.Session{UserID: uuid.New(), Role: userModel.RoleUser}
	_, err = f.svc.Get(ctx, stranger, order.ID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)

	_, err = f.svc.Items(ctx, stranger, order.ID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)

	admin := model.Session{UserID: uuid.New(), Role: userModel.RoleAdmin}
	got, err := f.svc.Get(ctx, admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestList_NewestFirstAndStatusFilter(t *testing.T) {
	f := newFixture(t, Options{}, nil)
	ctx := context.Background()

	first, err := f.svc.Checkout(ctx, f.session, model.CheckoutRequest{Items: cart(line("A", 10000, 1))})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.svc.Checkout(ctx, f.session, model.CheckoutRequest{Items: cart(line("B", 10000, 1))})
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, first.ID)
	require.NoError(t, err)

	orders, total, err := f.svc.List(ctx, model.ListFilter{UserID: &f.member.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, second.ID, orders[0].ID)

	paid, total, err := f.svc.List(ctx, model.ListFilter{Statuses: []model.Status{model.StatusPaid}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, first.ID, paid[0].ID)

	_, _, err = f.svc.List(ctx, model.ListFilter{Statuses: []model.Status{"SHIPPED"}})
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	summary, err := f.svc.PaidSummary(ctx, f.member.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaidSummary{TotalOrders: 1, LifetimeSpent: 10000}, summary)
}

func TestCheckout_SchedulesAutoConfirmation(t *testing.T) {
	payments := new(mockScheduler)
	f := newFixture(t, Options{AutoConfirmDelay: 3 * time.Second}, payments)
	payments.On("EnqueueConfirmPayment", mock.AnythingOfType("string"), 3*time.Second, "auto").Return(nil).Once()

	order, err := f.svc.Checkout(context.Background(), f.session, model.CheckoutRequest{Items: cart(line("A", 10000, 1))})
	require.NoError(t, err)

	payments.AssertCalled(t, "EnqueueConfirmPayment", order.ID.String(), 3*time.Second, "auto")
	payments.AssertExpectations(t)
}

func TestCheckout_POSSkipsAutoConfirmation(t *testing.T) {
	payments := new(mockScheduler)
	f := newFixture(t, Options{AutoConfirmDelay: 3 * time.Second}, payments)

	operator := uuid.New()
	session := f.session
	session.OperatorID = &operator

	order, err := f.svc.Checkout(context.Background(), session, model.CheckoutRequest{Items: cart(line("A", 10000, 1))})
	require.NoError(t, err)
	assert.Equal(t, model.SourcePOS, order.Source)
	assert.Equal(t, &operator, order.CreatedBy)

	payments.AssertNotCalled(t, "EnqueueConfirmPayment", mock.Anything, mock.Anything, mock.Anything)
}
