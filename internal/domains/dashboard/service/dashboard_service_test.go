package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pointhub-backend/internal/domains/dashboard/model"
)

type stubRepo struct {
	windows map[time.Time]model.WindowTotals
	daily   []model.DailyRevenue
	orders  []model.ExportRow

	dailyFrom, dailyTo time.Time
}

func (s *stubRepo) WindowTotals(_ context.Context, from, _ time.Time) (model.WindowTotals, error) {
	return s.windows[from], nil
}

func (s *stubRepo) DailyRevenue(_ context.Context, from, to time.Time) ([]model.DailyRevenue, error) {
	s.dailyFrom, s.dailyTo = from, to
	return s.daily, nil
}

func (s *stubRepo) PaidOrders(context.Context, time.Time, time.Time) ([]model.ExportRow, error) {
	return s.orders, nil
}

var now = time.Date(2026, 3, 31, 15, 0, 0, 0, time.UTC)

func TestKPIs_ComparesWithPreviousWindow(t *testing.T) {
	cur := now.Add(-model.KPIWindow)
	prev := cur.Add(-model.KPIWindow)
	repo := &stubRepo{windows: map[time.Time]model.WindowTotals{
		cur:  {Revenue: 1_500_000, PaidOrders: 30, VouchersRedeemed: 12, ActiveUsers: 110},
		prev: {Revenue: 1_000_000, PaidOrders: 25, VouchersRedeemed: 0, ActiveUsers: 100},
	}}

	k, err := NewDashboardService(repo).KPIs(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(1_500_000), k.TotalRevenue.Value)
	assert.Equal(t, 50.0, k.TotalRevenue.Change)
	assert.Equal(t, int64(110), k.ActiveUsers.Value)
	assert.Equal(t, 10.0, k.ActiveUsers.Change)
	assert.Equal(t, int64(12), k.VouchersRedeemed.Value)
	assert.Equal(t, 100.0, k.VouchersRedeemed.Change)
	assert.Equal(t, int64(50_000), k.AvgTransaction.Value)
	assert.Equal(t, 25.0, k.AvgTransaction.Change)
	assert.Equal(t, cur, k.From)
	assert.Equal(t, now, k.To)
}

func TestKPIs_EmptyWindows(t *testing.T) {
	k, err := NewDashboardService(&stubRepo{}).KPIs(context.Background(), now)
	require.NoError(t, err)

	assert.Zero(t, k.TotalRevenue.Value)
	assert.Zero(t, k.TotalRevenue.Change)
	assert.Zero(t, k.AvgTransaction.Value)
	assert.Zero(t, k.AvgTransaction.Change)
}

func TestChange_Declines(t *testing.T) {
	assert.Equal(t, -40.0, change(60, 100))
	assert.Equal(t, -100.0, change(0, 100))
	assert.Equal(t, 33.3, change(4, 3))
}

func TestRevenue_FillsMissingDays(t *testing.T) {
	repo := &stubRepo{daily: []model.DailyRevenue{
		{Date: "2026-03-29", Revenue: 200_000, Orders: 3},
		{Date: "2026-03-31", Revenue: 50_000, Orders: 1},
	}}

	series, err := NewDashboardService(repo).Revenue(context.Background(), 5, now)
	require.NoError(t, err)

	require.Len(t, series, 5)
	assert.Equal(t, "2026-03-27", series[0].Date)
	assert.Equal(t, "2026-03-31", series[4].Date)
	assert.Zero(t, series[0].Revenue)
	assert.Equal(t, int64(200_000), series[2].Revenue)
	assert.Zero(t, series[3].Orders)
	assert.Equal(t, int64(50_000), series[4].Revenue)

	assert.Equal(t, time.Date(2026, 3, 27, 0, 0, 0, 0, time.UTC), repo.dailyFrom)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), repo.dailyTo)
}

func TestRevenue_ClampsDays(t *testing.T) {
	svc := NewDashboardService(&stubRepo{})

	series, err := svc.Revenue(context.Background(), 0, now)
	require.NoError(t, err)
	assert.Len(t, series, 1)

	series, err = svc.Revenue(context.Background(), 365, now)
	require.NoError(t, err)
	assert.Len(t, series, 90)
}

func TestExportOrders_WritesWorkbook(t *testing.T) {
	code := "VCH-AB12CD34"
	repo := &stubRepo{orders: []model.ExportRow{
		{OrderNumber: "ORD-20260330-AAAA0001", PaidAt: now.Add(-24 * time.Hour), CustomerEmail: "a@example.com",
			Source: "web", Subtotal: 100_000, VoucherCode: &code, VoucherDiscount: 10_000, Total: 90_000, PointsEarned: 9},
		{OrderNumber: "ORD-20260331-AAAA0002", PaidAt: now, CustomerEmail: "b@example.com",
			Source: "pos", Subtotal: 40_000, Total: 40_000, PointsEarned: 4},
	}}

	data, err := NewDashboardService(repo).ExportOrders(context.Background(), now.Add(-48*time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Orders"}, f.GetSheetList())

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Order Number", rows[0][0])
	assert.Equal(t, "ORD-20260330-AAAA0001", rows[1][0])
	assert.Equal(t, "VCH-AB12CD34", rows[1][5])
	assert.Equal(t, "90000", rows[1][7])
	assert.Equal(t, "", rows[2][5])

	total, err := f.GetCellValue("Orders", "H4")
	require.NoError(t, err)
	assert.Equal(t, "130000", total)
}
