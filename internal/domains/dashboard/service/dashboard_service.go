package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"pointhub-backend/internal/domains/dashboard/model"
	"pointhub-backend/internal/domains/dashboard/repository"
	"pointhub-backend/internal/shared/money"
	"pointhub-backend/pkg/logger"
)

const (
	minRevenueDays = 1
	maxRevenueDays = 90
	exportSheet    = "Orders"
)

type ServiceInterface interface {
	KPIs(ctx context.Context, now time.Time) (*model.KPIs, error)
	Revenue(ctx context.Context, days int, now time.Time) ([]model.DailyRevenue, error)
	ExportOrders(ctx context.Context, from, to time.Time) ([]byte, error)
}

type dashboardService struct {
	repo repository.RepositoryInterface
}

func NewDashboardService(repo repository.RepositoryInterface) ServiceInterface {
	return &dashboardService{repo: repo}
}

// change is the percent change from prev to cur. From a zero baseline any
// growth counts as 100%.
func change(cur, prev int64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return money.Percent(cur-prev, prev)
}

func avgTransaction(t model.WindowTotals) int64 {
	if t.PaidOrders == 0 {
		return 0
	}
	return t.Revenue / t.PaidOrders
}

func (s *dashboardService) KPIs(ctx context.Context, now time.Time) (*model.KPIs, error) {
	from := now.Add(-model.KPIWindow)
	prevFrom := from.Add(-model.KPIWindow)

	cur, err := s.repo.WindowTotals(ctx, from, now)
	if err != nil {
		return nil, err
	}
	prev, err := s.repo.WindowTotals(ctx, prevFrom, from)
	if err != nil {
		return nil, err
	}

	curAvg, prevAvg := avgTransaction(cur), avgTransaction(prev)
	return &model.KPIs{
		TotalRevenue:     model.KPI{Value: cur.Revenue, Change: change(cur.Revenue, prev.Revenue)},
		ActiveUsers:      model.KPI{Value: cur.ActiveUsers, Change: change(cur.ActiveUsers, prev.ActiveUsers)},
		VouchersRedeemed: model.KPI{Value: cur.VouchersRedeemed, Change: change(cur.VouchersRedeemed, prev.VouchersRedeemed)},
		AvgTransaction:   model.KPI{Value: curAvg, Change: change(curAvg, prevAvg)},
		From:             from,
		To:               now,
	}, nil
}

// Revenue returns one point per UTC day for the last days days, today
// included, with empty days filled in as zero.
func (s *dashboardService) Revenue(ctx context.Context, days int, now time.Time) ([]model.DailyRevenue, error) {
	if days < minRevenueDays {
		days = minRevenueDays
	}
	if days > maxRevenueDays {
		days = maxRevenueDays
	}

	today := now.UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -(days - 1))
	to := today.AddDate(0, 0, 1)

	rows, err := s.repo.DailyRevenue(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]model.DailyRevenue, len(rows))
	for _, r := range rows {
		byDay[r.Date] = r
	}

	series := make([]model.DailyRevenue, 0, days)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		p, ok := byDay[key]
		if !ok {
			p = model.DailyRevenue{Date: key}
		}
		series = append(series, p)
	}
	return series, nil
}

// ExportOrders renders the PAID orders of [from, to) as an xlsx workbook.
func (s *dashboardService) ExportOrders(ctx context.Context, from, to time.Time) ([]byte, error) {
	rows, err := s.repo.PaidOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Error("close export workbook", cerr)
		}
	}()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Order Number", "Paid At", "Customer", "Source", "Subtotal", "Voucher", "Discount", "Total", "Points Earned"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(exportSheet, "A1", "I1", style)
	}
	_ = f.SetColWidth(exportSheet, "A", "A", 26)
	_ = f.SetColWidth(exportSheet, "B", "C", 22)
	_ = f.SetColWidth(exportSheet, "D", "I", 14)

	var revenue int64
	for i, r := range rows {
		voucher := ""
		if r.VoucherCode != nil {
			voucher = *r.VoucherCode
		}
		values := []interface{}{
			r.OrderNumber,
			r.PaidAt.UTC().Format("2006-01-02 15:04:05"),
			r.CustomerEmail,
			r.Source,
			r.Subtotal,
			voucher,
			r.VoucherDiscount,
			r.Total,
			r.PointsEarned,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(exportSheet, cell, v)
		}
		revenue += r.Total
	}

	totalRow := len(rows) + 2
	labelCell, _ := excelize.CoordinatesToCellName(7, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(8, totalRow)
	_ = f.SetCellValue(exportSheet, labelCell, "TOTAL")
	_ = f.SetCellValue(exportSheet, totalCell, revenue)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}

	logger.Info("orders exported", map[string]interface{}{
		"from":    from.Format(time.DateOnly),
		"to":      to.Format(time.DateOnly),
		"orders":  len(rows),
		"revenue": money.FormatCompact(revenue),
	})
	return buf.Bytes(), nil
}
