package model

import (
	"time"

	"pointhub-backend/internal/shared/money"
)

// KPIWindow is the length of the current and comparison windows.
const KPIWindow = 30 * 24 * time.Hour

// WindowTotals are the raw aggregates of one time window.
type WindowTotals struct {
	Revenue          money.Rupiah
	PaidOrders       int64
	VouchersRedeemed int64
	ActiveUsers      int64
}

// KPI is a value with its change against the previous window, in percent.
type KPI struct {
	Value  int64   `json:"value"`
	Change float64 `json:"change"`
}

type KPIs struct {
	TotalRevenue     KPI       `json:"totalRevenue"`
	ActiveUsers      KPI       `json:"activeUsers"`
	VouchersRedeemed KPI       `json:"vouchersRedeemed"`
	AvgTransaction   KPI       `json:"avgTransaction"`
	From             time.Time `json:"from"`
	To               time.Time `json:"to"`
}

type DailyRevenue struct {
	Date    string       `json:"date"`
	Revenue money.Rupiah `json:"revenue"`
	Orders  int64        `json:"orders"`
}

// ExportRow is one PAID order in the spreadsheet export.
type ExportRow struct {
	OrderNumber     string
	PaidAt          time.Time
	CustomerEmail   string
	Source          string
	Subtotal        money.Rupiah
	VoucherCode     *string
	VoucherDiscount money.Rupiah
	Total           money.Rupiah
	PointsEarned    int64
}
