package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"pointhub-backend/internal/shared/money"
)

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusUsed    Status = "USED"
	StatusExpired Status = "EXPIRED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusUsed, StatusExpired:
		return true
	}
	return false
}

const (
	CodePrefix   = "VCH-"
	CodeLength   = 8
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// MinSpendFloor is the lowest min-spend any voucher can have.
	MinSpendFloor money.Rupiah = 50000
)

type Voucher struct {
	ID         uuid.UUID    `json:"id"`
	Code       string       `json:"code"`
	UserID     uuid.UUID    `json:"userId"`
	ValueRp    money.Rupiah `json:"valueRp"`
	MinSpendRp money.Rupiah `json:"minSpendRp"`
	Status     Status       `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
	ExpiresAt  time.Time    `json:"expiresAt"`
	UsedAt     *time.Time   `json:"usedAt"`
	OrderID    *uuid.UUID   `json:"orderId"`
}

// EffectiveStatus derives the status at now. USED and EXPIRED are terminal;
// an ACTIVE voucher past expiresAt reads as EXPIRED.
func (v *Voucher) EffectiveStatus(now time.Time) Status {
	switch v.Status {
	case StatusUsed, StatusExpired:
		return v.Status
	}
	if v.ExpiresAt.Before(now) {
		return StatusExpired
	}
	return StatusActive
}

// AsOf returns a copy whose Status is the derived status at now.
func (v *Voucher) AsOf(now time.Time) *Voucher {
	cp := *v
	cp.Status = v.EffectiveStatus(now)
	return &cp
}

// MinSpendFor returns max(50 000, 2 × value).
func MinSpendFor(valueRp money.Rupiah) money.Rupiah {
	return money.Max(MinSpendFloor, valueRp*2)
}

// ExpiresAt is createdAt plus expiryDays calendar days.
func ExpiresAt(createdAt time.Time, expiryDays int) time.Time {
	return createdAt.AddDate(0, 0, expiryDays)
}

// NormalizeCode upper-cases and trims user input.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsWellFormedCode checks the VCH-XXXXXXXX shape.
func IsWellFormedCode(code string) bool {
	if len(code) != len(CodePrefix)+CodeLength || !strings.HasPrefix(code, CodePrefix) {
		return false
	}
	for _, ch := range code[len(CodePrefix):] {
		if !strings.ContainsRune(CodeAlphabet, ch) {
			return false
		}
	}
	return true
}

// ListFilter selects vouchers by owner and derived status.
type ListFilter struct {
	UserID   *uuid.UUID
	Statuses []Status
	Limit    int
}
