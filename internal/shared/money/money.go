// Package money holds whole-rupiah arithmetic. Amounts never carry fractions.
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Rupiah is an amount in whole rupiah.
type Rupiah = int64

var hundred = decimal.NewFromInt(100)

// Sum returns price * qty.
func Sum(price Rupiah, qty int) Rupiah {
	return price * int64(qty)
}

// CheckedSum is Sum that reports false when price * qty overflows int64.
func CheckedSum(price Rupiah, qty int) (Rupiah, bool) {
	if price == 0 || qty == 0 {
		return 0, true
	}
	p := price * int64(qty)
	if p/int64(qty) != price || (price == -1 && int64(qty) == math.MinInt64) {
		return 0, false
	}
	return p, true
}

// CheckedAdd reports false when a + b overflows int64.
func CheckedAdd(a, b Rupiah) (Rupiah, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}

// FloorDiv divides and rounds toward negative infinity. b must be > 0.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && (a < 0) {
		q--
	}
	return q
}

// PercentFloor returns floor(amount * pct / 100).
func PercentFloor(amount Rupiah, pct int) Rupiah {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(int64(pct))).
		Div(hundred).
		Floor().
		IntPart()
}

// Percent returns part/whole*100 rounded to one decimal, 0 when whole is 0.
func Percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(part).
		Mul(hundred).
		Div(decimal.NewFromInt(whole)).
		Round(1).
		Float64()
	return f
}

func Min(a, b Rupiah) Rupiah {
	if a < b {
		return a
	}
	return b
}

func Max(a, b Rupiah) Rupiah {
	if a > b {
		return a
	}
	return b
}

// Format renders "Rp 1.234.567" (Indonesian thousands separator).
func Format(r Rupiah) string {
	sign := ""
	if r < 0 {
		sign = "-"
		r = -r
	}

	digits := strconv.FormatInt(r, 10)
	var b strings.Builder
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	return sign + "Rp " + b.String()
}

// FormatCompact renders "Rp 1.5jt" for millions and "Rp 50rb" for thousands.
func FormatCompact(r Rupiah) string {
	d := decimal.NewFromInt(r)
	switch {
	case r >= 1_000_000:
		return "Rp " + d.Div(decimal.NewFromInt(1_000_000)).StringFixed(1) + "jt"
	case r >= 1_000:
		return "Rp " + d.Div(decimal.NewFromInt(1_000)).StringFixed(0) + "rb"
	default:
		return Format(r)
	}
}

// Parse keeps the digits of s, returning 0 when there are none.
func Parse(s string) Rupiah {
	var b strings.Builder
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
