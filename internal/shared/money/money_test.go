package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentFloor(t *testing.T) {
	tests := []struct {
		name   string
		amount Rupiah
		pct    int
		want   Rupiah
	}{
		{"half of even", 100000, 50, 50000},
		{"half of odd floors", 99999, 50, 49999},
		{"zero pct", 100000, 0, 0},
		{"full", 75000, 100, 75000},
		{"third", 10, 33, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentFloor(tt.amount, tt.pct))
		})
	}
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(5), FloorDiv(55000, 10000))
	assert.Equal(t, int64(0), FloorDiv(9999, 10000))
	assert.Equal(t, int64(-1), FloorDiv(-1, 10000))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Rp 0", Format(0))
	assert.Equal(t, "Rp 500", Format(500))
	assert.Equal(t, "Rp 50.000", Format(50000))
	assert.Equal(t, "Rp 1.234.567", Format(1234567))
	assert.Equal(t, "-Rp 1.000", Format(-1000))
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "Rp 1.5jt", FormatCompact(1500000))
	assert.Equal(t, "Rp 50rb", FormatCompact(50000))
	assert.Equal(t, "Rp 999", FormatCompact(999))
}

func TestParse(t *testing.T) {
	assert.Equal(t, Rupiah(1234567), Parse("Rp 1.234.567"))
	assert.Equal(t, Rupiah(0), Parse("abc"))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 50.0, Percent(1, 2))
	assert.Equal(t, 33.3, Percent(1, 3))
}

func TestCheckedSum(t *testing.T) {
	got, ok := CheckedSum(25000, 3)
	assert.True(t, ok)
	assert.Equal(t, Rupiah(75000), got)

	_, ok = CheckedSum(math.MaxInt64/2+1, 2)
	assert.False(t, ok)

	got, ok = CheckedSum(math.MaxInt64, 1)
	assert.True(t, ok)
	assert.Equal(t, Rupiah(math.MaxInt64), got)
}

func TestCheckedAdd(t *testing.T) {
	got, ok := CheckedAdd(40, 2)
	assert.True(t, ok)
	assert.Equal(t, Rupiah(42), got)

	_, ok = CheckedAdd(math.MaxInt64, 1)
	assert.False(t, ok)

	_, ok = CheckedAdd(math.MinInt64, -1)
	assert.False(t, ok)
}
