package model

import "pointhub-backend/internal/shared/money"

// Tier is a fixed (points cost, cash value) exchange rate.
type Tier struct {
	PointsCost int64        `json:"pointsCost"`
	ValueRp    money.Rupiah `json:"valueRp"`
}

// Tiers is ordered by PointsCost ascending.
var Tiers = []Tier{
	{PointsCost: 100, ValueRp: 50000},
	{PointsCost: 200, ValueRp: 100000},
	{PointsCost: 500, ValueRp: 300000},
}

// FindTier matches pointsCost exactly.
func FindTier(pointsCost int64) (Tier, bool) {
	for _, t := range Tiers {
		if t.PointsCost == pointsCost {
			return t, true
		}
	}
	return Tier{}, false
}

// Progress tracks how close a balance is to the next tier.
type Progress struct {
	CurrentPoints   int64   `json:"currentPoints"`
	PointsNeeded    int64   `json:"pointsNeeded"`
	PercentComplete float64 `json:"percentComplete"`
	NextTier        Tier    `json:"nextTier"`
}

// NextTierProgress picks the cheapest tier costing more than balance.
// At or above the top tier it reports 100% of the top tier.
// PointsNeeded is the tier's full cost, not the remaining gap.
func NextTierProgress(balance int64) Progress {
	for _, t := range Tiers {
		if balance < t.PointsCost {
			return Progress{
				CurrentPoints:   balance,
				PointsNeeded:    t.PointsCost,
				PercentComplete: float64(balance) * 100 / float64(t.PointsCost),
				NextTier:        t,
			}
		}
	}

	top := Tiers[len(Tiers)-1]
	return Progress{
		CurrentPoints:   balance,
		PointsNeeded:    top.PointsCost,
		PercentComplete: 100,
		NextTier:        top,
	}
}
