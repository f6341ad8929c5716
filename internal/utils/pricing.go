package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// smoothingWeeks spreads the accumulated surplus or deficit over the next
// four weeks of pricing.
const smoothingWeeks = 4

// centsPerUnit converts between stored cents and the whole currency unit
// shown to players.
const centsPerUnit = 100

// PriceRecommendation is the per-player price for the coming week derived
// from the running balance.
type PriceRecommendation struct {
	// AdjustmentCents is round(runningBalance / 4) in display units. A
	// surplus lowers the price, a deficit raises it.
	AdjustmentCents int64
	// PriceCents is basePrice - adjustment, floored at the configured
	// minimum.
	PriceCents int64
	// Clamped is set when the raw formula fell below the floor.
	Clamped bool
}

// RecommendPrice computes next week's per-player price from the running
// balance. The result is rounded to the whole currency unit used for
// display and never drops below minPriceCents.
func RecommendPrice(basePriceCents, runningBalanceCents, minPriceCents int64) PriceRecommendation {
	adjustment := decimal.NewFromInt(runningBalanceCents).
		Div(decimal.NewFromInt(smoothingWeeks)).
		Div(decimal.NewFromInt(centsPerUnit)).
		Round(0).
		Mul(decimal.NewFromInt(centsPerUnit))

	adjustmentCents := adjustment.IntPart()
	priceCents := basePriceCents - adjustmentCents

	rec := PriceRecommendation{
		AdjustmentCents: adjustmentCents,
		PriceCents:      priceCents,
	}
	if priceCents < minPriceCents {
		rec.PriceCents = minPriceCents
		rec.Clamped = true
	}
	return rec
}

// WeekOf returns the settlement period containing t: Monday 00:00 in loc
// up to (exclusive) the next Monday 00:00, plus the ISO week label used
// as the report key, e.g. "2026-W34".
func WeekOf(t time.Time, loc *time.Location) (start, end time.Time, week string) {
	t = t.In(loc)

	// time.Weekday numbers Sunday as 0; shift so Monday is day 0.
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -daysSinceMonday).Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 7)

	isoYear, isoWeek := start.ISOWeek()
	week = fmt.Sprintf("%04d-W%02d", isoYear, isoWeek)
	return start, end, week
}

// PreviousWeekOf returns the settlement period that ended most recently
// before the week containing t. The weekly job settles this period.
func PreviousWeekOf(t time.Time, loc *time.Location) (start, end time.Time, week string) {
	return WeekOf(t.In(loc).AddDate(0, 0, -7), loc)
}
