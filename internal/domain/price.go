package domain

import "time"

// EffectivePrice is the result of a point price query.
// RuleID is nil when the court's default price applied.
type EffectivePrice struct {
	PriceCents       int64 // amount for the whole duration
	RatePerHourCents int64
	DurationMinutes  int
	RuleID           *string
}

// PriceSegment is one contiguous, uniformly priced piece of a timeline.
type PriceSegment struct {
	Interval         TimeInterval
	RatePerHourCents int64
	AmountCents      int64
	RuleID           *string
	Tier             Tier
}

// PriceTimeline covers exactly the requested window with contiguous segments.
type PriceTimeline struct {
	CourtID    int64
	Date       time.Time
	Window     TimeInterval
	Segments   []PriceSegment
	TotalCents int64
}

// ProportionalPrice returns round(rate * minutes / 60) with halves rounded up.
// Integer arithmetic only; rate and minutes are non-negative.
func ProportionalPrice(ratePerHourCents int64, minutes int) int64 {
	if ratePerHourCents <= 0 || minutes <= 0 {
		return 0
	}
	return (ratePerHourCents*int64(minutes) + 30) / 60
}
