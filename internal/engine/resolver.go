package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Resolver turns a court's rules into effective prices for a date.
// It holds no state besides the holiday calendar and is safe for concurrent use.
type Resolver struct {
	holidays domain.HolidayCalendar
}

func NewResolver(holidays domain.HolidayCalendar) *Resolver {
	return &Resolver{holidays: holidays}
}

// ActiveRules returns the rules of court active on date, ordered by precedence:
// tier descending, then interval start, then ID for a stable order.
func (r *Resolver) ActiveRules(courtID int64, rules []domain.PriceRule, date time.Time) []domain.PriceRule {
	active := make([]domain.PriceRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Activation == nil || rule.CourtID != courtID {
			continue
		}
		if rule.Activation.ActiveOn(date, r.holidays) {
			active = append(active, rule)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		ti, tj := active[i].Tier(), active[j].Tier()
		if ti != tj {
			return ti > tj
		}
		si, sj := active[i].Interval.StartMinutes(), active[j].Interval.StartMinutes()
		if si != sj {
			return si < sj
		}
		return active[i].ID < active[j].ID
	})
	return active
}

// PriceAt resolves the price of a booking starting at start for durationMinutes.
// The highest-precedence active rule containing start prices the whole duration;
// with none, the court default applies and RuleID is nil.
func (r *Resolver) PriceAt(court domain.Court, rules []domain.PriceRule, date time.Time, start types.TimeString, durationMinutes int) (domain.EffectivePrice, error) {
	if durationMinutes <= 0 {
		return domain.EffectivePrice{}, fmt.Errorf("%w: duration must be positive, got %d", domain.ErrInvalidInterval, durationMinutes)
	}
	if err := start.Validate(); err != nil {
		return domain.EffectivePrice{}, fmt.Errorf("%w: %v", domain.ErrInvalidInterval, err)
	}
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return domain.EffectivePrice{}, fmt.Errorf("%w: %v", domain.ErrInvalidInterval, err)
	}
	requested := domain.TimeInterval{Start: start, End: end}
	if err := requested.Validate(); err != nil {
		return domain.EffectivePrice{}, err
	}

	rate := court.DefaultPriceCents
	var ruleID *string
	if winner, ok := r.winnerAt(r.ActiveRules(court.ID, rules, date), requested.StartMinutes()); ok {
		rate = winner.PriceCents
		id := winner.ID
		ruleID = &id
	}

	return domain.EffectivePrice{
		PriceCents:       domain.ProportionalPrice(rate, durationMinutes),
		RatePerHourCents: rate,
		DurationMinutes:  durationMinutes,
		RuleID:           ruleID,
	}, nil
}

// Timeline splits window into contiguous segments, each priced by the highest-precedence
// active rule covering it or by the court default. Adjacent segments with the same source
// are merged. Segments cover window exactly.
func (r *Resolver) Timeline(court domain.Court, rules []domain.PriceRule, date time.Time, window domain.TimeInterval) (domain.PriceTimeline, error) {
	if err := window.Validate(); err != nil {
		return domain.PriceTimeline{}, err
	}

	active := r.ActiveRules(court.ID, rules, date)
	from, to := window.StartMinutes(), window.EndMinutes()

	boundaries := []int{from, to}
	for _, rule := range active {
		for _, b := range []int{rule.Interval.StartMinutes(), rule.Interval.EndMinutes()} {
			if b > from && b < to {
				boundaries = append(boundaries, b)
			}
		}
	}
	sort.Ints(boundaries)

	var segments []domain.PriceSegment
	prev := -1
	for i, b := range boundaries {
		if i > 0 && b == prev {
			continue
		}
		if i > 0 {
			segments = appendSegment(segments, r.segment(court, active, prev, b))
		}
		prev = b
	}

	timeline := domain.PriceTimeline{
		CourtID:  court.ID,
		Date:     domain.DateOnly(date),
		Window:   window,
		Segments: segments,
	}
	for i := range timeline.Segments {
		s := &timeline.Segments[i]
		s.AmountCents = domain.ProportionalPrice(s.RatePerHourCents, s.Interval.DurationMinutes())
		timeline.TotalCents += s.AmountCents
	}
	return timeline, nil
}

// segment prices the elementary piece [from, to). No rule boundary falls strictly inside it,
// so the rule containing from covers all of it.
func (r *Resolver) segment(court domain.Court, active []domain.PriceRule, from, to int) domain.PriceSegment {
	seg := domain.PriceSegment{
		Interval:         domain.IntervalFromMinutes(from, to),
		RatePerHourCents: court.DefaultPriceCents,
		Tier:             domain.TierDefault,
	}
	if winner, ok := r.winnerAt(active, from); ok {
		id := winner.ID
		seg.RuleID = &id
		seg.RatePerHourCents = winner.PriceCents
		seg.Tier = winner.Tier()
	}
	return seg
}

// winnerAt returns the first rule in precedence order whose interval contains minute.
func (r *Resolver) winnerAt(active []domain.PriceRule, minute int) (domain.PriceRule, bool) {
	for _, rule := range active {
		if rule.Interval.StartMinutes() <= minute && minute < rule.Interval.EndMinutes() {
			return rule, true
		}
	}
	return domain.PriceRule{}, false
}

func appendSegment(segments []domain.PriceSegment, next domain.PriceSegment) []domain.PriceSegment {
	if n := len(segments); n > 0 {
		last := &segments[n-1]
		if sameSource(last, &next) && last.Interval.End == next.Interval.Start {
			last.Interval.End = next.Interval.End
			return segments
		}
	}
	return append(segments, next)
}

func sameSource(a, b *domain.PriceSegment) bool {
	if a.RatePerHourCents != b.RatePerHourCents || a.Tier != b.Tier {
		return false
	}
	if a.RuleID == nil || b.RuleID == nil {
		return a.RuleID == nil && b.RuleID == nil
	}
	return *a.RuleID == *b.RuleID
}
