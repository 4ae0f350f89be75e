package domain

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// TimeInterval is a half-open time-of-day range [Start, End).
// Intervals never wrap past midnight; "24:00" is accepted as End.
type TimeInterval struct {
	Start types.TimeString
	End   types.TimeString
}

// NewTimeInterval builds and validates an interval.
func NewTimeInterval(start, end types.TimeString) (TimeInterval, error) {
	i := TimeInterval{Start: start, End: end}
	if err := i.Validate(); err != nil {
		return TimeInterval{}, err
	}
	return i, nil
}

// IntervalFromMinutes builds an interval from minute offsets without validation.
func IntervalFromMinutes(start, end int) TimeInterval {
	return TimeInterval{Start: types.MustFromMinutes(start), End: types.MustFromMinutes(end)}
}

// Validate fails with ErrInvalidInterval when either bound is malformed or Start >= End.
func (i TimeInterval) Validate() error {
	if err := i.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidInterval, err)
	}
	if err := i.End.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidInterval, err)
	}
	if i.Start.Minutes() >= types.MinutesPerDay {
		return fmt.Errorf("%w: start %s is end of day", ErrInvalidInterval, i.Start)
	}
	if i.StartMinutes() >= i.EndMinutes() {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidInterval, i.Start, i.End)
	}
	return nil
}

// Overlaps reports whether the two intervals share at least one minute.
// Touching intervals (a.End == b.Start) do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.StartMinutes() < other.EndMinutes() && other.StartMinutes() < i.EndMinutes()
}

// Contains reports whether Start <= point < End.
func (i TimeInterval) Contains(point types.TimeString) bool {
	p := point.Minutes()
	return i.StartMinutes() <= p && p < i.EndMinutes()
}

// ContainsInterval reports whether other lies fully inside i.
func (i TimeInterval) ContainsInterval(other TimeInterval) bool {
	return i.StartMinutes() <= other.StartMinutes() && other.EndMinutes() <= i.EndMinutes()
}

func (i TimeInterval) StartMinutes() int { return i.Start.Minutes() }

func (i TimeInterval) EndMinutes() int { return i.End.Minutes() }

// DurationMinutes returns End - Start.
func (i TimeInterval) DurationMinutes() int {
	return i.EndMinutes() - i.StartMinutes()
}

func (i TimeInterval) String() string {
	return fmt.Sprintf("%s-%s", i.Start, i.End)
}

// Overlaps is the package-level form of TimeInterval.Overlaps.
func Overlaps(a, b TimeInterval) bool {
	return a.Overlaps(b)
}

// Contains is the package-level form of TimeInterval.Contains.
func Contains(interval TimeInterval, point types.TimeString) bool {
	return interval.Contains(point)
}
