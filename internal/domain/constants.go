package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Default availability search values
const (
	DefaultSuggestionLimit       = 3
	DefaultSuggestionStepMinutes = 30
	DefaultSuggestionHorizonDays = 7
	DefaultSlotDurationMinutes   = 60
)

// Default court business hours when a court has none configured
const (
	DefaultOpenTime  types.TimeString = "08:00"
	DefaultCloseTime types.TimeString = "22:00"
)

// Business validation constants
const (
	MinBookingDurationMinutes   = 15
	MaxBookingDurationMinutes   = 480 // 8 hours
	MaxSuggestionLimit          = 20
	MaxSuggestionHorizonDays    = 31
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DateOnly strips the time of day, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate compares calendar dates, ignoring time of day and location.
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
