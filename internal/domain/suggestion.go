package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Suggestion is an alternative free slot offered when a request conflicts.
type Suggestion struct {
	Date      time.Time
	Time      types.TimeString
	Interval  TimeInterval
	CourtID   int64
	CourtName string
}

// TrainerDay is the working time of a trainer on one date.
type TrainerDay struct {
	Working []TimeInterval
	Busy    []TimeInterval
}

// Covers reports whether the trainer works through all of interval and is not busy in it.
func (d TrainerDay) Covers(interval TimeInterval) bool {
	inWorkingWindow := false
	for _, w := range d.Working {
		if w.ContainsInterval(interval) {
			inWorkingWindow = true
			break
		}
	}
	if !inWorkingWindow {
		return false
	}
	for _, b := range d.Busy {
		if b.Overlaps(interval) {
			return false
		}
	}
	return true
}
