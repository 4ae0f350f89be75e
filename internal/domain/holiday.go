package domain

import "time"

// Holiday is a named calendar date. RecurringYearly holidays match on month and day.
type Holiday struct {
	ID              string
	Name            string
	Date            time.Time
	RecurringYearly bool
}

// FallsOn reports whether the holiday is observed on date.
func (h Holiday) FallsOn(date time.Time) bool {
	if h.RecurringYearly {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return SameDate(h.Date, date)
}

// HolidayCalendar is the set of holidays known to the resolver.
type HolidayCalendar []Holiday

// Matches reports whether holiday id is observed on date.
func (c HolidayCalendar) Matches(id string, date time.Time) bool {
	for _, h := range c {
		if h.ID == id && h.FallsOn(date) {
			return true
		}
	}
	return false
}
