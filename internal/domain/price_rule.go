package domain

import (
	"fmt"
	"time"
)

// RuleKind is the persisted discriminator of a price rule.
type RuleKind string

const (
	KindDayOfWeek RuleKind = "WEEKDAY_OF_WEEK"
	KindWeekdays  RuleKind = "WEEKDAYS"
	KindWeekends  RuleKind = "WEEKENDS"
	KindHoliday   RuleKind = "HOLIDAY"
	KindDate      RuleKind = "DATE"
)

// Tier is a rule precedence tier. Higher wins.
type Tier int

const (
	TierDefault Tier = iota
	TierBlanket
	TierDayOfWeek
	TierHoliday
	TierDate
)

func (t Tier) String() string {
	switch t {
	case TierBlanket:
		return "blanket"
	case TierDayOfWeek:
		return "day_of_week"
	case TierHoliday:
		return "holiday"
	case TierDate:
		return "date"
	default:
		return "default"
	}
}

// Activation is the condition deciding on which calendar dates a rule applies.
// Implemented only by the variants below.
type Activation interface {
	Kind() RuleKind
	Tier() Tier
	// ActiveOn reports whether the rule applies on date given the holidays falling on it.
	ActiveOn(date time.Time, holidays HolidayCalendar) bool
	// SharesDateWith reports whether both activations can hold on one calendar date.
	// Only meaningful within the same tier.
	SharesDateWith(other Activation) bool

	isActivation()
}

// OnDayOfWeek applies on one weekday. Day uses time.Weekday numbering (0=Sunday).
type OnDayOfWeek struct {
	Day time.Weekday
}

// OnWeekdays applies Monday through Friday.
type OnWeekdays struct{}

// OnWeekends applies Saturday and Sunday.
type OnWeekends struct{}

// OnHoliday applies on dates the calendar marks with HolidayID.
type OnHoliday struct {
	HolidayID string
}

// OnDate applies on one calendar date.
type OnDate struct {
	Date time.Time
}

func (OnDayOfWeek) Kind() RuleKind { return KindDayOfWeek }
func (OnWeekdays) Kind() RuleKind  { return KindWeekdays }
func (OnWeekends) Kind() RuleKind  { return KindWeekends }
func (OnHoliday) Kind() RuleKind   { return KindHoliday }
func (OnDate) Kind() RuleKind      { return KindDate }

func (OnDayOfWeek) Tier() Tier { return TierDayOfWeek }
func (OnWeekdays) Tier() Tier  { return TierBlanket }
func (OnWeekends) Tier() Tier  { return TierBlanket }
func (OnHoliday) Tier() Tier   { return TierHoliday }
func (OnDate) Tier() Tier      { return TierDate }

func (a OnDayOfWeek) ActiveOn(date time.Time, _ HolidayCalendar) bool {
	return date.Weekday() == a.Day
}

func (OnWeekdays) ActiveOn(date time.Time, _ HolidayCalendar) bool {
	return !IsWeekend(date.Weekday())
}

func (OnWeekends) ActiveOn(date time.Time, _ HolidayCalendar) bool {
	return IsWeekend(date.Weekday())
}

func (a OnHoliday) ActiveOn(date time.Time, holidays HolidayCalendar) bool {
	return holidays.Matches(a.HolidayID, date)
}

func (a OnDate) ActiveOn(date time.Time, _ HolidayCalendar) bool {
	return SameDate(a.Date, date)
}

func (a OnDayOfWeek) SharesDateWith(other Activation) bool {
	switch o := other.(type) {
	case OnDayOfWeek:
		return o.Day == a.Day
	case OnWeekdays:
		return !IsWeekend(a.Day)
	case OnWeekends:
		return IsWeekend(a.Day)
	case OnDate:
		return o.Date.Weekday() == a.Day
	case OnHoliday:
		return true
	}
	return false
}

func (OnWeekdays) SharesDateWith(other Activation) bool {
	switch o := other.(type) {
	case OnWeekdays:
		return true
	case OnWeekends:
		return false
	case OnDayOfWeek:
		return !IsWeekend(o.Day)
	case OnDate:
		return !IsWeekend(o.Date.Weekday())
	case OnHoliday:
		return true
	}
	return false
}

func (OnWeekends) SharesDateWith(other Activation) bool {
	switch o := other.(type) {
	case OnWeekends:
		return true
	case OnWeekdays:
		return false
	case OnDayOfWeek:
		return IsWeekend(o.Day)
	case OnDate:
		return IsWeekend(o.Date.Weekday())
	case OnHoliday:
		return true
	}
	return false
}

// SharesDateWith for holidays: two holiday rules share dates only when they reference the
// same holiday; against other kinds the holiday may fall on any date.
func (a OnHoliday) SharesDateWith(other Activation) bool {
	if o, ok := other.(OnHoliday); ok {
		return o.HolidayID == a.HolidayID
	}
	return other != nil
}

func (a OnDate) SharesDateWith(other Activation) bool {
	switch o := other.(type) {
	case OnDate:
		return SameDate(o.Date, a.Date)
	case nil:
		return false
	default:
		return o.SharesDateWith(a)
	}
}

func (OnDayOfWeek) isActivation() {}
func (OnWeekdays) isActivation()  {}
func (OnWeekends) isActivation()  {}
func (OnHoliday) isActivation()   {}
func (OnDate) isActivation()      {}

// PriceRule prices a time-of-day interval on the dates its Activation selects.
// PriceCents is per hour, in minor currency units.
type PriceRule struct {
	ID         string
	CourtID    int64
	Activation Activation
	Interval   TimeInterval
	PriceCents int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Kind returns the rule's discriminator.
func (r *PriceRule) Kind() RuleKind {
	return r.Activation.Kind()
}

// Tier returns the rule's precedence tier.
func (r *PriceRule) Tier() Tier {
	return r.Activation.Tier()
}

// ActivationFields is the flat, wire/storage shape of an activation: the form in which
// several fields can be set at once. Activation() is the only way into the sum type.
type ActivationFields struct {
	DayOfWeek *int
	RuleType  *RuleKind // WEEKDAYS or WEEKENDS
	HolidayID *string
	Date      *time.Time
}

// Activation converts the flat fields, failing with ErrMutuallyExclusiveFields unless
// exactly one is set.
func (f ActivationFields) Activation() (Activation, error) {
	set := 0
	if f.DayOfWeek != nil {
		set++
	}
	if f.RuleType != nil {
		set++
	}
	if f.HolidayID != nil {
		set++
	}
	if f.Date != nil {
		set++
	}
	if set != 1 {
		return nil, ErrMutuallyExclusiveFields
	}

	switch {
	case f.DayOfWeek != nil:
		if *f.DayOfWeek < 0 || *f.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidDayOfWeek, *f.DayOfWeek)
		}
		return OnDayOfWeek{Day: time.Weekday(*f.DayOfWeek)}, nil
	case f.RuleType != nil:
		switch *f.RuleType {
		case KindWeekdays:
			return OnWeekdays{}, nil
		case KindWeekends:
			return OnWeekends{}, nil
		default:
			return nil, fmt.Errorf("%w: ruleType must be %s or %s, got %q",
				ErrMutuallyExclusiveFields, KindWeekdays, KindWeekends, *f.RuleType)
		}
	case f.HolidayID != nil:
		if *f.HolidayID == "" {
			return nil, fmt.Errorf("%w: empty holidayId", ErrMutuallyExclusiveFields)
		}
		return OnHoliday{HolidayID: *f.HolidayID}, nil
	default:
		return OnDate{Date: DateOnly(*f.Date)}, nil
	}
}

// FieldsOf flattens an activation back to its storage shape.
func FieldsOf(a Activation) ActivationFields {
	switch v := a.(type) {
	case OnDayOfWeek:
		day := int(v.Day)
		return ActivationFields{DayOfWeek: &day}
	case OnWeekdays:
		kind := KindWeekdays
		return ActivationFields{RuleType: &kind}
	case OnWeekends:
		kind := KindWeekends
		return ActivationFields{RuleType: &kind}
	case OnHoliday:
		id := v.HolidayID
		return ActivationFields{HolidayID: &id}
	case OnDate:
		d := DateOnly(v.Date)
		return ActivationFields{Date: &d}
	}
	return ActivationFields{}
}

// IsWeekend reports Saturday or Sunday.
func IsWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}
