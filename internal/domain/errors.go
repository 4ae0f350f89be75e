package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the pricing engine and the layers above it.
var (
	// ErrInvalidInterval start >= end or malformed bounds. Checked before anything else.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrMutuallyExclusiveFields zero or more than one activation field set on a rule.
	ErrMutuallyExclusiveFields = errors.New("exactly one of dayOfWeek, ruleType, holidayId, date must be set")

	// ErrInvalidDayOfWeek dayOfWeek outside 0..6.
	ErrInvalidDayOfWeek = errors.New("dayOfWeek must be between 0 (Sunday) and 6 (Saturday)")

	// ErrInvalidPrice negative price.
	ErrInvalidPrice = errors.New("price must be a non-negative amount of cents")

	// ErrRuleConflict rule interval overlaps a rule of the same tier active on a shared date.
	ErrRuleConflict = errors.New("price rule conflict")

	// ErrSlotUnavailable requested booking overlaps an active booking.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrNotFound referenced rule, court or booking does not exist.
	ErrNotFound = errors.New("not found")
)

// RuleConflictError carries the id of the existing rule the candidate collides with.
type RuleConflictError struct {
	ConflictingRuleID string
}

func (e *RuleConflictError) Error() string {
	return fmt.Sprintf("%s: overlaps rule %s", ErrRuleConflict, e.ConflictingRuleID)
}

func (e *RuleConflictError) Unwrap() error {
	return ErrRuleConflict
}

// SlotUnavailableError carries the id of the booking occupying the slot.
type SlotUnavailableError struct {
	ConflictingBookingID int64
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("%s: overlaps booking %d", ErrSlotUnavailable, e.ConflictingBookingID)
}

func (e *SlotUnavailableError) Unwrap() error {
	return ErrSlotUnavailable
}
