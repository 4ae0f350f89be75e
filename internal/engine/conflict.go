package engine

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// CheckRuleConflict fails with *domain.RuleConflictError when candidate overlaps an existing
// rule of the same court and precedence tier that can be active on a common calendar date.
// Rules in different tiers never conflict: precedence decides between them at resolution.
// An existing rule with candidate's own ID is skipped so updates can be re-validated.
func CheckRuleConflict(courtID int64, candidate domain.PriceRule, existing []domain.PriceRule) error {
	if candidate.Activation == nil {
		return domain.ErrMutuallyExclusiveFields
	}

	for _, rule := range existing {
		if rule.Activation == nil || rule.CourtID != courtID || rule.ID == candidate.ID {
			continue
		}
		if rule.Tier() != candidate.Tier() {
			continue
		}
		if !candidate.Activation.SharesDateWith(rule.Activation) {
			continue
		}
		if candidate.Interval.Overlaps(rule.Interval) {
			return &domain.RuleConflictError{ConflictingRuleID: rule.ID}
		}
	}
	return nil
}

// CheckBookingConflict fails with *domain.SlotUnavailableError when a non-cancelled booking
// for the same court and date overlaps requested.
func CheckBookingConflict(courtID int64, date time.Time, requested domain.TimeInterval, existing []*domain.Booking) error {
	if err := requested.Validate(); err != nil {
		return err
	}

	for _, booking := range existing {
		if booking == nil || !booking.IsActive() {
			continue
		}
		if booking.CourtID != courtID || !domain.SameDate(booking.Date, date) {
			continue
		}
		if booking.Interval.Overlaps(requested) {
			return &domain.SlotUnavailableError{ConflictingBookingID: booking.ID}
		}
	}
	return nil
}
