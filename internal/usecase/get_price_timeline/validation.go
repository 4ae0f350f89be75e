package get_price_timeline

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

func validateTimelineRequest(req *TimelineRequest) (domain.TimeInterval, error) {
	if req.CourtID <= 0 {
		return domain.TimeInterval{}, fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return domain.TimeInterval{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	window, err := domain.NewTimeInterval(req.StartTime, req.EndTime)
	if err != nil {
		return domain.TimeInterval{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return window, nil
}

func validatePriceRequest(req *PriceRequest) error {
	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.DurationMinutes < domain.MinBookingDurationMinutes || req.DurationMinutes > domain.MaxBookingDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingDurationMinutes, domain.MaxBookingDurationMinutes)
	}
	return nil
}
