package suggest_slots

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.DurationMinutes < domain.MinBookingDurationMinutes || req.DurationMinutes > domain.MaxBookingDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingDurationMinutes, domain.MaxBookingDurationMinutes)
	}

	if req.Limit < 0 || req.Limit > domain.MaxSuggestionLimit {
		return fmt.Errorf("%w: limit must be between 0 and %d", ErrInvalidInput, domain.MaxSuggestionLimit)
	}

	if req.TrainerID != nil && *req.TrainerID <= 0 {
		return fmt.Errorf("%w: trainerID must be positive", ErrInvalidInput)
	}

	return nil
}

// requestedInterval строит интервал запроса, конец не может выходить за 24:00
func requestedInterval(req *Request) (domain.TimeInterval, error) {
	end, err := req.StartTime.AddMinutes(req.DurationMinutes)
	if err != nil {
		return domain.TimeInterval{}, fmt.Errorf("%w: %w: slot must end by 24:00", ErrInvalidInput, domain.ErrInvalidInterval)
	}
	interval := domain.TimeInterval{Start: req.StartTime, End: end}
	if err := interval.Validate(); err != nil {
		return domain.TimeInterval{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return interval, nil
}
