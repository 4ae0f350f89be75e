package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/engine"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.DurationMinutes < domain.MinBookingDurationMinutes || req.DurationMinutes > domain.MaxBookingDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingDurationMinutes, domain.MaxBookingDurationMinutes)
	}

	if req.TrainerID != nil && *req.TrainerID <= 0 {
		return fmt.Errorf("%w: trainerID must be positive", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// bookingInterval строит интервал бронирования
// Некорректный интервал остается в цепочке как domain.ErrInvalidInterval
func bookingInterval(start types.TimeString, durationMinutes int) (domain.TimeInterval, error) {
	if err := start.Validate(); err != nil {
		return domain.TimeInterval{}, fmt.Errorf("%w: %w: %v", ErrInvalidInput, domain.ErrInvalidInterval, err)
	}
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return domain.TimeInterval{}, fmt.Errorf("%w: %w: booking must end by 24:00", ErrInvalidInput, domain.ErrInvalidInterval)
	}
	interval := domain.TimeInterval{Start: start, End: end}
	if err := interval.Validate(); err != nil {
		return domain.TimeInterval{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return interval, nil
}

// validateDate проверяет, что дата не в прошлом
func validateDate(bookingDate time.Time, now time.Time) error {
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}
	return nil
}

// validateBookingTime проверяет, что на сегодня нельзя забронировать уже начавшийся слот
func validateBookingTime(bookingDate time.Time, startTime types.TimeString, now time.Time) error {
	// Если дата бронирования не сегодня, проверка не нужна
	if !domain.SameDate(bookingDate, now) {
		return nil
	}

	if startTime.IsBefore(types.NewTimeString(now)) {
		return fmt.Errorf("%w: slot starts at %s", ErrTooLateToBook, startTime)
	}

	return nil
}

// validateBusinessHours проверяет, что слот целиком внутри часов работы корта
func validateBusinessHours(court *domain.Court, interval domain.TimeInterval) error {
	hours := engine.BusinessHours(*court)
	if !hours.ContainsInterval(interval) {
		return fmt.Errorf("%w: court %d is open %s", ErrOutsideBusinessHours, court.ID, hours)
	}
	return nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return domain.DateOnly(date).Before(domain.DateOnly(now))
}
