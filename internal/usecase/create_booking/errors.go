package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("create_booking: court not found")

	// ErrTrainerNotFound возвращается, когда тренер не найден
	ErrTrainerNotFound = errors.New("create_booking: trainer not found")

	// ErrInvalidDate возвращается при бронировании на прошедшую дату
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrTooLateToBook возвращается, когда время начала уже прошло
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrOutsideBusinessHours возвращается, когда слот выходит за часы работы корта
	ErrOutsideBusinessHours = errors.New("create_booking: slot is outside court business hours")

	// ErrSlotNotAvailable возвращается, когда слот занят или тренер недоступен
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// Причины недоступности слота
const (
	ReasonBooked  = "booked"
	ReasonTrainer = "trainer"
)

// UnavailableError слот недоступен, вместе с альтернативами
// Раскрывается в ErrSlotNotAvailable и domain.ErrSlotUnavailable
type UnavailableError struct {
	Reason               string
	ConflictingBookingID int64 // 0, если причина не в бронировании
	Suggestions          []domain.Suggestion
}

func (e *UnavailableError) Error() string {
	if e.Reason == ReasonBooked {
		return fmt.Sprintf("%s: overlaps booking %d", ErrSlotNotAvailable, e.ConflictingBookingID)
	}
	return fmt.Sprintf("%s: trainer is not available", ErrSlotNotAvailable)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrSlotNotAvailable, domain.ErrSlotUnavailable}
}
