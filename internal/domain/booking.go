package domain

import (
	"time"
)

// BookingStatus represents the status of a court booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusReserved  BookingStatus = "reserved"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking occupies Interval on Date for one court.
// PriceCents is the price resolved at creation time, never recomputed from live rules.
type Booking struct {
	ID         int64
	CourtID    int64
	UserID     int64
	TrainerID  *int64 // set for training requests
	Date       time.Time
	Interval   TimeInterval
	Status     BookingStatus
	PriceCents int64
	RuleID     *string // rule that priced the start of the booking, nil for default price
	Notes      *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusReserved || b.Status == StatusConfirmed
}

// IsTraining returns true for bookings made through the training-request flow
func (b *Booking) IsTraining() bool {
	return b.TrainerID != nil
}

// ParseBookingStatus validates a status string
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusReserved, StatusConfirmed, StatusCancelled:
		return BookingStatus(s), true
	}
	return "", false
}

// CourtBookingsFilter фильтр для получения бронирований корта
type CourtBookingsFilter struct {
	CourtIDs        []int64        // Обязательный параметр, минимум один корт
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}
