package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

var (
	errParseDate = errors.New("invalid bookingDate")
	errParseTime = errors.New("invalid startTime")
)

// CreateBookingRequest HTTP request model
// trainerId превращает быстрое бронирование в заявку на тренировку
type CreateBookingRequest struct {
	CourtID         int64   `json:"courtId"`
	BookingDate     string  `json:"bookingDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	TrainerID       *int64  `json:"trainerId,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID               int64   `json:"id"`
	CourtID          int64   `json:"courtId"`
	UserID           int64   `json:"userId"`
	TrainerID        *int64  `json:"trainerId,omitempty"`
	BookingDate      string  `json:"bookingDate"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	Status           string  `json:"status"`
	PriceCents       int64   `json:"priceCents"`
	RatePerHourCents int64   `json:"ratePerHourCents"`
	PriceRuleID      *string `json:"priceRuleId,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// SlotUnavailableResponse тело ответа 409 с альтернативными слотами
type SlotUnavailableResponse struct {
	Code                 int                  `json:"code"`
	Message              string               `json:"message"`
	Reason               string               `json:"reason"`
	ConflictingBookingID *int64               `json:"conflictingBookingId,omitempty"`
	Suggestions          []SuggestionResponse `json:"suggestions"`
}

// SuggestionResponse альтернативный свободный слот
type SuggestionResponse struct {
	CourtID   int64  `json:"courtId"`
	CourtName string `json:"courtName"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	// Парсим дату
	bookingDate, err := domain.ParseDate(r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errParseDate, err)
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errParseTime, err)
	}

	return &createBooking.Request{
		UserID:          userID,
		CourtID:         r.CourtID,
		Date:            bookingDate,
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
		TrainerID:       r.TrainerID,
		Notes:           r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:               resp.ID,
		CourtID:          resp.CourtID,
		UserID:           resp.UserID,
		TrainerID:        resp.TrainerID,
		BookingDate:      resp.BookingDate.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		EndTime:          resp.EndTime.String(),
		Status:           resp.Status,
		PriceCents:       resp.PriceCents,
		RatePerHourCents: resp.RatePerHourCents,
		PriceRuleID:      resp.PriceRuleID,
		Notes:            resp.Notes,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}
}

// FromUnavailableError формирует тело 409 из ошибки use case
func FromUnavailableError(status int, message string, err *createBooking.UnavailableError) *SlotUnavailableResponse {
	resp := &SlotUnavailableResponse{
		Code:        status,
		Message:     message,
		Reason:      err.Reason,
		Suggestions: make([]SuggestionResponse, 0, len(err.Suggestions)),
	}
	if err.ConflictingBookingID != 0 {
		id := err.ConflictingBookingID
		resp.ConflictingBookingID = &id
	}
	for _, s := range err.Suggestions {
		resp.Suggestions = append(resp.Suggestions, SuggestionResponse{
			CourtID:   s.CourtID,
			CourtName: s.CourtName,
			Date:      s.Date.Format(domain.DateFormat),
			StartTime: s.Interval.Start.String(),
			EndTime:   s.Interval.End.String(),
		})
	}
	return resp
}
