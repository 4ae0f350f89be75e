package suggest_slots

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	suggestSlots "github.com/m04kA/SMC-CourtBookingService/internal/usecase/suggest_slots"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// SuggestionsResponse HTTP response model
type SuggestionsResponse struct {
	CourtID         int64          `json:"courtId"`
	Date            string         `json:"date"`
	StartTime       string         `json:"startTime"`
	DurationMinutes int            `json:"durationMinutes"`
	TrainerIgnored  bool           `json:"trainerIgnored,omitempty"`
	Suggestions     []SlotResponse `json:"suggestions"`
}

// SlotResponse предложенный слот
type SlotResponse struct {
	CourtID    int64  `json:"courtId"`
	CourtName  string `json:"courtName"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	PriceCents int64  `json:"priceCents"`
}

// ToUseCaseRequest формирует запрос use case из query параметров
// Обязательные: date, startTime, durationMinutes. Опциональные: trainerId, limit
func ToUseCaseRequest(courtID int64, query url.Values) (*suggestSlots.Request, error) {
	date, err := domain.ParseDate(query.Get("date"))
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	startTime, err := types.NewTimeStringFromString(query.Get("startTime"))
	if err != nil {
		return nil, fmt.Errorf("invalid startTime: %w", err)
	}
	duration, err := strconv.Atoi(query.Get("durationMinutes"))
	if err != nil {
		return nil, fmt.Errorf("invalid durationMinutes: %w", err)
	}

	req := &suggestSlots.Request{
		CourtID:         courtID,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: duration,
	}

	if trainerIDStr := query.Get("trainerId"); trainerIDStr != "" {
		trainerID, err := strconv.ParseInt(trainerIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid trainerId: %w", err)
		}
		req.TrainerID = &trainerID
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: %w", err)
		}
		req.Limit = limit
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *suggestSlots.Response) *SuggestionsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			CourtID:    s.CourtID,
			CourtName:  s.CourtName,
			Date:       s.Date.Format(domain.DateFormat),
			StartTime:  s.StartTime.String(),
			EndTime:    s.EndTime.String(),
			PriceCents: s.PriceCents,
		})
	}

	return &SuggestionsResponse{
		CourtID:         resp.CourtID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		TrainerIgnored:  resp.TrainerIgnored,
		Suggestions:     slots,
	}
}
