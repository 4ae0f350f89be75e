package get_available_slots

import (
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string         `json:"date"`
	CourtID         int64          `json:"courtId"`
	DurationMinutes int            `json:"durationMinutes"`
	StepMinutes     int            `json:"stepMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse слот корта с ценой
type SlotResponse struct {
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Available  bool    `json:"available"`
	PriceCents int64   `json:"priceCents"`
	RuleID     *string `json:"ruleId,omitempty"`
}

// ToUseCaseRequest формирует запрос use case
func ToUseCaseRequest(courtID int64, dateStr string, durationMinutes int) (*getAvailableSlots.Request, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		CourtID:         courtID,
		Date:            date,
		DurationMinutes: durationMinutes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:  s.StartTime.String(),
			EndTime:    s.EndTime.String(),
			Available:  s.Available,
			PriceCents: s.PriceCents,
			RuleID:     s.RuleID,
		})
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		CourtID:         resp.CourtID,
		DurationMinutes: resp.DurationMinutes,
		StepMinutes:     resp.StepMinutes,
		Slots:           slots,
	}
}
