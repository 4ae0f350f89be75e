package get_price_timeline

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	getPriceTimeline "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_price_timeline"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

var errMissingParam = errors.New("missing required query parameter")

// TimelineResponse HTTP response model
type TimelineResponse struct {
	CourtID    int64             `json:"courtId"`
	Date       string            `json:"date"`
	StartTime  string            `json:"startTime"`
	EndTime    string            `json:"endTime"`
	TotalCents int64             `json:"totalCents"`
	Segments   []SegmentResponse `json:"segments"`
}

// SegmentResponse участок окна с единой ставкой
type SegmentResponse struct {
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	RatePerHourCents int64   `json:"ratePerHourCents"`
	AmountCents      int64   `json:"amountCents"`
	RuleID           *string `json:"ruleId,omitempty"`
	Tier             string  `json:"tier"`
}

// ToUseCaseRequest формирует запрос use case из query параметров date, startTime, endTime
func ToUseCaseRequest(courtID int64, query url.Values) (*getPriceTimeline.TimelineRequest, error) {
	dateStr, startStr, endStr := query.Get("date"), query.Get("startTime"), query.Get("endTime")
	if dateStr == "" || startStr == "" || endStr == "" {
		return nil, fmt.Errorf("%w: date, startTime and endTime are required", errMissingParam)
	}

	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	start, err := types.NewTimeStringFromString(startStr)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime: %w", err)
	}
	end, err := types.NewTimeStringFromString(endStr)
	if err != nil {
		return nil, fmt.Errorf("invalid endTime: %w", err)
	}

	return &getPriceTimeline.TimelineRequest{
		CourtID:   courtID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getPriceTimeline.TimelineResponse) *TimelineResponse {
	segments := make([]SegmentResponse, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, SegmentResponse{
			StartTime:        s.StartTime.String(),
			EndTime:          s.EndTime.String(),
			RatePerHourCents: s.RatePerHourCents,
			AmountCents:      s.AmountCents,
			RuleID:           s.RuleID,
			Tier:             s.Tier,
		})
	}

	return &TimelineResponse{
		CourtID:    resp.CourtID,
		Date:       resp.Date.Format(domain.DateFormat),
		StartTime:  resp.StartTime.String(),
		EndTime:    resp.EndTime.String(),
		TotalCents: resp.TotalCents,
		Segments:   segments,
	}
}
