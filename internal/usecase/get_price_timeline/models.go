package get_price_timeline

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// TimelineRequest запрос цены окна времени
type TimelineRequest struct {
	CourtID   int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Segment участок окна с единой ставкой
type Segment struct {
	StartTime        types.TimeString
	EndTime          types.TimeString
	RatePerHourCents int64
	AmountCents      int64
	RuleID           *string // nil - цена корта по умолчанию
	Tier             string
}

// TimelineResponse сегменты покрывают окно целиком, без разрывов
type TimelineResponse struct {
	CourtID    int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	Segments   []Segment
	TotalCents int64
}

// PriceRequest запрос цены бронирования с началом StartTime
type PriceRequest struct {
	CourtID         int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
}

// PriceResponse цена бронирования
type PriceResponse struct {
	CourtID          int64
	Date             time.Time
	StartTime        types.TimeString
	EndTime          types.TimeString
	DurationMinutes  int
	PriceCents       int64
	RatePerHourCents int64
	RuleID           *string
}
