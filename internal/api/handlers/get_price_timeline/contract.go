package get_price_timeline

import (
	"context"

	getPriceTimeline "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_price_timeline"
)

type PriceTimelineUseCase interface {
	Timeline(ctx context.Context, req *getPriceTimeline.TimelineRequest) (*getPriceTimeline.TimelineResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
