package get_price

import (
	"context"

	getPriceTimeline "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_price_timeline"
)

type PriceUseCase interface {
	Price(ctx context.Context, req *getPriceTimeline.PriceRequest) (*getPriceTimeline.PriceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
