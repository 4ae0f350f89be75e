package list_price_rules

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricerules/models"
)

type PriceRuleService interface {
	List(ctx context.Context, courtID int64) (*models.RuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
