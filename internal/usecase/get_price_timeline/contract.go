package get_price_timeline

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// RuleSource источник правил цены корта (кэш или репозиторий)
type RuleSource interface {
	GetAllByCourt(ctx context.Context, courtID int64) ([]domain.PriceRule, error)
}

// HolidayRepository интерфейс календаря праздников
type HolidayRepository interface {
	GetCalendar(ctx context.Context) (domain.HolidayCalendar, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
