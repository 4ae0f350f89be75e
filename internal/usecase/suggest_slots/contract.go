package suggest_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/trainerservice"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
	GetByClubID(ctx context.Context, clubID int64) ([]domain.Court, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByCourtsAndDates(ctx context.Context, courtIDs []int64, from, to time.Time) ([]*domain.Booking, error)
}

// RuleSource источник правил цены корта (кэш или репозиторий)
type RuleSource interface {
	GetAllByCourt(ctx context.Context, courtID int64) ([]domain.PriceRule, error)
}

// HolidayRepository интерфейс календаря праздников
type HolidayRepository interface {
	GetCalendar(ctx context.Context) (domain.HolidayCalendar, error)
}

// TrainerServiceClient интерфейс клиента для TrainerService
type TrainerServiceClient interface {
	GetAvailabilityWithGracefulDegradation(ctx context.Context, trainerID int64, from, to time.Time) (*trainerservice.Availability, error)
}

// Metrics бизнес-метрики поиска слотов
type Metrics interface {
	ObserveSuggestions(source string, count int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
