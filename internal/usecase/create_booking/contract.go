package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/trainerservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByCourtsWithFilter(ctx context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error)
}

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// RuleSource источник правил цены корта (кэш или репозиторий)
// Внутри транзакции кэш читает напрямую из БД
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

// SlotSuggester поиск альтернатив при конфликте
type SlotSuggester interface {
	Alternatives(ctx context.Context, court domain.Court, date time.Time, interval domain.TimeInterval, trainerID *int64) ([]domain.Suggestion, error)
}

// EventPublisher публикация доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, payload interface{}) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	IncBookingConflict(kind string)
	IncBookingCreated(kind string)
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
