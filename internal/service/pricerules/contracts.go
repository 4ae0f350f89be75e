package pricerules

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// RuleRepository интерфейс репозитория правил цены
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.PriceRule) (*domain.PriceRule, error)
	GetByID(ctx context.Context, id string) (*domain.PriceRule, error)
	GetAllByCourt(ctx context.Context, courtID int64) ([]domain.PriceRule, error)
	Update(ctx context.Context, rule *domain.PriceRule) (*domain.PriceRule, error)
	Delete(ctx context.Context, id string) error
}

// RuleCache кэш правил корта (чтение и инвалидация после записи)
type RuleCache interface {
	GetAllByCourt(ctx context.Context, courtID int64) ([]domain.PriceRule, error)
	Invalidate(ctx context.Context, courtID int64) error
}

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// HolidayRepository интерфейс календаря праздников
type HolidayRepository interface {
	GetCalendar(ctx context.Context) (domain.HolidayCalendar, error)
}

// ClubServiceClient интерфейс клиента для ClubService
type ClubServiceClient interface {
	GetClub(ctx context.Context, clubID int64) (*domain.Club, error)
}

// EventPublisher публикация доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, payload interface{}) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики правил
type Metrics interface {
	IncRuleConflict(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
