package rules

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// RuleSource источник правил, который кэшируется (репозиторий правил)
type RuleSource interface {
	GetAllByCourt(ctx context.Context, courtID int64) ([]domain.PriceRule, error)
}

// Store key-value хранилище кэша
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчик обращений к кэшу
type Metrics interface {
	IncCacheLookup(result string)
}
