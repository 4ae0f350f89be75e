package rules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

const keyPrefix = "court_rules:"

// Cache read-through кэш правил корта поверх Redis
// Ошибки Redis не ломают запрос: логируем и идем в источник
type Cache struct {
	source  RuleSource
	store   Store
	ttl     time.Duration
	logger  Logger
	metrics Metrics
}

// NewCache создает кэш. metrics может быть nil
func NewCache(source RuleSource, store Store, ttl time.Duration, logger Logger, metrics Metrics) *Cache {
	return &Cache{
		source:  source,
		store:   store,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// GetAllByCourt возвращает правила корта из кэша или из источника
// Внутри транзакции кэш не используется: нужны заблокированные строки из БД
func (c *Cache) GetAllByCourt(ctx context.Context, courtID int64) ([]domain.PriceRule, error) {
	if dbmetrics.IsInTransaction(ctx) {
		return c.source.GetAllByCourt(ctx, courtID)
	}

	key := cacheKey(courtID)
	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		rules, decodeErr := decodeRules(raw)
		if decodeErr == nil {
			c.lookup("hit")
			return rules, nil
		}
		c.logger.Warn("RulesCache: drop corrupted entry %s: %v", key, decodeErr)
		c.lookup("error")
	case errors.Is(err, ErrCacheMiss):
		c.lookup("miss")
	default:
		c.logger.Warn("RulesCache: get %s failed, falling back to source: %v", key, err)
		c.lookup("error")
	}

	rules, err := c.source.GetAllByCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	encoded, err := encodeRules(rules)
	if err != nil {
		c.logger.Error("RulesCache: encode rules of court %d: %v", courtID, err)
		return rules, nil
	}
	if err := c.store.Set(ctx, key, encoded, c.ttl); err != nil {
		c.logger.Warn("RulesCache: set %s failed: %v", key, err)
	}

	return rules, nil
}

// Invalidate удаляет закэшированные правила корта
func (c *Cache) Invalidate(ctx context.Context, courtID int64) error {
	if err := c.store.Del(ctx, cacheKey(courtID)); err != nil {
		c.logger.Warn("RulesCache: invalidate court %d failed: %v", courtID, err)
		return err
	}
	return nil
}

func (c *Cache) lookup(result string) {
	if c.metrics != nil {
		c.metrics.IncCacheLookup(result)
	}
}

func cacheKey(courtID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, courtID)
}

// cachedRule плоская JSON-форма правила
type cachedRule struct {
	ID         string           `json:"id"`
	CourtID    int64            `json:"courtId"`
	DayOfWeek  *int             `json:"dayOfWeek,omitempty"`
	RuleType   *domain.RuleKind `json:"ruleType,omitempty"`
	HolidayID  *string          `json:"holidayId,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
	Start      types.TimeString `json:"start"`
	End        types.TimeString `json:"end"`
	PriceCents int64            `json:"priceCents"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

func encodeRules(rules []domain.PriceRule) (string, error) {
	out := make([]cachedRule, 0, len(rules))
	for _, r := range rules {
		fields := domain.FieldsOf(r.Activation)
		out = append(out, cachedRule{
			ID:         r.ID,
			CourtID:    r.CourtID,
			DayOfWeek:  fields.DayOfWeek,
			RuleType:   fields.RuleType,
			HolidayID:  fields.HolidayID,
			Date:       fields.Date,
			Start:      r.Interval.Start,
			End:        r.Interval.End,
			PriceCents: r.PriceCents,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeRules(raw string) ([]domain.PriceRule, error) {
	var cached []cachedRule
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	rules := make([]domain.PriceRule, 0, len(cached))
	for _, c := range cached {
		activation, err := domain.ActivationFields{
			DayOfWeek: c.DayOfWeek,
			RuleType:  c.RuleType,
			HolidayID: c.HolidayID,
			Date:      c.Date,
		}.Activation()
		if err != nil {
			return nil, fmt.Errorf("%w: rule %s: %v", ErrDecode, c.ID, err)
		}
		rules = append(rules, domain.PriceRule{
			ID:         c.ID,
			CourtID:    c.CourtID,
			Activation: activation,
			Interval:   domain.TimeInterval{Start: c.Start, End: c.End},
			PriceCents: c.PriceCents,
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
		})
	}
	return rules, nil
}

// RedisStore адаптер *redis.Client к Store
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore создает Store поверх клиента Redis
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// NopStore хранилище без кэширования, используется при выключенном Redis
type NopStore struct{}

func (NopStore) Get(context.Context, string) (string, error) { return "", ErrCacheMiss }

func (NopStore) Set(context.Context, string, string, time.Duration) error { return nil }

func (NopStore) Del(context.Context, ...string) error { return nil }
