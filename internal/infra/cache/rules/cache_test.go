package rules

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
)

type memoryStore struct {
	data   map[string]string
	getErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value string, _ time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

type countingSource struct {
	rules []domain.PriceRule
	calls int
}

func (s *countingSource) GetAllByCourt(_ context.Context, _ int64) ([]domain.PriceRule, error) {
	s.calls++
	return s.rules, nil
}

type lookups map[string]int

func (l lookups) IncCacheLookup(result string) { l[result]++ }

func sampleRules() []domain.PriceRule {
	return []domain.PriceRule{
		{ID: "a", CourtID: 1, Activation: domain.OnWeekdays{}, Interval: domain.TimeInterval{Start: "09:00", End: "21:00"}, PriceCents: 5000},
		{ID: "b", CourtID: 1, Activation: domain.OnDate{Date: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)}, Interval: domain.TimeInterval{Start: "09:00", End: "18:00"}, PriceCents: 7500},
		{ID: "c", CourtID: 1, Activation: domain.OnDayOfWeek{Day: time.Sunday}, Interval: domain.TimeInterval{Start: "10:00", End: "12:00"}, PriceCents: 6000},
	}
}

func TestCache_ReadThroughAndInvalidate(t *testing.T) {
	source := &countingSource{rules: sampleRules()}
	store := newMemoryStore()
	stats := lookups{}
	cache := NewCache(source, store, time.Minute, logger.Nop(), stats)
	ctx := context.Background()

	first, err := cache.GetAllByCourt(ctx, 1)
	require.NoError(t, err)
	second, err := cache.GetAllByCourt(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 1, stats["miss"])
	assert.Equal(t, 1, stats["hit"])
	require.Len(t, second, 3)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Activation, second[i].Activation)
		assert.Equal(t, first[i].Interval, second[i].Interval)
	}

	require.NoError(t, cache.Invalidate(ctx, 1))
	_, err = cache.GetAllByCourt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCache_FailsOpenOnStoreError(t *testing.T) {
	source := &countingSource{rules: sampleRules()}
	store := newMemoryStore()
	store.getErr = errors.New("connection refused")
	cache := NewCache(source, store, time.Minute, logger.Nop(), nil)

	rules, err := cache.GetAllByCourt(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, rules, 3)
}

func TestCache_BypassedInTransaction(t *testing.T) {
	source := &countingSource{rules: sampleRules()}
	store := newMemoryStore()
	cache := NewCache(source, store, time.Minute, logger.Nop(), nil)

	ctx := dbmetrics.WithTx(context.Background(), nopTx{})
	_, err := cache.GetAllByCourt(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, store.data)
}

func TestCache_CorruptedEntryIsReloaded(t *testing.T) {
	source := &countingSource{rules: sampleRules()}
	store := newMemoryStore()
	store.data[cacheKey(1)] = "{not json"
	cache := NewCache(source, store, time.Minute, logger.Nop(), nil)

	rules, err := cache.GetAllByCourt(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, rules, 3)
	assert.Equal(t, 1, source.calls)
}

type nopTx struct{}

func (nopTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) { return nil, nil }
func (nopTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) { return nil, nil }
func (nopTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row        { return nil }
func (nopTx) Commit() error                                                          { return nil }
func (nopTx) Rollback() error                                                        { return nil }
