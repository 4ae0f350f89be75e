package pricerules

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
	ruleRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/pricerule"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricerules/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

const (
	managerID  int64 = 10
	strangerID int64 = 99
)

type fakeRules struct {
	rules map[string]domain.PriceRule
	order []string
}

func newFakeRules(rules ...domain.PriceRule) *fakeRules {
	f := &fakeRules{rules: map[string]domain.PriceRule{}}
	for _, r := range rules {
		f.rules[r.ID] = r
		f.order = append(f.order, r.ID)
	}
	return f
}

func (f *fakeRules) Create(_ context.Context, rule *domain.PriceRule) (*domain.PriceRule, error) {
	f.rules[rule.ID] = *rule
	f.order = append(f.order, rule.ID)
	return rule, nil
}

func (f *fakeRules) GetByID(_ context.Context, id string) (*domain.PriceRule, error) {
	r, ok := f.rules[id]
	if !ok {
		return nil, ruleRepo.ErrRuleNotFound
	}
	return &r, nil
}

func (f *fakeRules) GetAllByCourt(_ context.Context, courtID int64) ([]domain.PriceRule, error) {
	out := []domain.PriceRule{}
	for _, id := range f.order {
		if r, ok := f.rules[id]; ok && r.CourtID == courtID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRules) Update(_ context.Context, rule *domain.PriceRule) (*domain.PriceRule, error) {
	if _, ok := f.rules[rule.ID]; !ok {
		return nil, ruleRepo.ErrRuleNotFound
	}
	f.rules[rule.ID] = *rule
	return rule, nil
}

func (f *fakeRules) Delete(_ context.Context, id string) error {
	if _, ok := f.rules[id]; !ok {
		return ruleRepo.ErrRuleNotFound
	}
	delete(f.rules, id)
	return nil
}

type fakeCache struct {
	source      *fakeRules
	invalidated []int64
}

func (c *fakeCache) GetAllByCourt(ctx context.Context, courtID int64) ([]domain.PriceRule, error) {
	return c.source.GetAllByCourt(ctx, courtID)
}

func (c *fakeCache) Invalidate(_ context.Context, courtID int64) error {
	c.invalidated = append(c.invalidated, courtID)
	return nil
}

type fakeCourts map[int64]domain.Court

func (f fakeCourts) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	c, ok := f[id]
	if !ok {
		return nil, courtRepo.ErrCourtNotFound
	}
	return &c, nil
}

type fakeHolidays domain.HolidayCalendar

func (f fakeHolidays) GetCalendar(context.Context) (domain.HolidayCalendar, error) {
	return domain.HolidayCalendar(f), nil
}

type fakeClubs struct{}

func (fakeClubs) GetClub(_ context.Context, clubID int64) (*domain.Club, error) {
	return &domain.Club{ID: clubID, Name: "Central", ManagerIDs: []int64{managerID}}, nil
}

type recordedEvent struct {
	eventType string
	key       string
	payload   interface{}
}

type fakePublisher struct {
	events []recordedEvent
}

func (p *fakePublisher) Publish(_ context.Context, eventType string, key string, payload interface{}) error {
	p.events = append(p.events, recordedEvent{eventType: eventType, key: key, payload: payload})
	return nil
}

type inlineTx struct{}

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type conflictCounter map[string]int

func (c conflictCounter) IncRuleConflict(reason string) { c[reason]++ }

type fixture struct {
	svc       *Service
	rules     *fakeRules
	cache     *fakeCache
	publisher *fakePublisher
	conflicts conflictCounter
}

func newFixture(rules ...domain.PriceRule) *fixture {
	repo := newFakeRules(rules...)
	cache := &fakeCache{source: repo}
	publisher := &fakePublisher{}
	conflicts := conflictCounter{}
	courts := fakeCourts{
		1: {ID: 1, ClubID: 100, Name: "Court 1", DefaultPriceCents: 4000, BusinessHours: domain.TimeInterval{Start: "08:00", End: "22:00"}},
	}
	holidays := fakeHolidays{{ID: "new-year", Name: "New Year"}}

	svc := NewService(repo, cache, courts, holidays, fakeClubs{}, publisher, inlineTx{}, conflicts, logger.Nop())
	return &fixture{svc: svc, rules: repo, cache: cache, publisher: publisher, conflicts: conflicts}
}

func mondayRule(start, end string, price int64) models.RuleFields {
	return models.RuleFields{DayOfWeek: ptr.Ptr(1), StartTime: start, EndTime: end, PriceCents: price}
}

func TestService_CreateAndList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &models.CreateRuleRequest{UserID: managerID, CourtID: 1, RuleFields: mondayRule("09:00", "12:00", 6000)})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "WEEKDAY_OF_WEEK", created.Kind)
	assert.Equal(t, int64(6000), created.PriceCents)

	assert.Equal(t, []int64{1}, f.cache.invalidated)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "price_rule.changed", f.publisher.events[0].eventType)
	assert.Equal(t, "1", f.publisher.events[0].key)
	assert.Equal(t, models.RuleChangedEvent{Action: "created", RuleID: created.ID, CourtID: 1}, f.publisher.events[0].payload)

	list, err := f.svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list.Rules, 1)
	assert.Equal(t, created.ID, list.Rules[0].ID)
}

func TestService_CreateRejectsConflict(t *testing.T) {
	existing := domain.PriceRule{
		ID: "existing", CourtID: 1, Activation: domain.OnDayOfWeek{Day: 1},
		Interval: domain.TimeInterval{Start: "09:00", End: "12:00"}, PriceCents: 6000,
	}
	f := newFixture(existing)

	_, err := f.svc.Create(context.Background(), &models.CreateRuleRequest{UserID: managerID, CourtID: 1, RuleFields: mondayRule("11:00", "13:00", 7000)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRuleConflict)

	var conflict *domain.RuleConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "existing", conflict.ConflictingRuleID)
	assert.Equal(t, 1, f.conflicts["overlap"])
	assert.Empty(t, f.publisher.events)
	assert.Len(t, f.rules.rules, 1)
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields models.RuleFields
		want   error
	}{
		{
			name:   "inverted interval",
			fields: mondayRule("12:00", "09:00", 5000),
			want:   domain.ErrInvalidInterval,
		},
		{
			name:   "two activation fields",
			fields: models.RuleFields{DayOfWeek: ptr.Ptr(1), RuleType: ptr.Ptr("WEEKDAYS"), StartTime: "09:00", EndTime: "10:00"},
			want:   domain.ErrMutuallyExclusiveFields,
		},
		{
			name:   "no activation field",
			fields: models.RuleFields{StartTime: "09:00", EndTime: "10:00"},
			want:   domain.ErrMutuallyExclusiveFields,
		},
		{
			name:   "negative price",
			fields: mondayRule("09:00", "10:00", -1),
			want:   domain.ErrInvalidPrice,
		},
		{
			name:   "bad date",
			fields: models.RuleFields{Date: ptr.Ptr("25.12.2024"), StartTime: "09:00", EndTime: "10:00"},
			want:   ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Create(context.Background(), &models.CreateRuleRequest{UserID: managerID, CourtID: 1, RuleFields: tt.fields})
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_CreateChecksAccessAndReferences(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &models.CreateRuleRequest{UserID: strangerID, CourtID: 1, RuleFields: mondayRule("09:00", "10:00", 5000)})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.Create(ctx, &models.CreateRuleRequest{UserID: managerID, CourtID: 42, RuleFields: mondayRule("09:00", "10:00", 5000)})
	assert.ErrorIs(t, err, ErrCourtNotFound)

	holiday := models.RuleFields{HolidayID: ptr.Ptr("unknown"), StartTime: "09:00", EndTime: "10:00", PriceCents: 9000}
	_, err = f.svc.Create(ctx, &models.CreateRuleRequest{UserID: managerID, CourtID: 1, RuleFields: holiday})
	assert.ErrorIs(t, err, ErrHolidayNotFound)

	holiday.HolidayID = ptr.Ptr("new-year")
	created, err := f.svc.Create(ctx, &models.CreateRuleRequest{UserID: managerID, CourtID: 1, RuleFields: holiday})
	require.NoError(t, err)
	assert.Equal(t, "HOLIDAY", created.Kind)
}

func TestService_UpdateIgnoresReplacedRule(t *testing.T) {
	existing := domain.PriceRule{
		ID: "r1", CourtID: 1, Activation: domain.OnDayOfWeek{Day: 1},
		Interval: domain.TimeInterval{Start: "09:00", End: "12:00"}, PriceCents: 6000,
	}
	other := domain.PriceRule{
		ID: "r2", CourtID: 1, Activation: domain.OnDayOfWeek{Day: 1},
		Interval: domain.TimeInterval{Start: "14:00", End: "16:00"}, PriceCents: 6000,
	}
	f := newFixture(existing, other)
	ctx := context.Background()

	updated, err := f.svc.Update(ctx, &models.UpdateRuleRequest{UserID: managerID, RuleID: "r1", RuleFields: mondayRule("10:00", "13:00", 6500)})
	require.NoError(t, err)
	assert.Equal(t, "r1", updated.ID)
	assert.Equal(t, "10:00", updated.StartTime)
	assert.Equal(t, int64(6500), f.rules.rules["r1"].PriceCents)

	_, err = f.svc.Update(ctx, &models.UpdateRuleRequest{UserID: managerID, RuleID: "r1", RuleFields: mondayRule("10:00", "15:00", 6500)})
	assert.ErrorIs(t, err, domain.ErrRuleConflict)

	_, err = f.svc.Update(ctx, &models.UpdateRuleRequest{UserID: managerID, RuleID: "missing", RuleFields: mondayRule("10:00", "11:00", 6500)})
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestService_Delete(t *testing.T) {
	existing := domain.PriceRule{
		ID: "r1", CourtID: 1, Activation: domain.OnWeekends{},
		Interval: domain.TimeInterval{Start: "09:00", End: "12:00"}, PriceCents: 6000,
	}
	f := newFixture(existing)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Delete(ctx, "r1", strangerID), ErrAccessDenied)
	require.NoError(t, f.svc.Delete(ctx, "r1", managerID))
	assert.Empty(t, f.rules.rules)
	assert.ErrorIs(t, f.svc.Delete(ctx, "r1", managerID), ErrRuleNotFound)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, models.RuleChangedEvent{Action: "deleted", RuleID: "r1", CourtID: 1}, f.publisher.events[0].payload)
}
