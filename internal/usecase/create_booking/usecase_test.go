package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/trainerservice"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

var monday = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func iv(start, end string) domain.TimeInterval {
	return domain.TimeInterval{Start: types.TimeString(start), End: types.TimeString(end)}
}

type fakeBookings struct {
	items   []*domain.Booking
	created []*domain.Booking
}

func (f *fakeBookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	cp := *b
	cp.ID = int64(100 + len(f.created))
	cp.CreatedAt = monday
	cp.UpdatedAt = monday
	f.created = append(f.created, &cp)
	f.items = append(f.items, &cp)
	return &cp, nil
}

func (f *fakeBookings) GetByCourtsWithFilter(_ context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.items {
		for _, id := range filter.CourtIDs {
			if b.CourtID == id {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

type fakeCourts []domain.Court

func (f fakeCourts) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	for _, c := range f {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, courtRepo.ErrCourtNotFound
}

type fakeRules map[int64][]domain.PriceRule

func (f fakeRules) GetAllByCourt(_ context.Context, courtID int64) ([]domain.PriceRule, error) {
	return f[courtID], nil
}

type fakeHolidays struct{}

func (fakeHolidays) GetCalendar(context.Context) (domain.HolidayCalendar, error) {
	return nil, nil
}

type fakeTrainers struct {
	availability *trainerservice.Availability
	err          error
}

func (f fakeTrainers) GetAvailabilityWithGracefulDegradation(context.Context, int64, time.Time, time.Time) (*trainerservice.Availability, error) {
	return f.availability, f.err
}

type fakeSuggester struct {
	suggestions []domain.Suggestion
	err         error
	calls       int
}

func (f *fakeSuggester) Alternatives(context.Context, domain.Court, time.Time, domain.TimeInterval, *int64) ([]domain.Suggestion, error) {
	f.calls++
	return f.suggestions, f.err
}

type fakePublisher struct {
	types []string
	keys  []string
}

func (p *fakePublisher) Publish(_ context.Context, eventType string, key string, _ interface{}) error {
	p.types = append(p.types, eventType)
	p.keys = append(p.keys, key)
	return nil
}

type inlineTx struct{}

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	conflicts map[string]int
	created   map[string]int
}

func (m *fakeMetrics) IncBookingConflict(kind string) { m.conflicts[kind]++ }
func (m *fakeMetrics) IncBookingCreated(kind string)  { m.created[kind]++ }

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

type testEnv struct {
	uc        *UseCase
	bookings  *fakeBookings
	suggester *fakeSuggester
	publisher *fakePublisher
	metrics   *fakeMetrics
}

func newTestEnv(trainers fakeTrainers) *testEnv {
	courts := fakeCourts{
		{ID: 1, ClubID: 10, Name: "Court 1", DefaultPriceCents: 3000, BusinessHours: iv("08:00", "22:00")},
	}
	rules := fakeRules{
		1: {{ID: "evening", CourtID: 1, Activation: domain.OnWeekdays{}, Interval: iv("18:00", "22:00"), PriceCents: 6000}},
	}
	env := &testEnv{
		bookings: &fakeBookings{items: []*domain.Booking{
			{ID: 1, CourtID: 1, Date: monday, Interval: iv("10:00", "11:00"), Status: domain.StatusReserved},
			{ID: 2, CourtID: 1, Date: monday, Interval: iv("12:00", "13:00"), Status: domain.StatusCancelled},
		}},
		suggester: &fakeSuggester{suggestions: []domain.Suggestion{
			{Date: monday, Time: "11:00", Interval: iv("11:00", "12:00"), CourtID: 1, CourtName: "Court 1"},
		}},
		publisher: &fakePublisher{},
		metrics:   &fakeMetrics{conflicts: map[string]int{}, created: map[string]int{}},
	}
	env.uc = NewUseCase(env.bookings, courts, rules, fakeHolidays{}, trainers,
		env.suggester, env.publisher, inlineTx{}, env.metrics, logger.Nop())
	env.uc.timeProvider = fixedTime(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	return env
}

func TestExecute_QuickBooking(t *testing.T) {
	env := newTestEnv(fakeTrainers{})

	resp, err := env.uc.Execute(context.Background(), &Request{
		UserID: 5, CourtID: 1, Date: monday, StartTime: "17:30", DurationMinutes: 90, Notes: ptr.Ptr("doubles"),
	})
	require.NoError(t, err)

	assert.Equal(t, "reserved", resp.Status)
	assert.Equal(t, types.TimeString("19:00"), resp.EndTime)
	// ставка определяется началом слота: 17:30 без правил, 3000 в час
	assert.Equal(t, int64(4500), resp.PriceCents)
	assert.Equal(t, int64(3000), resp.RatePerHourCents)
	assert.Nil(t, resp.PriceRuleID)

	require.Len(t, env.bookings.created, 1)
	assert.Equal(t, int64(4500), env.bookings.created[0].PriceCents)
	assert.Equal(t, []string{"booking.created"}, env.publisher.types)
	assert.Equal(t, []string{"1"}, env.publisher.keys)
	assert.Equal(t, 1, env.metrics.created["quick"])
}

func TestExecute_PriceRuleSnapshot(t *testing.T) {
	env := newTestEnv(fakeTrainers{})

	resp, err := env.uc.Execute(context.Background(), &Request{
		UserID: 5, CourtID: 1, Date: monday, StartTime: "18:00", DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6000), resp.PriceCents)
	require.NotNil(t, resp.PriceRuleID)
	assert.Equal(t, "evening", *resp.PriceRuleID)
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	env := newTestEnv(fakeTrainers{})

	_, err := env.uc.Execute(context.Background(), &Request{
		UserID: 5, CourtID: 1, Date: monday, StartTime: "12:00", DurationMinutes: 60,
	})
	assert.NoError(t, err)
}

func TestExecute_ConflictReturnsSuggestions(t *testing.T) {
	env := newTestEnv(fakeTrainers{})

	_, err := env.uc.Execute(context.Background(), &Request{
		UserID: 5, CourtID: 1, Date: monday, StartTime: "10:30", DurationMinutes: 60,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)

	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, ReasonBooked, unavailable.Reason)
	assert.Equal(t, int64(1), unavailable.ConflictingBookingID)
	assert.Len(t, unavailable.Suggestions, 1)

	assert.Empty(t, env.bookings.created)
	assert.Empty(t, env.publisher.types)
	assert.Equal(t, 1, env.metrics.conflicts[ReasonBooked])
}

func TestExecute_ConflictWithoutAlternatives(t *testing.T) {
	env := newTestEnv(fakeTrainers{})
	env.suggester.err = errors.New("db is down")

	_, err := env.uc.Execute(context.Background(), &Request{
		UserID: 5, CourtID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})

	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.NotNil(t, unavailable.Suggestions)
	assert.Empty(t, unavailable.Suggestions)
}

func TestExecute_TrainingRequest(t *testing.T) {
	availability := &trainerservice.Availability{
		TrainerID: 7,
		Days: []trainerservice.Day{
			{Date: "2024-06-10", Working: []trainerservice.Interval{{Start: "14:00", End: "18:00"}}, Busy: []trainerservice.Interval{{Start: "16:00", End: "17:00"}}},
		},
	}

	t.Run("trainer free", func(t *testing.T) {
		env := newTestEnv(fakeTrainers{availability: availability})
		resp, err := env.uc.Execute(context.Background(), &Request{
			UserID: 5, CourtID: 1, Date: monday, StartTime: "14:00", DurationMinutes: 60, TrainerID: ptr.Ptr(int64(7)),
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, int64(7), *resp.TrainerID)
		assert.Equal(t, 1, env.metrics.created["training"])
	})

	t.Run("trainer busy", func(t *testing.T) {
		env := newTestEnv(fakeTrainers{availability: availability})
		_, err := env.uc.Execute(context.Background(), &Request{
			UserID: 5, CourtID: 1, Date: monday, StartTime: "16:00", DurationMinutes: 60, TrainerID: ptr.Ptr(int64(7)),
		})
		var unavailable *UnavailableError
		require.True(t, errors.As(err, &unavailable))
		assert.Equal(t, ReasonTrainer, unavailable.Reason)
		assert.Equal(t, 1, env.suggester.calls)
		assert.Empty(t, env.bookings.created)
	})

	t.Run("trainer service degraded", func(t *testing.T) {
		env := newTestEnv(fakeTrainers{err: fmt.Errorf("%w: timeout", trainerservice.ErrServiceDegraded)})
		resp, err := env.uc.Execute(context.Background(), &Request{
			UserID: 5, CourtID: 1, Date: monday, StartTime: "20:00", DurationMinutes: 60, TrainerID: ptr.Ptr(int64(7)),
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
	})

	t.Run("trainer not found", func(t *testing.T) {
		env := newTestEnv(fakeTrainers{err: trainerservice.ErrTrainerNotFound})
		_, err := env.uc.Execute(context.Background(), &Request{
			UserID: 5, CourtID: 1, Date: monday, StartTime: "14:00", DurationMinutes: 60, TrainerID: ptr.Ptr(int64(7)),
		})
		assert.ErrorIs(t, err, ErrTrainerNotFound)
	})
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "no user",
			req:     Request{CourtID: 1, Date: monday, StartTime: "12:00", DurationMinutes: 60},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "duration too short",
			req:     Request{UserID: 5, CourtID: 1, Date: monday, StartTime: "12:00", DurationMinutes: 10},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "ends after midnight",
			req:     Request{UserID: 5, CourtID: 1, Date: monday, StartTime: "23:30", DurationMinutes: 60},
			wantErr: domain.ErrInvalidInterval,
		},
		{
			name:    "past date",
			req:     Request{UserID: 5, CourtID: 1, Date: monday.AddDate(0, 0, -1), StartTime: "12:00", DurationMinutes: 60},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "slot already started",
			req:     Request{UserID: 5, CourtID: 1, Date: monday, StartTime: "08:30", DurationMinutes: 60},
			wantErr: ErrTooLateToBook,
		},
		{
			name:    "outside business hours",
			req:     Request{UserID: 5, CourtID: 1, Date: monday, StartTime: "21:30", DurationMinutes: 60},
			wantErr: ErrOutsideBusinessHours,
		},
		{
			name:    "unknown court",
			req:     Request{UserID: 5, CourtID: 2, Date: monday, StartTime: "12:00", DurationMinutes: 60},
			wantErr: ErrCourtNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(fakeTrainers{})
			_, err := env.uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.bookings.created)
		})
	}
}
