package suggest_slots

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/engine"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/trainerservice"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

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

func (f fakeCourts) GetByClubID(_ context.Context, clubID int64) ([]domain.Court, error) {
	var out []domain.Court
	for _, c := range f {
		if c.ClubID == clubID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeBookings []*domain.Booking

func (f fakeBookings) GetByCourtsAndDates(context.Context, []int64, time.Time, time.Time) ([]*domain.Booking, error) {
	return f, nil
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

type fakeMetrics map[string]int

func (m fakeMetrics) ObserveSuggestions(source string, count int) { m[source] += count }

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

var monday = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func iv(start, end string) domain.TimeInterval {
	return domain.TimeInterval{Start: types.TimeString(start), End: types.TimeString(end)}
}

func newTestUseCase(trainers fakeTrainers) (*UseCase, fakeMetrics) {
	courts := fakeCourts{
		{ID: 1, ClubID: 10, Name: "Court 1", DefaultPriceCents: 3000, BusinessHours: iv("08:00", "22:00")},
		{ID: 2, ClubID: 10, Name: "Court 2", DefaultPriceCents: 3000, BusinessHours: iv("08:00", "22:00")},
	}
	bookings := fakeBookings{
		{ID: 1, CourtID: 1, Date: monday, Interval: iv("10:00", "11:00"), Status: domain.StatusReserved},
		{ID: 2, CourtID: 1, Date: monday, Interval: iv("11:00", "12:00"), Status: domain.StatusReserved},
		{ID: 3, CourtID: 2, Date: monday, Interval: iv("10:30", "11:30"), Status: domain.StatusReserved},
	}
	rules := fakeRules{
		1: {{ID: "wd", CourtID: 1, Activation: domain.OnWeekdays{}, Interval: iv("09:00", "21:00"), PriceCents: 5000}},
	}
	metrics := fakeMetrics{}

	uc := NewUseCase(courts, bookings, rules, fakeHolidays{}, trainers,
		engine.NewSuggester(engine.SuggesterConfig{Limit: 3, StepMinutes: 30, HorizonDays: 7}), metrics, logger.Nop())
	uc.timeProvider = fixedTime(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	return uc, metrics
}

func TestExecute_SuggestsPricedSlots(t *testing.T) {
	uc, metrics := newTestUseCase(fakeTrainers{})

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 60})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	assert.Equal(t, int64(2), resp.Slots[0].CourtID)
	assert.Equal(t, types.TimeString("11:30"), resp.Slots[0].StartTime)
	assert.Equal(t, int64(3000), resp.Slots[0].PriceCents)

	assert.Equal(t, int64(1), resp.Slots[1].CourtID)
	assert.Equal(t, types.TimeString("12:00"), resp.Slots[1].StartTime)
	assert.Equal(t, int64(5000), resp.Slots[1].PriceCents)

	assert.Equal(t, int64(2), resp.Slots[2].CourtID)
	assert.Equal(t, 3, metrics["suggest_slots"])
	assert.False(t, resp.TrainerIgnored)
}

func TestExecute_LimitOverride(t *testing.T) {
	uc, _ := newTestUseCase(fakeTrainers{})

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 60, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 1)
}

func TestExecute_TrainerDegradation(t *testing.T) {
	uc, _ := newTestUseCase(fakeTrainers{err: fmt.Errorf("%w: timeout", trainerservice.ErrServiceDegraded)})

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 60, TrainerID: ptr.Ptr(int64(7))})
	require.NoError(t, err)
	assert.True(t, resp.TrainerIgnored)
	assert.Len(t, resp.Slots, 3)

	uc, _ = newTestUseCase(fakeTrainers{err: trainerservice.ErrTrainerNotFound})
	_, err = uc.Execute(context.Background(), &Request{CourtID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 60, TrainerID: ptr.Ptr(int64(7))})
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}

func TestExecute_TrainerSchedule(t *testing.T) {
	availability := &trainerservice.Availability{
		TrainerID: 7,
		Days: []trainerservice.Day{
			{Date: "2024-06-10", Working: []trainerservice.Interval{{Start: "14:00", End: "16:00"}}},
		},
	}
	uc, _ := newTestUseCase(fakeTrainers{availability: availability})

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 60, TrainerID: ptr.Ptr(int64(7))})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	for _, s := range resp.Slots {
		assert.True(t, s.StartTime.Minutes() >= 14*60)
		assert.True(t, s.EndTime.Minutes() <= 16*60)
	}
}

func TestExecute_Validation(t *testing.T) {
	uc, _ := newTestUseCase(fakeTrainers{})

	tests := []struct {
		name string
		req  Request
	}{
		{name: "too short", req: Request{CourtID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 10}},
		{name: "past midnight", req: Request{CourtID: 1, Date: monday, StartTime: "23:30", DurationMinutes: 60}},
		{name: "bad time", req: Request{CourtID: 1, Date: monday, StartTime: "25:00", DurationMinutes: 60}},
		{name: "no court", req: Request{Date: monday, StartTime: "10:00", DurationMinutes: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := uc.Execute(context.Background(), &Request{CourtID: 42, Date: monday, StartTime: "10:00", DurationMinutes: 60})
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestAlternatives(t *testing.T) {
	uc, metrics := newTestUseCase(fakeTrainers{})
	court := domain.Court{ID: 1, ClubID: 10, Name: "Court 1", BusinessHours: iv("08:00", "22:00")}

	got, err := uc.Alternatives(context.Background(), court, monday, iv("10:00", "11:00"), nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 3, metrics["create_booking"])
}
