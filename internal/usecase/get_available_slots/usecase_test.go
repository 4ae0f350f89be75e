package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

var monday = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func iv(start, end string) domain.TimeInterval {
	return domain.TimeInterval{Start: types.TimeString(start), End: types.TimeString(end)}
}

type fakeBookings []*domain.Booking

func (f fakeBookings) GetByCourtsWithFilter(context.Context, domain.CourtBookingsFilter) ([]*domain.Booking, error) {
	return f, nil
}

type fakeCourts struct{}

func (fakeCourts) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	if id != 1 {
		return nil, courtRepo.ErrCourtNotFound
	}
	return &domain.Court{ID: 1, ClubID: 10, Name: "Court 1", DefaultPriceCents: 3000, BusinessHours: iv("08:00", "12:00")}, nil
}

type fakeRules struct{}

func (fakeRules) GetAllByCourt(context.Context, int64) ([]domain.PriceRule, error) {
	return []domain.PriceRule{
		{ID: "late-morning", CourtID: 1, Activation: domain.OnWeekdays{}, Interval: iv("10:00", "12:00"), PriceCents: 5000},
	}, nil
}

type fakeHolidays struct{}

func (fakeHolidays) GetCalendar(context.Context) (domain.HolidayCalendar, error) {
	return nil, nil
}

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

func newTestUseCase(now time.Time) *UseCase {
	bookings := fakeBookings{
		{ID: 1, CourtID: 1, Date: monday, Interval: iv("10:00", "11:00"), Status: domain.StatusReserved},
		{ID: 2, CourtID: 1, Date: monday, Interval: iv("11:00", "12:00"), Status: domain.StatusCancelled},
	}
	uc := NewUseCase(bookings, fakeCourts{}, fakeRules{}, fakeHolidays{}, 30, 30, logger.Nop())
	uc.timeProvider = fixedTime(now)
	return uc
}

func TestExecute_TodaySkipsStartedSlots(t *testing.T) {
	uc := newTestUseCase(time.Date(2024, 6, 10, 9, 10, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 30, resp.StepMinutes)
	require.Len(t, resp.Slots, 4)

	want := []struct {
		start     string
		available bool
		price     int64
	}{
		{"09:30", false, 3000},
		{"10:00", false, 5000},
		{"10:30", false, 5000},
		{"11:00", true, 5000},
	}
	for i, w := range want {
		s := resp.Slots[i]
		assert.Equal(t, types.TimeString(w.start), s.StartTime, "slot %d", i)
		assert.Equal(t, w.available, s.Available, "slot %d", i)
		assert.Equal(t, w.price, s.PriceCents, "slot %d", i)
	}
	assert.Nil(t, resp.Slots[0].RuleID)
	assert.Equal(t, types.TimeString("12:00"), resp.Slots[3].EndTime)
}

func TestExecute_OtherDayAllSlots(t *testing.T) {
	uc := newTestUseCase(time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: monday.AddDate(0, 0, 1), DurationMinutes: 90})
	require.NoError(t, err)
	// 08:00..10:30 с шагом 30 минут
	require.Len(t, resp.Slots, 6)
	for _, s := range resp.Slots {
		assert.True(t, s.Available)
	}
	assert.Equal(t, types.TimeString("10:30"), resp.Slots[5].StartTime)
	assert.Equal(t, types.TimeString("12:00"), resp.Slots[5].EndTime)
}

func TestExecute_Errors(t *testing.T) {
	uc := newTestUseCase(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "no court", req: Request{Date: monday}, wantErr: ErrInvalidInput},
		{name: "short duration", req: Request{CourtID: 1, Date: monday, DurationMinutes: 10}, wantErr: ErrInvalidInput},
		{name: "past date", req: Request{CourtID: 1, Date: monday.AddDate(0, 0, -1)}, wantErr: ErrInvalidDate},
		{name: "too far", req: Request{CourtID: 1, Date: monday.AddDate(0, 0, 40)}, wantErr: ErrDateTooFarInFuture},
		{name: "unknown court", req: Request{CourtID: 42, Date: monday}, wantErr: ErrCourtNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerateTimeSlots_LongerThanOpeningHours(t *testing.T) {
	slots := generateTimeSlots(iv("08:00", "10:00"), 180, 30, monday, monday)
	assert.Empty(t, slots)
}
