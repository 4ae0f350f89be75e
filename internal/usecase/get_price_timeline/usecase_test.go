package get_price_timeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

var (
	monday  = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)
)

func iv(start, end string) domain.TimeInterval {
	return domain.TimeInterval{Start: types.TimeString(start), End: types.TimeString(end)}
}

type fakeCourts struct{}

func (fakeCourts) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	if id != 1 {
		return nil, courtRepo.ErrCourtNotFound
	}
	return &domain.Court{ID: 1, ClubID: 10, Name: "Court 1", DefaultPriceCents: 3000, BusinessHours: iv("08:00", "22:00")}, nil
}

type fakeRules struct{}

func (fakeRules) GetAllByCourt(context.Context, int64) ([]domain.PriceRule, error) {
	return []domain.PriceRule{
		{ID: "wd", CourtID: 1, Activation: domain.OnWeekdays{}, Interval: iv("09:00", "12:00"), PriceCents: 5000},
		{ID: "hol", CourtID: 1, Activation: domain.OnHoliday{HolidayID: "club-day"}, Interval: iv("10:00", "11:00"), PriceCents: 9000},
	}, nil
}

type fakeHolidays struct{}

func (fakeHolidays) GetCalendar(context.Context) (domain.HolidayCalendar, error) {
	return domain.HolidayCalendar{{ID: "club-day", Name: "Club day", Date: monday}}, nil
}

func newTestUseCase() *UseCase {
	return NewUseCase(fakeCourts{}, fakeRules{}, fakeHolidays{}, logger.Nop())
}

func TestTimeline_Segments(t *testing.T) {
	uc := newTestUseCase()

	resp, err := uc.Timeline(context.Background(), &TimelineRequest{CourtID: 1, Date: monday, StartTime: "08:00", EndTime: "13:00"})
	require.NoError(t, err)
	require.Len(t, resp.Segments, 5)

	want := []struct {
		start, end string
		amount     int64
		tier       string
	}{
		{"08:00", "09:00", 3000, "default"},
		{"09:00", "10:00", 5000, "blanket"},
		{"10:00", "11:00", 9000, "holiday"},
		{"11:00", "12:00", 5000, "blanket"},
		{"12:00", "13:00", 3000, "default"},
	}
	for i, w := range want {
		s := resp.Segments[i]
		assert.Equal(t, types.TimeString(w.start), s.StartTime, "segment %d", i)
		assert.Equal(t, types.TimeString(w.end), s.EndTime, "segment %d", i)
		assert.Equal(t, w.amount, s.AmountCents, "segment %d", i)
		assert.Equal(t, w.tier, s.Tier, "segment %d", i)
	}
	assert.Nil(t, resp.Segments[0].RuleID)
	assert.Equal(t, int64(25000), resp.TotalCents)
}

func TestTimeline_HolidayInactive(t *testing.T) {
	uc := newTestUseCase()

	resp, err := uc.Timeline(context.Background(), &TimelineRequest{CourtID: 1, Date: tuesday, StartTime: "08:00", EndTime: "13:00"})
	require.NoError(t, err)
	require.Len(t, resp.Segments, 3)
	assert.Equal(t, types.TimeString("09:00"), resp.Segments[1].StartTime)
	assert.Equal(t, types.TimeString("12:00"), resp.Segments[1].EndTime)
	assert.Equal(t, int64(21000), resp.TotalCents)
}

func TestTimeline_Errors(t *testing.T) {
	uc := newTestUseCase()

	_, err := uc.Timeline(context.Background(), &TimelineRequest{CourtID: 1, Date: monday, StartTime: "13:00", EndTime: "12:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)

	_, err = uc.Timeline(context.Background(), &TimelineRequest{CourtID: 42, Date: monday, StartTime: "08:00", EndTime: "12:00"})
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestPrice_StartDecidesRate(t *testing.T) {
	uc := newTestUseCase()

	tests := []struct {
		name      string
		start     string
		duration  int
		wantPrice int64
		wantRule  *string
	}{
		{name: "weekday rule", start: "09:30", duration: 90, wantPrice: 7500, wantRule: ptr.Ptr("wd")},
		{name: "holiday beats weekday", start: "10:00", duration: 60, wantPrice: 9000, wantRule: ptr.Ptr("hol")},
		{name: "default price", start: "07:00", duration: 30, wantPrice: 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := uc.Price(context.Background(), &PriceRequest{
				CourtID: 1, Date: monday, StartTime: types.TimeString(tt.start), DurationMinutes: tt.duration,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrice, resp.PriceCents)
			assert.Equal(t, tt.wantRule, resp.RuleID)
		})
	}
}

func TestPrice_Errors(t *testing.T) {
	uc := newTestUseCase()

	_, err := uc.Price(context.Background(), &PriceRequest{CourtID: 1, Date: monday, StartTime: "23:30", DurationMinutes: 60})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Price(context.Background(), &PriceRequest{CourtID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Price(context.Background(), &PriceRequest{CourtID: 42, Date: monday, StartTime: "10:00", DurationMinutes: 60})
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

