package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

const (
	ownerID    int64 = 1
	managerID  int64 = 10
	strangerID int64 = 99
)

type fakeBookings struct {
	items      map[int64]*domain.Booking
	lastFilter domain.CourtBookingsFilter
}

func (f *fakeBookings) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.items[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.items {
		if b.UserID == userID && (status == nil || b.Status == *status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) GetByCourtsWithFilter(_ context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	var out []*domain.Booking
	for _, b := range f.items {
		for _, id := range filter.CourtIDs {
			if b.CourtID == id && (filter.IncludeInactive || b.IsActive()) {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.items[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookings) Cancel(_ context.Context, id int64, reason *string) error {
	b, ok := f.items[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = reason
	return nil
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

func (f fakeCourts) GetByClubID(_ context.Context, clubID int64) ([]domain.Court, error) {
	var out []domain.Court
	for _, c := range f {
		if c.ClubID == clubID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeClubs struct{}

func (fakeClubs) GetClub(_ context.Context, clubID int64) (*domain.Club, error) {
	return &domain.Club{ID: clubID, ManagerIDs: []int64{managerID}}, nil
}

type fakePublisher struct {
	types []string
}

func (p *fakePublisher) Publish(_ context.Context, eventType string, _ string, _ interface{}) error {
	p.types = append(p.types, eventType)
	return nil
}

func newTestService() (*Service, *fakeBookings, *fakePublisher) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	repo := &fakeBookings{items: map[int64]*domain.Booking{
		1: {ID: 1, CourtID: 1, UserID: ownerID, Date: date, Interval: domain.TimeInterval{Start: "10:00", End: "11:00"}, Status: domain.StatusReserved, PriceCents: 5000},
		2: {ID: 2, CourtID: 2, UserID: 2, Date: date, Interval: domain.TimeInterval{Start: "12:00", End: "13:30"}, Status: domain.StatusPending, PriceCents: 7500},
		3: {ID: 3, CourtID: 1, UserID: 3, Date: date, Interval: domain.TimeInterval{Start: "15:00", End: "16:00"}, Status: domain.StatusCancelled},
	}}
	courts := fakeCourts{
		{ID: 1, ClubID: 100, Name: "Court 1"},
		{ID: 2, ClubID: 100, Name: "Court 2"},
		{ID: 3, ClubID: 200, Name: "Other club"},
	}
	publisher := &fakePublisher{}
	return NewService(repo, courts, fakeClubs{}, publisher, logger.Nop()), repo, publisher
}

func TestService_GetByIDAccess(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.GetByID(ctx, 1, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", resp.BookingDate)
	assert.Equal(t, "11:00", resp.EndTime)
	assert.Equal(t, 60, resp.DurationMinutes)

	_, err = svc.GetByID(ctx, 1, managerID)
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(ctx, 42, ownerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_Cancel(t *testing.T) {
	svc, repo, publisher := newTestService()
	ctx := context.Background()

	err := svc.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: strangerID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = svc.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: ownerID, CancellationReason: ptr.Ptr("rain")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.items[1].Status)
	assert.Equal(t, []string{"booking.cancelled"}, publisher.types)

	err = svc.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: ownerID})
	assert.ErrorIs(t, err, ErrCannotCancel)

	err = svc.Cancel(ctx, 2, &models.CancelBookingRequest{UserID: managerID})
	assert.NoError(t, err)
}

func TestService_UpdateStatusTransitions(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	err := svc.UpdateStatus(ctx, 2, &models.UpdateStatusRequest{UserID: ownerID, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = svc.UpdateStatus(ctx, 2, &models.UpdateStatusRequest{UserID: managerID, Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, repo.items[2].Status)

	err = svc.UpdateStatus(ctx, 2, &models.UpdateStatusRequest{UserID: managerID, Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	err = svc.UpdateStatus(ctx, 1, &models.UpdateStatusRequest{UserID: managerID, Status: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetClubBookings(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.GetClubBookings(ctx, &models.GetClubBookingsRequest{UserID: managerID, ClubID: 100})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
	assert.ElementsMatch(t, []int64{1, 2}, repo.lastFilter.CourtIDs)

	resp, err = svc.GetClubBookings(ctx, &models.GetClubBookingsRequest{UserID: managerID, ClubID: 100, CourtID: ptr.Ptr(int64(1)), IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
	assert.Equal(t, []int64{1}, repo.lastFilter.CourtIDs)

	_, err = svc.GetClubBookings(ctx, &models.GetClubBookingsRequest{UserID: managerID, ClubID: 100, CourtID: ptr.Ptr(int64(3))})
	assert.ErrorIs(t, err, ErrCourtNotFound)

	_, err = svc.GetClubBookings(ctx, &models.GetClubBookingsRequest{UserID: strangerID, ClubID: 100})
	assert.ErrorIs(t, err, ErrAccessDenied)

	from := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err = svc.GetClubBookings(ctx, &models.GetClubBookingsRequest{UserID: managerID, ClubID: 100, StartDate: &from, EndDate: &to})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetUserBookings(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: ownerID})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(5000), resp.Bookings[0].PriceCents)

	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: ownerID, Status: ptr.Ptr("nope")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
