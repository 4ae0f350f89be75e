package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

type fakeUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

func doRequest(h *Handler, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

const validBody = `{"courtId":1,"bookingDate":"2024-06-10","startTime":"18:00","durationMinutes":90}`

func TestHandle_Created(t *testing.T) {
	created := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createBooking.Response{
		ID:               7,
		CourtID:          1,
		UserID:           42,
		BookingDate:      time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:        "18:00",
		EndTime:          "19:30",
		Status:           string(domain.StatusReserved),
		PriceCents:       9000,
		RatePerHourCents: 6000,
		CreatedAt:        created,
		UpdatedAt:        created,
	}}
	h := NewHandler(uc, logger.Nop())

	rec := doRequest(h, validBody, 42)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(42), uc.got.UserID)
	assert.Equal(t, types.TimeString("18:00"), uc.got.StartTime)
	assert.Equal(t, 90, uc.got.DurationMinutes)

	var resp BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "2024-06-10", resp.BookingDate)
	assert.Equal(t, "19:30", resp.EndTime)
	assert.Equal(t, int64(9000), resp.PriceCents)
}

func TestHandle_ConflictCarriesSuggestions(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{err: &createBooking.UnavailableError{
		Reason:               createBooking.ReasonBooked,
		ConflictingBookingID: 3,
		Suggestions: []domain.Suggestion{
			{
				Date:      date,
				Time:      "19:30",
				Interval:  domain.TimeInterval{Start: "19:30", End: "21:00"},
				CourtID:   1,
				CourtName: "Court 1",
			},
		},
	}}
	h := NewHandler(uc, logger.Nop())

	rec := doRequest(h, validBody, 42)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp SlotUnavailableResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, createBooking.ReasonBooked, resp.Reason)
	require.NotNil(t, resp.ConflictingBookingID)
	assert.Equal(t, int64(3), *resp.ConflictingBookingID)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "19:30", resp.Suggestions[0].StartTime)
	assert.Equal(t, "21:00", resp.Suggestions[0].EndTime)
}

func TestHandle_ConflictWithoutSuggestionsHasEmptyList(t *testing.T) {
	uc := &fakeUseCase{err: &createBooking.UnavailableError{Reason: createBooking.ReasonTrainer, Suggestions: []domain.Suggestion{}}}
	h := NewHandler(uc, logger.Nop())

	rec := doRequest(h, validBody, 42)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"suggestions":[]`)
	assert.NotContains(t, rec.Body.String(), "conflictingBookingId")
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		userID     int64
		ucErr      error
		wantStatus int
	}{
		{name: "no user", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "broken json", body: `{"courtId":`, userID: 42, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"courtId":1,"foo":1}`, userID: 42, wantStatus: http.StatusBadRequest},
		{name: "bad date", body: `{"courtId":1,"bookingDate":"10.06.2024","startTime":"18:00","durationMinutes":60}`, userID: 42, wantStatus: http.StatusBadRequest},
		{name: "bad time", body: `{"courtId":1,"bookingDate":"2024-06-10","startTime":"25:00","durationMinutes":60}`, userID: 42, wantStatus: http.StatusBadRequest},
		{name: "court not found", body: validBody, userID: 42, ucErr: createBooking.ErrCourtNotFound, wantStatus: http.StatusNotFound},
		{name: "trainer not found", body: validBody, userID: 42, ucErr: createBooking.ErrTrainerNotFound, wantStatus: http.StatusNotFound},
		{name: "outside hours", body: validBody, userID: 42, ucErr: createBooking.ErrOutsideBusinessHours, wantStatus: http.StatusBadRequest},
		{name: "too late", body: validBody, userID: 42, ucErr: createBooking.ErrTooLateToBook, wantStatus: http.StatusBadRequest},
		{name: "internal", body: validBody, userID: 42, ucErr: createBooking.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.ucErr, resp: &createBooking.Response{}}, logger.Nop())
			rec := doRequest(h, tt.body, tt.userID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
