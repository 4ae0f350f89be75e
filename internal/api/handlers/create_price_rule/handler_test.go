package create_price_rule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricerules"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricerules/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
)

type fakeService struct {
	got *models.CreateRuleRequest
	err error
}

func (f *fakeService) Create(_ context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.RuleResponse{ID: "r-1", CourtID: req.CourtID, StartTime: req.StartTime, EndTime: req.EndTime, PriceCents: req.PriceCents}, nil
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/courts/{courtId}/price-rules", NewHandler(svc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodPost, "/courts/5/price-rules", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const ruleBody = `{"ruleType":"WEEKDAYS","startTime":"18:00","endTime":"22:00","priceCents":6000}`

func TestHandle_Created(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, ruleBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(5), svc.got.CourtID)
	assert.Equal(t, int64(42), svc.got.UserID)
	require.NotNil(t, svc.got.RuleType)
	assert.Equal(t, "WEEKDAYS", *svc.got.RuleType)

	var resp models.RuleResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "r-1", resp.ID)
}

func TestHandle_ConflictReturnsRuleID(t *testing.T) {
	svc := &fakeService{err: &domain.RuleConflictError{ConflictingRuleID: "r-old"}}

	rec := serve(svc, ruleBody)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp RuleConflictResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "r-old", resp.ConflictingRuleID)
}

func TestHandle_ValidationMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "interval", err: fmt.Errorf("%w: %w", pricerules.ErrInvalidInput, domain.ErrInvalidInterval), wantMsg: msgInvalidInterval},
		{name: "exclusive fields", err: fmt.Errorf("%w: %w", pricerules.ErrInvalidInput, domain.ErrMutuallyExclusiveFields), wantMsg: msgExclusiveFields},
		{name: "day of week", err: fmt.Errorf("%w: %w", pricerules.ErrInvalidInput, domain.ErrInvalidDayOfWeek), wantMsg: msgInvalidDayOfWeek},
		{name: "other", err: fmt.Errorf("%w: bad date", pricerules.ErrInvalidInput), wantMsg: msgInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, ruleBody)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "court", err: pricerules.ErrCourtNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", err: pricerules.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "holiday", err: pricerules.ErrHolidayNotFound, wantStatus: http.StatusBadRequest},
		{name: "duplicate", err: domain.ErrRuleConflict, wantStatus: http.StatusConflict},
		{name: "internal", err: pricerules.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, ruleBody)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
