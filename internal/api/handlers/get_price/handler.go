package get_price

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	getPriceTimeline "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_price_timeline"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

const (
	msgInvalidCourtID  = "некорректный ID корта"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime     = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidDuration = "некорректная длительность"
	msgCourtNotFound   = "корт не найден"
)

// PriceResponse HTTP response model
type PriceResponse struct {
	CourtID          int64   `json:"courtId"`
	Date             string  `json:"date"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	DurationMinutes  int     `json:"durationMinutes"`
	PriceCents       int64   `json:"priceCents"`
	RatePerHourCents int64   `json:"ratePerHourCents"`
	RuleID           *string `json:"ruleId,omitempty"`
}

type Handler struct {
	useCase PriceUseCase
	logger  Logger
}

func NewHandler(useCase PriceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/price
// Query params: date, startTime, durationMinutes
// Ставка определяется временем начала и действует на всю длительность
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courtID, err := strconv.ParseInt(vars["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /courts/{id}/price - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	query := r.URL.Query()
	date, err := domain.ParseDate(query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /courts/{id}/price - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	startTime, err := types.NewTimeStringFromString(query.Get("startTime"))
	if err != nil {
		h.logger.Warn("GET /courts/{id}/price - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	duration, err := strconv.Atoi(query.Get("durationMinutes"))
	if err != nil {
		h.logger.Warn("GET /courts/{id}/price - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	result, err := h.useCase.Price(r.Context(), &getPriceTimeline.PriceRequest{
		CourtID:         courtID,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, getPriceTimeline.ErrCourtNotFound):
			h.logger.Warn("GET /courts/{id}/price - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, getPriceTimeline.ErrInvalidInput):
			h.logger.Warn("GET /courts/{id}/price - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		default:
			h.logger.Error("GET /courts/{id}/price - Failed to calculate price: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /courts/{id}/price - Price calculated: court_id=%d, start=%s, price=%d",
		courtID, startTime, result.PriceCents)
	handlers.RespondJSON(w, http.StatusOK, &PriceResponse{
		CourtID:          result.CourtID,
		Date:             result.Date.Format(domain.DateFormat),
		StartTime:        result.StartTime.String(),
		EndTime:          result.EndTime.String(),
		DurationMinutes:  result.DurationMinutes,
		PriceCents:       result.PriceCents,
		RatePerHourCents: result.RatePerHourCents,
		RuleID:           result.RuleID,
	})
}
