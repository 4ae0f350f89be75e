package get_price_timeline

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	getPriceTimeline "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_price_timeline"
)

const (
	msgInvalidCourtID = "некорректный ID корта"
	msgMissingParams  = "параметры date, startTime и endTime обязательны"
	msgInvalidParams  = "некорректные параметры запроса"
	msgInvalidWindow  = "начало окна должно быть раньше конца"
	msgCourtNotFound  = "корт не найден"
)

type Handler struct {
	useCase PriceTimelineUseCase
	logger  Logger
}

func NewHandler(useCase PriceTimelineUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/price-timeline
// Query params: date (YYYY-MM-DD), startTime, endTime (HH:MM)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courtID, err := strconv.ParseInt(vars["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /courts/{id}/price-timeline - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(courtID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /courts/{id}/price-timeline - Invalid parameters: %v", err)
		if errors.Is(err, errMissingParam) {
			handlers.RespondBadRequest(w, msgMissingParams)
		} else {
			handlers.RespondBadRequest(w, msgInvalidParams)
		}
		return
	}

	result, err := h.useCase.Timeline(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getPriceTimeline.ErrCourtNotFound):
			h.logger.Warn("GET /courts/{id}/price-timeline - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, getPriceTimeline.ErrInvalidInput):
			h.logger.Warn("GET /courts/{id}/price-timeline - Invalid window: %v", err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("GET /courts/{id}/price-timeline - Failed to build timeline: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /courts/{id}/price-timeline - Timeline built: court_id=%d, segments=%d, total=%d",
		courtID, len(result.Segments), result.TotalCents)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
