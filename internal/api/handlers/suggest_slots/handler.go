package suggest_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	suggestSlots "github.com/m04kA/SMC-CourtBookingService/internal/usecase/suggest_slots"
)

const (
	msgInvalidCourtID  = "некорректный ID корта"
	msgInvalidParams   = "некорректные параметры запроса"
	msgCourtNotFound   = "корт не найден"
	msgTrainerNotFound = "тренер не найден"
)

type Handler struct {
	useCase SuggestSlotsUseCase
	logger  Logger
}

func NewHandler(useCase SuggestSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/suggestions
// Query params: date, startTime, durationMinutes, trainerId (опционально), limit (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courtID, err := strconv.ParseInt(vars["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /courts/{id}/suggestions - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(courtID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /courts/{id}/suggestions - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, suggestSlots.ErrCourtNotFound):
			h.logger.Warn("GET /courts/{id}/suggestions - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, suggestSlots.ErrTrainerNotFound):
			h.logger.Warn("GET /courts/{id}/suggestions - Trainer not found: trainer_id=%v", useCaseReq.TrainerID)
			handlers.RespondNotFound(w, msgTrainerNotFound)

		case errors.Is(err, suggestSlots.ErrInvalidInput):
			h.logger.Warn("GET /courts/{id}/suggestions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /courts/{id}/suggestions - Failed to suggest slots: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /courts/{id}/suggestions - Suggestions found: court_id=%d, count=%d, trainer_ignored=%t",
		courtID, len(result.Slots), result.TrainerIgnored)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
