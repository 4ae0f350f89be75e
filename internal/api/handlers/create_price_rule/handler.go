package create_price_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricerules"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricerules/models"
)

const (
	msgInvalidCourtID     = "некорректный ID корта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgCourtNotFound      = "корт не найден"
	msgClubNotFound       = "клуб не найден"
	msgHolidayNotFound    = "праздник не найден"
	msgForbidden          = "доступ запрещен"
	msgRuleConflict       = "правило пересекается с существующим правилом того же уровня"
	msgInvalidInterval    = "некорректный интервал правила"
	msgExclusiveFields    = "должно быть задано ровно одно из полей dayOfWeek, ruleType, holidayId, date"
	msgInvalidDayOfWeek   = "dayOfWeek должен быть от 0 до 6"
	msgInvalidPrice       = "цена не может быть отрицательной"
	msgInvalidData        = "некорректные данные правила"
)

type Handler struct {
	service PriceRuleService
	logger  Logger
}

func NewHandler(service PriceRuleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/courts/{courtId}/price-rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courtID, err := strconv.ParseInt(vars["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /courts/{id}/price-rules - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /courts/{id}/price-rules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /courts/{id}/price-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.CourtID = courtID

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRuleConflict):
			h.logger.Warn("POST /courts/{id}/price-rules - Rule conflict: court_id=%d, %v", courtID, err)
			handlers.RespondJSON(w, http.StatusConflict, NewRuleConflictResponse(http.StatusConflict, msgRuleConflict, err))

		case errors.Is(err, pricerules.ErrCourtNotFound):
			h.logger.Warn("POST /courts/{id}/price-rules - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, pricerules.ErrClubNotFound):
			h.logger.Warn("POST /courts/{id}/price-rules - Club not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgClubNotFound)

		case errors.Is(err, pricerules.ErrHolidayNotFound):
			h.logger.Warn("POST /courts/{id}/price-rules - Holiday not found: %v", err)
			handlers.RespondBadRequest(w, msgHolidayNotFound)

		case errors.Is(err, pricerules.ErrAccessDenied):
			h.logger.Warn("POST /courts/{id}/price-rules - Access denied: court_id=%d, user_id=%d", courtID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, pricerules.ErrInvalidInput):
			h.logger.Warn("POST /courts/{id}/price-rules - Invalid data: court_id=%d, error=%v", courtID, err)
			handlers.RespondBadRequest(w, validationMessage(err))

		default:
			h.logger.Error("POST /courts/{id}/price-rules - Failed to create rule: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /courts/{id}/price-rules - Rule created successfully: court_id=%d, rule_id=%s", courtID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// validationMessage выбирает сообщение по доменной ошибке в цепочке
func validationMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInterval):
		return msgInvalidInterval
	case errors.Is(err, domain.ErrMutuallyExclusiveFields):
		return msgExclusiveFields
	case errors.Is(err, domain.ErrInvalidDayOfWeek):
		return msgInvalidDayOfWeek
	case errors.Is(err, domain.ErrInvalidPrice):
		return msgInvalidPrice
	default:
		return msgInvalidData
	}
}
