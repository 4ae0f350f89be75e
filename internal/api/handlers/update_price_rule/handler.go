package update_price_rule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricerules"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricerules/models"
)

const (
	msgMissingRuleID      = "ID правила обязателен"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "правило цены не найдено"
	msgCourtNotFound      = "корт не найден"
	msgClubNotFound       = "клуб не найден"
	msgHolidayNotFound    = "праздник не найден"
	msgForbidden          = "доступ запрещен"
	msgRuleConflict       = "правило пересекается с существующим правилом того же уровня"
	msgInvalidInterval    = "некорректный интервал правила"
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

// ConflictResponse тело ответа 409
type ConflictResponse struct {
	Code              int    `json:"code"`
	Message           string `json:"message"`
	ConflictingRuleID string `json:"conflictingRuleId,omitempty"`
}

// Handle PUT /api/v1/price-rules/{ruleId}
// Правило заменяется целиком
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ruleID := mux.Vars(r)["ruleId"]
	if ruleID == "" {
		h.logger.Warn("PUT /price-rules/{id} - Missing rule ID")
		handlers.RespondBadRequest(w, msgMissingRuleID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /price-rules/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req models.UpdateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /price-rules/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.RuleID = ruleID

	// Обновляем правило (сервис сам проверит права менеджера)
	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		var conflict *domain.RuleConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("PUT /price-rules/{id} - Rule conflict: rule_id=%s, conflicting_rule_id=%s", ruleID, conflict.ConflictingRuleID)
			handlers.RespondJSON(w, http.StatusConflict, &ConflictResponse{
				Code:              http.StatusConflict,
				Message:           msgRuleConflict,
				ConflictingRuleID: conflict.ConflictingRuleID,
			})

		case errors.Is(err, domain.ErrRuleConflict):
			h.logger.Warn("PUT /price-rules/{id} - Rule conflict: rule_id=%s, %v", ruleID, err)
			handlers.RespondConflict(w, msgRuleConflict)

		case errors.Is(err, pricerules.ErrRuleNotFound):
			h.logger.Warn("PUT /price-rules/{id} - Rule not found: rule_id=%s", ruleID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, pricerules.ErrCourtNotFound):
			h.logger.Warn("PUT /price-rules/{id} - Court not found: rule_id=%s", ruleID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, pricerules.ErrClubNotFound):
			h.logger.Warn("PUT /price-rules/{id} - Club not found: rule_id=%s", ruleID)
			handlers.RespondNotFound(w, msgClubNotFound)

		case errors.Is(err, pricerules.ErrHolidayNotFound):
			h.logger.Warn("PUT /price-rules/{id} - Holiday not found: %v", err)
			handlers.RespondBadRequest(w, msgHolidayNotFound)

		case errors.Is(err, pricerules.ErrAccessDenied):
			h.logger.Warn("PUT /price-rules/{id} - Access denied: rule_id=%s, user_id=%d", ruleID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidInterval):
			h.logger.Warn("PUT /price-rules/{id} - Invalid interval: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, pricerules.ErrInvalidInput):
			h.logger.Warn("PUT /price-rules/{id} - Invalid data: rule_id=%s, error=%v", ruleID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /price-rules/{id} - Failed to update rule: rule_id=%s, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /price-rules/{id} - Rule updated successfully: rule_id=%s, court_id=%d", ruleID, result.CourtID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
