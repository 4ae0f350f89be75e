package delete_price_rule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricerules"
)

const (
	msgMissingRuleID = "ID правила обязателен"
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "правило цены не найдено"
	msgForbidden     = "доступ запрещен"
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

// Handle DELETE /api/v1/price-rules/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ruleID := mux.Vars(r)["ruleId"]
	if ruleID == "" {
		h.logger.Warn("DELETE /price-rules/{id} - Missing rule ID")
		handlers.RespondBadRequest(w, msgMissingRuleID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /price-rules/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), ruleID, userID); err != nil {
		switch {
		case errors.Is(err, pricerules.ErrRuleNotFound):
			h.logger.Warn("DELETE /price-rules/{id} - Rule not found: rule_id=%s", ruleID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, pricerules.ErrAccessDenied), errors.Is(err, pricerules.ErrClubNotFound):
			h.logger.Warn("DELETE /price-rules/{id} - Access denied: rule_id=%s, user_id=%d, %v", ruleID, userID, err)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /price-rules/{id} - Failed to delete rule: rule_id=%s, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /price-rules/{id} - Rule deleted successfully: rule_id=%s, user_id=%d", ruleID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
