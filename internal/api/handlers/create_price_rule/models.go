package create_price_rule

import (
	"errors"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// RuleConflictResponse тело ответа 409
type RuleConflictResponse struct {
	Code              int    `json:"code"`
	Message           string `json:"message"`
	ConflictingRuleID string `json:"conflictingRuleId,omitempty"`
}

// NewRuleConflictResponse собирает тело ответа из ошибки конфликта
func NewRuleConflictResponse(status int, message string, err error) *RuleConflictResponse {
	resp := &RuleConflictResponse{Code: status, Message: message}
	var conflict *domain.RuleConflictError
	if errors.As(err, &conflict) {
		resp.ConflictingRuleID = conflict.ConflictingRuleID
	}
	return resp
}
