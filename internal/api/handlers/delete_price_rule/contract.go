package delete_price_rule

import "context"

type PriceRuleService interface {
	Delete(ctx context.Context, ruleID string, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
