package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модели

// RuleFields поля правила: ровно одно из DayOfWeek, RuleType, HolidayID, Date
type RuleFields struct {
	DayOfWeek  *int    `json:"dayOfWeek,omitempty"` // 0 = воскресенье ... 6 = суббота
	RuleType   *string `json:"ruleType,omitempty"`  // WEEKDAYS | WEEKENDS
	HolidayID  *string `json:"holidayId,omitempty"`
	Date       *string `json:"date,omitempty"` // YYYY-MM-DD
	StartTime  string  `json:"startTime"`      // HH:MM
	EndTime    string  `json:"endTime"`        // HH:MM, допускается 24:00
	PriceCents int64   `json:"priceCents"`     // за час
}

// CreateRuleRequest запрос на создание правила цены
type CreateRuleRequest struct {
	UserID  int64 `json:"-"`
	CourtID int64 `json:"-"`
	RuleFields
}

// UpdateRuleRequest запрос на замену правила цены
type UpdateRuleRequest struct {
	UserID int64  `json:"-"`
	RuleID string `json:"-"`
	RuleFields
}

// Interval возвращает интервал правила без валидации порядка границ
func (f *RuleFields) Interval() domain.TimeInterval {
	return domain.TimeInterval{Start: types.TimeString(f.StartTime), End: types.TimeString(f.EndTime)}
}

// ActivationFields конвертирует поля активации в доменную форму
func (f *RuleFields) ActivationFields() (domain.ActivationFields, error) {
	fields := domain.ActivationFields{
		DayOfWeek: f.DayOfWeek,
		HolidayID: f.HolidayID,
	}
	if f.RuleType != nil {
		kind := domain.RuleKind(*f.RuleType)
		fields.RuleType = &kind
	}
	if f.Date != nil {
		date, err := domain.ParseDate(*f.Date)
		if err != nil {
			return fields, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", *f.Date)
		}
		fields.Date = &date
	}
	return fields, nil
}

// Response модели

// RuleResponse ответ с данными правила
type RuleResponse struct {
	ID         string    `json:"id"`
	CourtID    int64     `json:"courtId"`
	Kind       string    `json:"kind"`
	Tier       string    `json:"tier"`
	DayOfWeek  *int      `json:"dayOfWeek,omitempty"`
	RuleType   *string   `json:"ruleType,omitempty"`
	HolidayID  *string   `json:"holidayId,omitempty"`
	Date       *string   `json:"date,omitempty"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	PriceCents int64     `json:"priceCents"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RuleListResponse ответ со списком правил корта
type RuleListResponse struct {
	CourtID int64          `json:"courtId"`
	Rules   []RuleResponse `json:"rules"`
}

// RuleChangedEvent событие изменения правил корта
type RuleChangedEvent struct {
	Action  string `json:"action"` // created | updated | deleted
	RuleID  string `json:"ruleId"`
	CourtID int64  `json:"courtId"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.PriceRule) *RuleResponse {
	if r == nil || r.Activation == nil {
		return nil
	}

	fields := domain.FieldsOf(r.Activation)
	resp := &RuleResponse{
		ID:         r.ID,
		CourtID:    r.CourtID,
		Kind:       string(r.Kind()),
		Tier:       r.Tier().String(),
		DayOfWeek:  fields.DayOfWeek,
		HolidayID:  fields.HolidayID,
		StartTime:  r.Interval.Start.String(),
		EndTime:    r.Interval.End.String(),
		PriceCents: r.PriceCents,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if fields.RuleType != nil {
		kind := string(*fields.RuleType)
		resp.RuleType = &kind
	}
	if fields.Date != nil {
		date := fields.Date.Format(domain.DateFormat)
		resp.Date = &date
	}
	return resp
}

// FromDomainRuleList конвертирует правила корта в DTO
func FromDomainRuleList(courtID int64, rules []domain.PriceRule) *RuleListResponse {
	resp := &RuleListResponse{
		CourtID: courtID,
		Rules:   make([]RuleResponse, 0, len(rules)),
	}
	for i := range rules {
		if r := FromDomainRule(&rules[i]); r != nil {
			resp.Rules = append(resp.Rules, *r)
		}
	}
	return resp
}
