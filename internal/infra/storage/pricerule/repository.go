package pricerule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/psqlbuilder"
)

const tablePriceRules = "price_rules"

var ruleColumns = []string{
	"id",
	"court_id",
	"kind",
	"day_of_week",
	"holiday_id",
	"rule_date",
	"start_time",
	"end_time",
	"price_cents",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил цены кортов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил цены
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет правило. ID правила генерируется заранее (uuid) при валидации набора.
func (r *Repository) Create(ctx context.Context, rule *domain.PriceRule) (*domain.PriceRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	row := toRow(rule)

	query, args, err := psqlbuilder.Insert(tablePriceRules).
		Columns(
			"id",
			"court_id",
			"kind",
			"day_of_week",
			"holiday_id",
			"rule_date",
			"start_time",
			"end_time",
			"price_cents",
		).
		Values(
			rule.ID,
			rule.CourtID,
			row.kind,
			row.dayOfWeek,
			row.holidayID,
			row.date,
			rule.Interval.Start,
			rule.Interval.End,
			rule.PriceCents,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// GetByID получает правило по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.PriceRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From(tablePriceRules).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// GetAllByCourt получает все правила корта
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы проверка конфликтов
// и запись нового правила были атомарны
func (r *Repository) GetAllByCourt(ctx context.Context, courtID int64) ([]domain.PriceRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(ruleColumns...).
		From(tablePriceRules).
		Where(squirrel.Eq{"court_id": courtID}).
		OrderBy("start_time ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByCourt - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByCourt - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]domain.PriceRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByCourt - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, *rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByCourt - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// Update заменяет активацию, интервал и цену правила
func (r *Repository) Update(ctx context.Context, rule *domain.PriceRule) (*domain.PriceRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	row := toRow(rule)

	query, args, err := psqlbuilder.Update(tablePriceRules).
		Set("kind", row.kind).
		Set("day_of_week", row.dayOfWeek).
		Set("holiday_id", row.holidayID).
		Set("rule_date", row.date).
		Set("start_time", rule.Interval.Start).
		Set("end_time", rule.Interval.End).
		Set("price_cents", rule.PriceCents).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rule.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// Delete удаляет правило цены
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tablePriceRules).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

// ruleRow плоское представление активации для хранения
type ruleRow struct {
	kind      domain.RuleKind
	dayOfWeek *int
	holidayID *string
	date      interface{}
}

func toRow(rule *domain.PriceRule) ruleRow {
	fields := domain.FieldsOf(rule.Activation)
	row := ruleRow{
		kind:      rule.Activation.Kind(),
		dayOfWeek: fields.DayOfWeek,
		holidayID: fields.HolidayID,
	}
	if fields.Date != nil {
		row.date = *fields.Date
	}
	return row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.PriceRule, error) {
	var (
		rule                 domain.PriceRule
		kind                 domain.RuleKind
		dayOfWeek            sql.NullInt32
		holidayID            sql.NullString
		ruleDate             sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&rule.ID,
		&rule.CourtID,
		&kind,
		&dayOfWeek,
		&holidayID,
		&ruleDate,
		&rule.Interval.Start,
		&rule.Interval.End,
		&rule.PriceCents,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	var fields domain.ActivationFields
	switch kind {
	case domain.KindDayOfWeek:
		if dayOfWeek.Valid {
			day := int(dayOfWeek.Int32)
			fields.DayOfWeek = &day
		}
	case domain.KindWeekdays, domain.KindWeekends:
		k := kind
		fields.RuleType = &k
	case domain.KindHoliday:
		if holidayID.Valid {
			fields.HolidayID = &holidayID.String
		}
	case domain.KindDate:
		if ruleDate.Valid {
			fields.Date = &ruleDate.Time
		}
	}

	activation, err := fields.Activation()
	if err != nil {
		return nil, fmt.Errorf("%w: rule %s kind %s: %v", ErrCorruptedRule, rule.ID, kind, err)
	}
	rule.Activation = activation
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}
