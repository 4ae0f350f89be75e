package holiday

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/psqlbuilder"
)

// Repository репозиторий календаря праздников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория праздников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCalendar возвращает все известные праздники
// Календарь небольшой, поэтому читается целиком и фильтруется резолвером
func (r *Repository) GetCalendar(ctx context.Context) (domain.HolidayCalendar, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "holiday_date", "recurring_yearly").
		From("holidays").
		OrderBy("holiday_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	calendar := make(domain.HolidayCalendar, 0)
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.ID, &h.Name, &h.Date, &h.RecurringYearly); err != nil {
			return nil, fmt.Errorf("%w: GetCalendar - scan row: %v", ErrScanRow, err)
		}
		h.Date = domain.DateOnly(h.Date)
		calendar = append(calendar, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetCalendar - rows error: %v", ErrScanRow, err)
	}

	return calendar, nil
}
