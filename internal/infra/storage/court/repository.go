package court

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

var courtColumns = []string{
	"id",
	"club_id",
	"name",
	"default_price_cents",
	"open_time",
	"close_time",
}

// Repository репозиторий кортов (только чтение: корты ведет сервис клубов)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кортов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает корт по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(courtColumns...).
		From("courts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	court, err := scanCourt(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan court: %v", ErrScanRow, err)
	}

	return court, nil
}

// GetByClubID получает все корты клуба, упорядоченные по ID
// Используется поиском альтернатив на соседних кортах
func (r *Repository) GetByClubID(ctx context.Context, clubID int64) ([]domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(courtColumns...).
		From("courts").
		Where(squirrel.Eq{"club_id": clubID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByClubID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClubID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	courts := make([]domain.Court, 0)
	for rows.Next() {
		court, err := scanCourt(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByClubID - scan row: %v", ErrScanRow, err)
		}
		courts = append(courts, *court)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByClubID - rows error: %v", ErrScanRow, err)
	}

	return courts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCourt(row rowScanner) (*domain.Court, error) {
	var court domain.Court
	err := row.Scan(
		&court.ID,
		&court.ClubID,
		&court.Name,
		&court.DefaultPriceCents,
		&court.BusinessHours.Start,
		&court.BusinessHours.End,
	)
	if err != nil {
		return nil, err
	}

	// TIME '00:00' как время закрытия означает конец суток
	if court.BusinessHours.End == "00:00" {
		court.BusinessHours.End = "24:00"
	}

	return &court, nil
}
