package suggest_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/engine"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
	trainerClient "github.com/m04kA/SMC-CourtBookingService/internal/integrations/trainerservice"
)

// UseCase use case поиска альтернативных свободных слотов
type UseCase struct {
	courtRepo     CourtRepository
	bookingRepo   BookingRepository
	ruleSource    RuleSource
	holidayRepo   HolidayRepository
	trainerClient TrainerServiceClient
	suggester     *engine.Suggester
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	courtRepo CourtRepository,
	bookingRepo BookingRepository,
	ruleSource RuleSource,
	holidayRepo HolidayRepository,
	trainerClient TrainerServiceClient,
	suggester *engine.Suggester,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:     courtRepo,
		bookingRepo:   bookingRepo,
		ruleSource:    ruleSource,
		holidayRepo:   holidayRepo,
		trainerClient: trainerClient,
		suggester:     suggester,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// searchResult результат поиска до расчета цен
type searchResult struct {
	suggestions    []domain.Suggestion
	courts         map[int64]domain.Court
	trainerIgnored bool
}

// Execute ищет ближайшие свободные слоты той же длительности
// на запрошенном корте и соседних кортах клуба, с ценой каждого слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SuggestSlots: court=%d, date=%s, time=%s, duration=%d, trainer=%v",
		req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, req.DurationMinutes, req.TrainerID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SuggestSlots: validation failed: %v", err)
		return nil, err
	}
	interval, err := requestedInterval(req)
	if err != nil {
		uc.logger.Warn("SuggestSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем корт
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("SuggestSlots: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("SuggestSlots: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 3. Ищем альтернативы
	found, err := uc.search(ctx, *court, domain.DateOnly(req.Date), interval, req.TrainerID, req.Limit)
	if err != nil {
		return nil, err
	}

	// 4. Считаем цену каждого предложенного слота
	slots, err := uc.price(ctx, found)
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveSuggestions("suggest_slots", len(slots))
	uc.logger.Info("SuggestSlots: found %d slots for court=%d", len(slots), req.CourtID)

	return &Response{
		CourtID:         court.ID,
		Date:            domain.DateOnly(req.Date),
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		TrainerIgnored:  found.trainerIgnored,
		Slots:           slots,
	}, nil
}

// Alternatives возвращает альтернативы для конфликтующего запроса бронирования
// Используется create_booking, лимит из конфигурации
func (uc *UseCase) Alternatives(ctx context.Context, court domain.Court, date time.Time, interval domain.TimeInterval, trainerID *int64) ([]domain.Suggestion, error) {
	found, err := uc.search(ctx, court, domain.DateOnly(date), interval, trainerID, 0)
	if err != nil {
		return nil, err
	}
	uc.metrics.ObserveSuggestions("create_booking", len(found.suggestions))
	return found.suggestions, nil
}

func (uc *UseCase) search(ctx context.Context, court domain.Court, date time.Time, interval domain.TimeInterval, trainerID *int64, limit int) (*searchResult, error) {
	suggester := uc.suggester
	if limit > 0 {
		cfg := suggester.Config()
		cfg.Limit = limit
		suggester = engine.NewSuggester(cfg)
	}
	horizonEnd := date.AddDate(0, 0, suggester.Config().HorizonDays)

	// Соседние корты клуба
	siblings, err := uc.courtRepo.GetByClubID(ctx, court.ClubID)
	if err != nil {
		uc.logger.Error("SuggestSlots: failed to get courts of club=%d: %v", court.ClubID, err)
		return nil, fmt.Errorf("%w: failed to get club courts: %v", ErrInternal, err)
	}

	courts := map[int64]domain.Court{court.ID: court}
	courtIDs := []int64{court.ID}
	for _, c := range siblings {
		if _, ok := courts[c.ID]; ok {
			continue
		}
		courts[c.ID] = c
		courtIDs = append(courtIDs, c.ID)
	}

	// Бронирования всех кортов на горизонт поиска
	bookings, err := uc.bookingRepo.GetByCourtsAndDates(ctx, courtIDs, date, horizonEnd)
	if err != nil {
		uc.logger.Error("SuggestSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// Расписание тренера. При недоступности TrainerService ищем без учета тренера
	var trainers engine.TrainerLookup
	trainerIgnored := false
	if trainerID != nil {
		availability, err := uc.trainerClient.GetAvailabilityWithGracefulDegradation(ctx, *trainerID, date, horizonEnd)
		switch {
		case err == nil:
			trainers = engine.TrainerSchedule{TrainerID: *trainerID, Days: availability.ToDomain()}
		case errors.Is(err, trainerClient.ErrTrainerNotFound):
			uc.logger.Warn("SuggestSlots: trainer id=%d not found", *trainerID)
			return nil, ErrTrainerNotFound
		default:
			uc.logger.Warn("SuggestSlots: searching without trainer schedule: %v", err)
			trainerIgnored = true
		}
	}

	suggestions := suggester.Suggest(engine.SuggestionRequest{
		Court:     court,
		Date:      date,
		Interval:  interval,
		TrainerID: trainerID,
		NotBefore: wallClock(uc.timeProvider.Now()),
	}, siblings, engine.NewBookingIndex(bookings), trainers)

	return &searchResult{suggestions: suggestions, courts: courts, trainerIgnored: trainerIgnored}, nil
}

// price считает цену каждого слота по правилам его корта
func (uc *UseCase) price(ctx context.Context, found *searchResult) ([]Slot, error) {
	slots := make([]Slot, 0, len(found.suggestions))
	if len(found.suggestions) == 0 {
		return slots, nil
	}

	holidays, err := uc.holidayRepo.GetCalendar(ctx)
	if err != nil {
		uc.logger.Error("SuggestSlots: failed to load holidays: %v", err)
		return nil, fmt.Errorf("%w: failed to load holidays: %v", ErrInternal, err)
	}
	resolver := engine.NewResolver(holidays)

	rulesByCourt := make(map[int64][]domain.PriceRule)
	for _, s := range found.suggestions {
		rules, ok := rulesByCourt[s.CourtID]
		if !ok {
			rules, err = uc.ruleSource.GetAllByCourt(ctx, s.CourtID)
			if err != nil {
				uc.logger.Error("SuggestSlots: failed to get rules of court=%d: %v", s.CourtID, err)
				return nil, fmt.Errorf("%w: failed to get price rules: %v", ErrInternal, err)
			}
			rulesByCourt[s.CourtID] = rules
		}

		price, err := resolver.PriceAt(found.courts[s.CourtID], rules, s.Date, s.Interval.Start, s.Interval.DurationMinutes())
		if err != nil {
			return nil, fmt.Errorf("%w: failed to resolve price: %v", ErrInternal, err)
		}

		slots = append(slots, Slot{
			Date:       s.Date,
			StartTime:  s.Interval.Start,
			EndTime:    s.Interval.End,
			CourtID:    s.CourtID,
			CourtName:  s.CourtName,
			PriceCents: price.PriceCents,
		})
	}
	return slots, nil
}

// wallClock переносит локальное время на UTC-дату с теми же часами и минутами
// Даты бронирований хранятся как календарные дни в UTC
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
