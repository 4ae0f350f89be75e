package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/engine"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
)

// UseCase use case для получения слотов корта на дату
type UseCase struct {
	bookingRepo        BookingRepository
	courtRepo          CourtRepository
	ruleSource         RuleSource
	holidayRepo        HolidayRepository
	stepMinutes        int
	advanceBookingDays int
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	ruleSource RuleSource,
	holidayRepo HolidayRepository,
	stepMinutes int,
	advanceBookingDays int,
	logger Logger,
) *UseCase {
	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSuggestionStepMinutes
	}
	return &UseCase{
		bookingRepo:        bookingRepo,
		courtRepo:          courtRepo,
		ruleSource:         ruleSource,
		holidayRepo:        holidayRepo,
		stepMinutes:        stepMinutes,
		advanceBookingDays: advanceBookingDays,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute выполняет use case получения слотов
// Занятые слоты тоже возвращаются, с Available = false
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: court=%d, date=%s, duration=%d",
		req.CourtID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = domain.DefaultSlotDurationMinutes
	}
	date := domain.DateOnly(req.Date)

	// 2. Валидация даты
	now := uc.timeProvider.Now()
	if err := validateDate(date, now, uc.advanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем корт
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("GetAvailableSlots: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 4. Генерируем временные слоты
	intervals := generateTimeSlots(engine.BusinessHours(*court), duration, uc.stepMinutes, date, now)

	response := &Response{
		Date:            date,
		CourtID:         court.ID,
		DurationMinutes: duration,
		StepMinutes:     uc.stepMinutes,
		Slots:           []Slot{},
	}
	if len(intervals) == 0 {
		uc.logger.Info("GetAvailableSlots: no slots left for court=%d on %s", court.ID, date.Format(domain.DateFormat))
		return response, nil
	}

	// 5. Получаем активные бронирования корта на эту дату
	bookings, err := uc.bookingRepo.GetByCourtsWithFilter(ctx, domain.CourtBookingsFilter{
		CourtIDs:        []int64{court.ID},
		StartDate:       &date,
		EndDate:         &date,
		IncludeInactive: false,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Правила цены и календарь праздников
	rules, err := uc.ruleSource.GetAllByCourt(ctx, court.ID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get price rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get price rules: %v", ErrInternal, err)
	}
	holidays, err := uc.holidayRepo.GetCalendar(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load holidays: %v", err)
		return nil, fmt.Errorf("%w: failed to load holidays: %v", ErrInternal, err)
	}
	resolver := engine.NewResolver(holidays)

	// 7. Доступность и цена каждого слота
	available := markAvailability(court.ID, date, intervals, bookings)
	response.Slots = make([]Slot, 0, len(intervals))
	free := 0
	for i, slot := range intervals {
		price, err := resolver.PriceAt(*court, rules, date, slot.Start, duration)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to resolve price at %s: %v", slot.Start, err)
			return nil, fmt.Errorf("%w: failed to resolve price: %v", ErrInternal, err)
		}
		if available[i] {
			free++
		}
		response.Slots = append(response.Slots, Slot{
			StartTime:  slot.Start,
			EndTime:    slot.End,
			Available:  available[i],
			PriceCents: price.PriceCents,
			RuleID:     price.RuleID,
		})
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots (%d free) for court=%d, date=%s",
		len(response.Slots), free, court.ID, date.Format(domain.DateFormat))

	return response, nil
}
