package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/engine"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
	trainerClient "github.com/m04kA/SMC-CourtBookingService/internal/integrations/trainerservice"
	bookingModels "github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/events"
)

// UseCase use case для создания бронирования корта
type UseCase struct {
	bookingRepo   BookingRepository
	courtRepo     CourtRepository
	ruleSource    RuleSource
	holidayRepo   HolidayRepository
	trainerClient TrainerServiceClient
	suggester     SlotSuggester
	publisher     EventPublisher
	txManager     TransactionManager
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	ruleSource RuleSource,
	holidayRepo HolidayRepository,
	trainerClient TrainerServiceClient,
	suggester SlotSuggester,
	publisher EventPublisher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		courtRepo:     courtRepo,
		ruleSource:    ruleSource,
		holidayRepo:   holidayRepo,
		trainerClient: trainerClient,
		suggester:     suggester,
		publisher:     publisher,
		txManager:     txManager,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка конфликта и вставка идут в одной сериализуемой транзакции
// При конфликте возвращает *UnavailableError с альтернативными слотами
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, court=%d, date=%s, time=%s, duration=%d, trainer=%v",
		req.UserID, req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, req.DurationMinutes, req.TrainerID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}
	interval, err := bookingInterval(req.StartTime, req.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}
	date := domain.DateOnly(req.Date)

	// 2. Дата и время не в прошлом
	now := uc.timeProvider.Now()
	if err := validateDate(date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}
	if err := validateBookingTime(date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем корт и проверяем часы работы
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("CreateBooking: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("CreateBooking: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}
	if err := validateBusinessHours(court, interval); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 4. Для тренировки проверяем расписание тренера
	// При недоступности TrainerService заявка создается в статусе pending без проверки
	if req.TrainerID != nil {
		if err := uc.checkTrainer(ctx, *req.TrainerID, date, interval); err != nil {
			if errors.Is(err, ErrSlotNotAvailable) {
				uc.metrics.IncBookingConflict(ReasonTrainer)
				return nil, uc.unavailable(ctx, court, date, interval, req.TrainerID, &UnavailableError{Reason: ReasonTrainer})
			}
			return nil, err
		}
	}

	// 5. Календарь праздников для расчета цены
	holidays, err := uc.holidayRepo.GetCalendar(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to load holidays: %v", err)
		return nil, fmt.Errorf("%w: failed to load holidays: %v", ErrInternal, err)
	}
	resolver := engine.NewResolver(holidays)

	var (
		result *domain.Booking
		price  domain.EffectivePrice
	)

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Активные бронирования корта на дату с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByCourtsWithFilter(txCtx, domain.CourtBookingsFilter{
			CourtIDs:  []int64{court.ID},
			StartDate: &date,
			EndDate:   &date,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 6.2. Проверяем пересечение с существующими бронированиями
		if err := engine.CheckBookingConflict(court.ID, date, interval, bookings); err != nil {
			return err
		}

		// 6.3. Снимок цены по актуальным правилам
		rules, err := uc.ruleSource.GetAllByCourt(txCtx, court.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get price rules: %v", err)
			return fmt.Errorf("%w: failed to get price rules: %v", ErrInternal, err)
		}
		price, err = resolver.PriceAt(*court, rules, date, interval.Start, interval.DurationMinutes())
		if err != nil {
			return fmt.Errorf("%w: failed to resolve price: %v", ErrInternal, err)
		}

		// 6.4. Создаем бронирование
		status := domain.StatusReserved
		if req.TrainerID != nil {
			status = domain.StatusPending
		}

		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			CourtID:    court.ID,
			UserID:     req.UserID,
			TrainerID:  req.TrainerID,
			Date:       date,
			Interval:   interval,
			Status:     status,
			PriceCents: price.PriceCents,
			RuleID:     price.RuleID,
			Notes:      req.Notes,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		var conflict *domain.SlotUnavailableError
		if errors.As(err, &conflict) {
			uc.logger.Warn("CreateBooking: slot %s on %s overlaps booking id=%d",
				interval, date.Format(domain.DateFormat), conflict.ConflictingBookingID)
			uc.metrics.IncBookingConflict(ReasonBooked)
			return nil, uc.unavailable(ctx, court, date, interval, req.TrainerID,
				&UnavailableError{Reason: ReasonBooked, ConflictingBookingID: conflict.ConflictingBookingID})
		}
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	kind := "quick"
	if result.IsTraining() {
		kind = "training"
	}
	uc.metrics.IncBookingCreated(kind)

	if err := uc.publisher.Publish(ctx, events.TypeBookingCreated, fmt.Sprintf("%d", result.CourtID), bookingModels.NewBookingEvent(result)); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish %s for booking id=%d: %v", events.TypeBookingCreated, result.ID, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, price=%d", result.ID, result.PriceCents)

	return &Response{
		ID:               result.ID,
		CourtID:          result.CourtID,
		UserID:           result.UserID,
		TrainerID:        result.TrainerID,
		BookingDate:      result.Date,
		StartTime:        result.Interval.Start,
		EndTime:          result.Interval.End,
		Status:           string(result.Status),
		PriceCents:       result.PriceCents,
		RatePerHourCents: price.RatePerHourCents,
		PriceRuleID:      result.RuleID,
		Notes:            result.Notes,
		CreatedAt:        result.CreatedAt,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}

// checkTrainer проверяет, что тренер работает и свободен в интервале
// ErrSlotNotAvailable - тренер занят; недоступность TrainerService не считается ошибкой
func (uc *UseCase) checkTrainer(ctx context.Context, trainerID int64, date time.Time, interval domain.TimeInterval) error {
	availability, err := uc.trainerClient.GetAvailabilityWithGracefulDegradation(ctx, trainerID, date, date)
	if err != nil {
		if errors.Is(err, trainerClient.ErrTrainerNotFound) {
			uc.logger.Warn("CreateBooking: trainer id=%d not found", trainerID)
			return ErrTrainerNotFound
		}
		uc.logger.Warn("CreateBooking: trainer schedule is unavailable, skipping check: %v", err)
		return nil
	}

	day, ok := availability.ToDomain()[date.Format(domain.DateFormat)]
	if !ok || !day.Covers(interval) {
		uc.logger.Warn("CreateBooking: trainer id=%d is not available at %s on %s",
			trainerID, interval, date.Format(domain.DateFormat))
		return ErrSlotNotAvailable
	}
	return nil
}

// unavailable дополняет ошибку альтернативными слотами
// Ошибка поиска не скрывает конфликт: возвращаем его с пустым списком
func (uc *UseCase) unavailable(ctx context.Context, court *domain.Court, date time.Time, interval domain.TimeInterval, trainerID *int64, unavailableErr *UnavailableError) error {
	suggestions, err := uc.suggester.Alternatives(ctx, *court, date, interval, trainerID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to find alternatives: %v", err)
		suggestions = []domain.Suggestion{}
	}
	unavailableErr.Suggestions = suggestions

	uc.logger.Info("CreateBooking: offering %d alternatives for court=%d", len(suggestions), court.ID)
	return unavailableErr
}
