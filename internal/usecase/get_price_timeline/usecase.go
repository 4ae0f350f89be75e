package get_price_timeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/engine"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
)

// UseCase use case расчета цены корта
type UseCase struct {
	courtRepo   CourtRepository
	ruleSource  RuleSource
	holidayRepo HolidayRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(courtRepo CourtRepository, ruleSource RuleSource, holidayRepo HolidayRepository, logger Logger) *UseCase {
	return &UseCase{
		courtRepo:   courtRepo,
		ruleSource:  ruleSource,
		holidayRepo: holidayRepo,
		logger:      logger,
	}
}

// Timeline разбивает окно на участки с единой ставкой
// Участки без правил оцениваются по цене корта по умолчанию
func (uc *UseCase) Timeline(ctx context.Context, req *TimelineRequest) (*TimelineResponse, error) {
	uc.logger.Info("GetPriceTimeline: court=%d, date=%s, window=%s-%s",
		req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	window, err := validateTimelineRequest(req)
	if err != nil {
		uc.logger.Warn("GetPriceTimeline: validation failed: %v", err)
		return nil, err
	}

	court, resolver, rules, err := uc.load(ctx, req.CourtID)
	if err != nil {
		return nil, err
	}

	timeline, err := resolver.Timeline(*court, rules, domain.DateOnly(req.Date), window)
	if err != nil {
		uc.logger.Error("GetPriceTimeline: failed to build timeline: %v", err)
		return nil, fmt.Errorf("%w: failed to build timeline: %v", ErrInternal, err)
	}

	segments := make([]Segment, 0, len(timeline.Segments))
	for _, s := range timeline.Segments {
		segments = append(segments, Segment{
			StartTime:        s.Interval.Start,
			EndTime:          s.Interval.End,
			RatePerHourCents: s.RatePerHourCents,
			AmountCents:      s.AmountCents,
			RuleID:           s.RuleID,
			Tier:             s.Tier.String(),
		})
	}

	uc.logger.Info("GetPriceTimeline: court=%d, %d segments, total=%d", court.ID, len(segments), timeline.TotalCents)

	return &TimelineResponse{
		CourtID:    court.ID,
		Date:       timeline.Date,
		StartTime:  window.Start,
		EndTime:    window.End,
		Segments:   segments,
		TotalCents: timeline.TotalCents,
	}, nil
}

// Price возвращает цену бронирования: ставку определяет правило, действующее в момент начала
func (uc *UseCase) Price(ctx context.Context, req *PriceRequest) (*PriceResponse, error) {
	uc.logger.Info("GetPrice: court=%d, date=%s, time=%s, duration=%d",
		req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, req.DurationMinutes)

	if err := validatePriceRequest(req); err != nil {
		uc.logger.Warn("GetPrice: validation failed: %v", err)
		return nil, err
	}
	end, err := req.StartTime.AddMinutes(req.DurationMinutes)
	if err != nil {
		uc.logger.Warn("GetPrice: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w: %v", ErrInvalidInput, domain.ErrInvalidInterval, err)
	}

	court, resolver, rules, err := uc.load(ctx, req.CourtID)
	if err != nil {
		return nil, err
	}

	price, err := resolver.PriceAt(*court, rules, domain.DateOnly(req.Date), req.StartTime, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInterval) {
			uc.logger.Warn("GetPrice: validation failed: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		uc.logger.Error("GetPrice: failed to resolve price: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve price: %v", ErrInternal, err)
	}

	return &PriceResponse{
		CourtID:          court.ID,
		Date:             domain.DateOnly(req.Date),
		StartTime:        req.StartTime,
		EndTime:          end,
		DurationMinutes:  price.DurationMinutes,
		PriceCents:       price.PriceCents,
		RatePerHourCents: price.RatePerHourCents,
		RuleID:           price.RuleID,
	}, nil
}

// load получает корт, его правила и календарь праздников
func (uc *UseCase) load(ctx context.Context, courtID int64) (*domain.Court, *engine.Resolver, []domain.PriceRule, error) {
	court, err := uc.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("GetPriceTimeline: court id=%d not found", courtID)
			return nil, nil, nil, ErrCourtNotFound
		}
		uc.logger.Error("GetPriceTimeline: failed to get court id=%d: %v", courtID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	rules, err := uc.ruleSource.GetAllByCourt(ctx, courtID)
	if err != nil {
		uc.logger.Error("GetPriceTimeline: failed to get rules of court=%d: %v", courtID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get price rules: %v", ErrInternal, err)
	}

	holidays, err := uc.holidayRepo.GetCalendar(ctx)
	if err != nil {
		uc.logger.Error("GetPriceTimeline: failed to load holidays: %v", err)
		return nil, nil, nil, fmt.Errorf("%w: failed to load holidays: %v", ErrInternal, err)
	}

	return court, engine.NewResolver(holidays), rules, nil
}
