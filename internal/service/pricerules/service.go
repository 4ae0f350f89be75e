package pricerules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/engine"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
	ruleRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/pricerule"
	clubClient "github.com/m04kA/SMC-CourtBookingService/internal/integrations/clubservice"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricerules/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/events"
)

const (
	actionCreated = "created"
	actionUpdated = "updated"
	actionDeleted = "deleted"
)

// Service сервис управления правилами цены кортов
type Service struct {
	ruleRepo    RuleRepository
	ruleCache   RuleCache
	courtRepo   CourtRepository
	holidayRepo HolidayRepository
	clubClient  ClubServiceClient
	publisher   EventPublisher
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса правил цены
func NewService(
	ruleRepo RuleRepository,
	ruleCache RuleCache,
	courtRepo CourtRepository,
	holidayRepo HolidayRepository,
	clubClient ClubServiceClient,
	publisher EventPublisher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		ruleRepo:    ruleRepo,
		ruleCache:   ruleCache,
		courtRepo:   courtRepo,
		holidayRepo: holidayRepo,
		clubClient:  clubClient,
		publisher:   publisher,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// List возвращает все правила корта
// Публичный метод - доступен всем
func (s *Service) List(ctx context.Context, courtID int64) (*models.RuleListResponse, error) {
	s.logger.Info("List: fetching rules for court=%d", courtID)

	if _, err := s.getCourt(ctx, courtID); err != nil {
		s.logger.Warn("List: %v", err)
		return nil, err
	}

	rules, err := s.ruleCache.GetAllByCourt(ctx, courtID)
	if err != nil {
		s.logger.Error("List: failed to get rules for court=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d rules for court=%d", len(rules), courtID)
	return models.FromDomainRuleList(courtID, rules), nil
}

// Create добавляет правило цены корту
// Доступно только менеджерам клуба, которому принадлежит корт
// Проверки: интервал, взаимоисключающие поля, цена, праздник, конфликт с правилами того же уровня
func (s *Service) Create(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Create: creating rule for court=%d by user=%d", req.CourtID, req.UserID)

	// 1. Собираем и валидируем правило
	candidate, err := s.buildRule(req.CourtID, &req.RuleFields)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем корт и права доступа
	court, err := s.getCourt(ctx, req.CourtID)
	if err != nil {
		s.logger.Warn("Create: %v", err)
		return nil, err
	}
	if err := s.checkManager(ctx, court.ClubID, req.UserID); err != nil {
		s.logger.Warn("Create: user=%d denied for court=%d: %v", req.UserID, req.CourtID, err)
		return nil, err
	}

	// 3. Праздничное правило должно ссылаться на известный праздник
	if err := s.checkHoliday(ctx, candidate); err != nil {
		s.logger.Warn("Create: %v", err)
		return nil, err
	}

	// 4. Проверяем конфликты и сохраняем в одной транзакции
	var created *domain.PriceRule
	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		existing, err := s.ruleRepo.GetAllByCourt(ctx, req.CourtID)
		if err != nil {
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}

		_, rule, err := engine.NewRuleSet(req.CourtID, existing).Add(candidate)
		if err != nil {
			return err
		}

		created, err = s.ruleRepo.Create(ctx, &rule)
		if err != nil {
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.writeFailed("Create", err)
	}

	s.afterWrite(ctx, actionCreated, created.ID, created.CourtID)

	s.logger.Info("Create: successfully created rule id=%s for court=%d", created.ID, created.CourtID)
	return models.FromDomainRule(created), nil
}

// Update заменяет правило цены целиком
// Доступно только менеджерам клуба
// Конфликты проверяются относительно набора без заменяемого правила
func (s *Service) Update(ctx context.Context, req *models.UpdateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Update: updating rule id=%s by user=%d", req.RuleID, req.UserID)

	// 1. Получаем существующее правило
	current, err := s.getRule(ctx, req.RuleID)
	if err != nil {
		s.logger.Warn("Update: %v", err)
		return nil, err
	}

	// 2. Собираем и валидируем новую версию
	candidate, err := s.buildRule(current.CourtID, &req.RuleFields)
	if err != nil {
		s.logger.Warn("Update: validation failed for rule id=%s: %v", req.RuleID, err)
		return nil, err
	}
	candidate.ID = current.ID
	candidate.CreatedAt = current.CreatedAt

	// 3. Проверяем права доступа
	court, err := s.getCourt(ctx, current.CourtID)
	if err != nil {
		s.logger.Warn("Update: %v", err)
		return nil, err
	}
	if err := s.checkManager(ctx, court.ClubID, req.UserID); err != nil {
		s.logger.Warn("Update: user=%d denied for court=%d: %v", req.UserID, court.ID, err)
		return nil, err
	}

	if err := s.checkHoliday(ctx, candidate); err != nil {
		s.logger.Warn("Update: %v", err)
		return nil, err
	}

	// 4. Проверяем конфликты и обновляем
	var updated *domain.PriceRule
	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		existing, err := s.ruleRepo.GetAllByCourt(ctx, current.CourtID)
		if err != nil {
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		if _, err := engine.NewRuleSet(current.CourtID, existing).Replace(candidate); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return ErrRuleNotFound
			}
			return err
		}

		updated, err = s.ruleRepo.Update(ctx, &candidate)
		if err != nil {
			if errors.Is(err, ruleRepo.ErrRuleNotFound) {
				return ErrRuleNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.writeFailed("Update", err)
	}

	s.afterWrite(ctx, actionUpdated, updated.ID, updated.CourtID)

	s.logger.Info("Update: successfully updated rule id=%s", updated.ID)
	return models.FromDomainRule(updated), nil
}

// Delete удаляет правило цены
// Доступно только менеджерам клуба
func (s *Service) Delete(ctx context.Context, ruleID string, userID int64) error {
	s.logger.Info("Delete: deleting rule id=%s by user=%d", ruleID, userID)

	rule, err := s.getRule(ctx, ruleID)
	if err != nil {
		s.logger.Warn("Delete: %v", err)
		return err
	}

	court, err := s.getCourt(ctx, rule.CourtID)
	if err != nil {
		s.logger.Warn("Delete: %v", err)
		return err
	}
	if err := s.checkManager(ctx, court.ClubID, userID); err != nil {
		s.logger.Warn("Delete: user=%d denied for court=%d: %v", userID, court.ID, err)
		return err
	}

	if err := s.ruleRepo.Delete(ctx, ruleID); err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Delete: rule id=%s not found during deletion", ruleID)
			return ErrRuleNotFound
		}
		s.logger.Error("Delete: repository error for rule id=%s: %v", ruleID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.afterWrite(ctx, actionDeleted, ruleID, rule.CourtID)

	s.logger.Info("Delete: successfully deleted rule id=%s", ruleID)
	return nil
}

// Вспомогательные методы

// buildRule собирает доменное правило из полей запроса
// Доменная ошибка остается в цепочке вместе с ErrInvalidInput
func (s *Service) buildRule(courtID int64, fields *models.RuleFields) (domain.PriceRule, error) {
	activation, err := fields.ActivationFields()
	if err != nil {
		return domain.PriceRule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rule, err := engine.BuildRule(courtID, activation, fields.Interval(), fields.PriceCents)
	if err != nil {
		return domain.PriceRule{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return rule, nil
}

func (s *Service) getRule(ctx context.Context, id string) (*domain.PriceRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			return nil, fmt.Errorf("%w: id=%s", ErrRuleNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to get rule id=%s: %v", ErrInternal, id, err)
	}
	return rule, nil
}

func (s *Service) getCourt(ctx context.Context, id int64) (*domain.Court, error) {
	court, err := s.courtRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrCourtNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to get court id=%d: %v", ErrInternal, id, err)
	}
	return court, nil
}

// checkManager проверяет, что пользователь менеджер клуба
func (s *Service) checkManager(ctx context.Context, clubID int64, userID int64) error {
	club, err := s.clubClient.GetClub(ctx, clubID)
	if err != nil {
		if errors.Is(err, clubClient.ErrClubNotFound) {
			return ErrClubNotFound
		}
		return fmt.Errorf("%w: failed to get club: %v", ErrInternal, err)
	}
	if !club.IsManager(userID) {
		return ErrAccessDenied
	}
	return nil
}

// checkHoliday проверяет, что праздник правила есть в календаре
func (s *Service) checkHoliday(ctx context.Context, rule domain.PriceRule) error {
	holiday, ok := rule.Activation.(domain.OnHoliday)
	if !ok {
		return nil
	}

	calendar, err := s.holidayRepo.GetCalendar(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to load holidays: %v", ErrInternal, err)
	}
	for _, h := range calendar {
		if h.ID == holiday.HolidayID {
			return nil
		}
	}
	return fmt.Errorf("%w: id=%s", ErrHolidayNotFound, holiday.HolidayID)
}

// writeFailed логирует ошибку транзакции записи и учитывает конфликты
func (s *Service) writeFailed(op string, err error) error {
	var conflict *domain.RuleConflictError
	switch {
	case errors.As(err, &conflict):
		s.metrics.IncRuleConflict("overlap")
		s.logger.Warn("%s: rule conflicts with rule id=%s", op, conflict.ConflictingRuleID)
		return err
	case errors.Is(err, domain.ErrRuleConflict):
		s.metrics.IncRuleConflict("duplicate")
		s.logger.Warn("%s: %v", op, err)
		return err
	case errors.Is(err, ErrRuleNotFound):
		s.logger.Warn("%s: rule not found during write", op)
		return err
	default:
		s.logger.Error("%s: %v", op, err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %s - transaction error: %v", ErrInternal, op, err)
	}
}

// afterWrite сбрасывает кэш правил корта и публикует событие
// Ошибки не откатывают запись: кэш живет по TTL, событие best-effort
func (s *Service) afterWrite(ctx context.Context, action string, ruleID string, courtID int64) {
	if err := s.ruleCache.Invalidate(ctx, courtID); err != nil {
		s.logger.Warn("%s: failed to invalidate rules cache for court=%d: %v", action, courtID, err)
	}

	event := models.RuleChangedEvent{Action: action, RuleID: ruleID, CourtID: courtID}
	if err := s.publisher.Publish(ctx, events.TypePriceRuleChanged, fmt.Sprintf("%d", courtID), event); err != nil {
		s.logger.Warn("%s: failed to publish %s for rule id=%s: %v", action, events.TypePriceRuleChanged, ruleID, err)
	}
}
