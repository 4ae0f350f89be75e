package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
	clubClient "github.com/m04kA/SMC-CourtBookingService/internal/integrations/clubservice"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/events"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	courtRepo   CourtRepository
	clubClient  ClubServiceClient
	publisher   EventPublisher
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	clubClient ClubServiceClient,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		courtRepo:   courtRepo,
		clubClient:  clubClient,
		publisher:   publisher,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь может видеть только своё бронирование
// или если он является менеджером клуба корта
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		if err := s.checkCourtManager(ctx, booking.CourtID, userID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
			return nil, ErrAccessDenied
		}
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetClubBookings получает бронирования кортов клуба с фильтрацией
// Поддерживает фильтрацию по корту, периоду, статусу и включению отменённых бронирований
// Доступно только менеджерам клуба
func (s *Service) GetClubBookings(ctx context.Context, req *models.GetClubBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetClubBookings: fetching bookings for club=%d, user=%d", req.ClubID, req.UserID)
	if req.CourtID != nil {
		logMsg += fmt.Sprintf(", court=%d", *req.CourtID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info("%s", logMsg)

	if err := s.checkClubManager(ctx, req.ClubID, req.UserID); err != nil {
		return nil, err
	}

	courts, err := s.courtRepo.GetByClubID(ctx, req.ClubID)
	if err != nil {
		s.logger.Error("GetClubBookings: failed to get courts of club=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: GetClubBookings - repository error: %v", ErrInternal, err)
	}

	courtIDs := make([]int64, 0, len(courts))
	for _, c := range courts {
		if req.CourtID != nil && c.ID != *req.CourtID {
			continue
		}
		courtIDs = append(courtIDs, c.ID)
	}
	if req.CourtID != nil && len(courtIDs) == 0 {
		s.logger.Warn("GetClubBookings: court=%d does not belong to club=%d", *req.CourtID, req.ClubID)
		return nil, ErrCourtNotFound
	}
	if len(courtIDs) == 0 {
		return models.FromDomainBookingList(nil), nil
	}

	filter, err := req.ToDomainFilter(courtIDs)
	if err != nil {
		s.logger.Warn("GetClubBookings: invalid filter for club=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByCourtsWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetClubBookings: repository error for club=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: GetClubBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClubBookings: successfully fetched %d bookings for club=%d", len(bookings), req.ClubID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Отменить может владелец бронирования или менеджер клуба
// После отмены слот снова доступен для бронирования
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if booking.UserID != req.UserID {
		if err := s.checkCourtManager(ctx, booking.CourtID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
			return ErrAccessDenied
		}
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCancelled
	if err := s.publisher.Publish(ctx, events.TypeBookingCancelled, fmt.Sprintf("%d", booking.CourtID), models.NewBookingEvent(booking)); err != nil {
		s.logger.Warn("Cancel: failed to publish %s for booking id=%d: %v", events.TypeBookingCancelled, bookingID, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// UpdateStatus обновляет статус бронирования
// Доступно только менеджерам клуба. Отмена выполняется через Cancel
// Допустимые переходы: pending -> reserved|confirmed, reserved -> confirmed
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return err
	}

	if err := s.checkCourtManager(ctx, booking.CourtID, req.UserID); err != nil {
		return err
	}

	if !canTransition(booking.Status, newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%d",
			booking.Status, newStatus, bookingID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, booking.Status, newStatus)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found during update", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// Вспомогательные методы

func canTransition(from, to domain.BookingStatus) bool {
	switch from {
	case domain.StatusPending:
		return to == domain.StatusReserved || to == domain.StatusConfirmed
	case domain.StatusReserved:
		return to == domain.StatusConfirmed
	}
	return false
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkCourtManager проверяет, что пользователь менеджер клуба, которому принадлежит корт
func (s *Service) checkCourtManager(ctx context.Context, courtID int64, userID int64) error {
	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("checkCourtManager: court id=%d not found", courtID)
			return ErrCourtNotFound
		}
		s.logger.Error("checkCourtManager: failed to get court id=%d: %v", courtID, err)
		return fmt.Errorf("%w: checkCourtManager - repository error: %v", ErrInternal, err)
	}
	return s.checkClubManager(ctx, court.ClubID, userID)
}

// checkClubManager проверяет, что пользователь является менеджером клуба
func (s *Service) checkClubManager(ctx context.Context, clubID int64, userID int64) error {
	club, err := s.clubClient.GetClub(ctx, clubID)
	if err != nil {
		if errors.Is(err, clubClient.ErrClubNotFound) {
			s.logger.Warn("checkClubManager: club id=%d not found", clubID)
			return ErrClubNotFound
		}
		s.logger.Error("checkClubManager: failed to get club id=%d: %v", clubID, err)
		return fmt.Errorf("%w: checkClubManager - failed to get club: %v", ErrInternal, err)
	}

	if !club.IsManager(userID) {
		s.logger.Warn("checkClubManager: user=%d is not a manager of club=%d", userID, clubID)
		return ErrAccessDenied
	}

	s.logger.Info("checkClubManager: user=%d is manager of club=%d", userID, clubID)
	return nil
}
