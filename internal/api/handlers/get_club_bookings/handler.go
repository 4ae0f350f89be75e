package get_club_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
)

const (
	msgInvalidClubID = "некорректный ID клуба"
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidParams = "некорректные параметры запроса"
	msgForbidden     = "доступ запрещен"
	msgClubNotFound  = "клуб не найден"
	msgCourtNotFound = "корт не найден в клубе"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clubs/{clubId}/bookings
// Query params: courtId, status, date, startDate, endDate, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем clubId из URL
	vars := mux.Vars(r)
	clubIDStr := vars["clubId"]

	clubID, err := strconv.ParseInt(clubIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/bookings - Invalid club ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /clubs/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(clubID, userID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Получаем бронирования клуба (сервис сам проверит права менеджера)
	result, err := h.service.GetClubBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /clubs/{id}/bookings - Access denied: club_id=%d, user_id=%d",
				clubID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrClubNotFound):
			h.logger.Warn("GET /clubs/{id}/bookings - Club not found: club_id=%d", clubID)
			handlers.RespondNotFound(w, msgClubNotFound)

		case errors.Is(err, bookings.ErrCourtNotFound):
			h.logger.Warn("GET /clubs/{id}/bookings - Court not found in club: club_id=%d, court_id=%v",
				clubID, serviceReq.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /clubs/{id}/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /clubs/{id}/bookings - Failed to get bookings: club_id=%d, error=%v",
				clubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clubs/{id}/bookings - Bookings retrieved successfully: club_id=%d, count=%d",
		clubID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
