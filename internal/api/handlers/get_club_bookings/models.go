package get_club_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date задает однодневный период, startDate/endDate произвольный
func ToServiceRequest(clubID int64, userID int64, query url.Values) (*models.GetClubBookingsRequest, error) {
	req := &models.GetClubBookingsRequest{
		UserID:          userID,
		ClubID:          clubID,
		IncludeInactive: false, // По умолчанию только активные
	}

	// Парсим courtId если указан
	if courtIDStr := query.Get("courtId"); courtIDStr != "" {
		courtID, err := strconv.ParseInt(courtIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid courtId value: %w", err)
		}
		req.CourtID = &courtID
	}

	if statusStr := query.Get("status"); statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := domain.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date value: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	if startStr := query.Get("startDate"); startStr != "" {
		start, err := domain.ParseDate(startStr)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate value: %w", err)
		}
		req.StartDate = &start
	}

	if endStr := query.Get("endDate"); endStr != "" {
		end, err := domain.ParseDate(endStr)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate value: %w", err)
		}
		req.EndDate = &end
	}

	// Парсим includeInactive если указан
	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
