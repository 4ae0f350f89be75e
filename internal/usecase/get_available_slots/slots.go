package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/engine"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// generateTimeSlots генерирует все слоты длительностью duration внутри часов работы
// Начала слотов идут с шагом step от открытия корта
// На сегодня отбрасываются слоты, которые уже начались
func generateTimeSlots(
	hours domain.TimeInterval,
	duration int,
	step int,
	requestDate time.Time,
	now time.Time,
) []domain.TimeInterval {
	// Проверяем, что дата не в прошлом
	if isDateInPast(requestDate, now) {
		return []domain.TimeInterval{}
	}

	slots := make([]domain.TimeInterval, 0)
	for start := hours.StartMinutes(); start+duration <= hours.EndMinutes(); start += step {
		slots = append(slots, domain.IntervalFromMinutes(start, start+duration))
	}

	// Если дата бронирования НЕ сегодня - возвращаем все слоты
	if !domain.SameDate(requestDate, now) {
		return slots
	}

	currentTime := types.NewTimeString(now)
	upcoming := make([]domain.TimeInterval, 0, len(slots))
	for _, slot := range slots {
		if !slot.Start.IsBefore(currentTime) {
			upcoming = append(upcoming, slot)
		}
	}
	return upcoming
}

// markAvailability проверяет каждый слот на пересечение с активными бронированиями
// Слоты, которые только граничат с бронированием, свободны
func markAvailability(courtID int64, date time.Time, slots []domain.TimeInterval, bookings []*domain.Booking) []bool {
	available := make([]bool, len(slots))
	for i, slot := range slots {
		available[i] = engine.CheckBookingConflict(courtID, date, slot, bookings) == nil
	}
	return available
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return domain.DateOnly(date).Before(domain.DateOnly(now))
}
