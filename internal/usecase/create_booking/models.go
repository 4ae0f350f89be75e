package create_booking

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
// С TrainerID это заявка на тренировку, без него быстрое бронирование
type Request struct {
	UserID          int64            // ID пользователя
	CourtID         int64            // ID корта
	Date            time.Time        // Дата бронирования (без времени)
	StartTime       types.TimeString // Время начала (например, "10:00")
	DurationMinutes int              // Длительность в минутах
	TrainerID       *int64           // ID тренера (опционально)
	Notes           *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64            // ID созданного бронирования
	CourtID     int64            // ID корта
	UserID      int64            // ID пользователя
	TrainerID   *int64           // ID тренера
	BookingDate time.Time        // Дата бронирования
	StartTime   types.TimeString // Время начала
	EndTime     types.TimeString // Время окончания
	Status      string           // Статус бронирования

	// Снимок цены на момент бронирования
	PriceCents       int64   // Итоговая цена
	RatePerHourCents int64   // Ставка за час в начале слота
	PriceRuleID      *string // Правило, определившее ставку; nil - цена корта по умолчанию

	Notes     *string   // Заметки
	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
