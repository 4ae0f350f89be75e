package suggest_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модель запроса на поиск альтернативных слотов
type Request struct {
	CourtID         int64            // ID корта
	Date            time.Time        // Желаемая дата
	StartTime       types.TimeString // Желаемое время начала
	DurationMinutes int              // Длительность
	TrainerID       *int64           // ID тренера для тренировки (опционально)
	Limit           int              // Количество вариантов, 0 - значение из конфига
}

// Slot предложенный слот с ценой
type Slot struct {
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	CourtID    int64
	CourtName  string
	PriceCents int64
}

// Response модель ответа со списком предложений
type Response struct {
	CourtID         int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	TrainerIgnored  bool // TrainerService недоступен, расписание тренера не учтено
	Slots           []Slot
}
