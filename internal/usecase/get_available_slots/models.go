package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модель запроса на получение слотов корта
type Request struct {
	CourtID         int64     // ID корта
	Date            time.Time // Дата для получения слотов (без времени)
	DurationMinutes int       // Длительность слота; 0 - длительность по умолчанию
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	CourtID         int64     // ID корта
	DurationMinutes int       // Длительность слота в минутах
	StepMinutes     int       // Шаг между началами слотов
	Slots           []Slot    // Список слотов в часах работы корта
}

// Slot модель временного слота
type Slot struct {
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	EndTime    types.TimeString // Время окончания слота
	Available  bool             // Слот не пересекается с активными бронированиями
	PriceCents int64            // Цена слота по правилам корта
	RuleID     *string          // Правило, определившее ставку; nil - цена по умолчанию
}
