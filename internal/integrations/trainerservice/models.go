package trainerservice

// Interval интервал времени "HH:MM"-"HH:MM"
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Day расписание тренера на одну дату
type Day struct {
	Date    string     `json:"date"` // YYYY-MM-DD
	Working []Interval `json:"working"`
	Busy    []Interval `json:"busy"`
}

// Availability ответ TrainerService на запрос расписания за период
type Availability struct {
	TrainerID int64 `json:"trainer_id"`
	Days      []Day `json:"days"`
}

// ErrorResponse модель ошибки от TrainerService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
