package trainerservice

import "errors"

var (
	// ErrTrainerNotFound возвращается, когда тренер не найден
	ErrTrainerNotFound = errors.New("trainer not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("trainerservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("trainerservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что TrainerService недоступен и расписание тренера проверить нельзя
	ErrServiceDegraded = errors.New("trainerservice unavailable: graceful degradation applied")
)
