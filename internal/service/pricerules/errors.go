package pricerules

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило цены не найдено
	ErrRuleNotFound = errors.New("price rule not found")

	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("court not found")

	// ErrClubNotFound возвращается, когда клуб корта не найден
	ErrClubNotFound = errors.New("club not found")

	// ErrHolidayNotFound возвращается, когда правило ссылается на неизвестный праздник
	ErrHolidayNotFound = errors.New("holiday not found")

	// ErrAccessDenied возвращается, когда пользователь не менеджер клуба
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
