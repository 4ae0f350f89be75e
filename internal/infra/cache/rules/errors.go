package rules

import "errors"

var (
	// ErrCacheMiss ключ отсутствует в кэше
	ErrCacheMiss = errors.New("rules.cache: miss")

	// ErrDecode закэшированное значение не удалось разобрать
	ErrDecode = errors.New("rules.cache: failed to decode cached rules")
)
