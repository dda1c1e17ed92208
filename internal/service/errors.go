package service

import "errors"

// Ошибки операций над пожеланиями. Сервис оборачивает их через %w,
// вызывающий код проверяет через errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("wish not found")
	ErrPersistence  = errors.New("persistence failed")
)

// outcome — метка исхода операции для метрик
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "error"
	}
}
