package handlers

import (
	"Wishwall/internal/service"
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorResponse — тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor сопоставляет ошибки сервиса HTTP-статусам.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage — текст ошибки для клиента; детали хранилища остаются только в логе.
func publicMessage(err error) string {
	switch statusFor(err) {
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "wish not found"
	default:
		return "failed to save wishes"
	}
}
