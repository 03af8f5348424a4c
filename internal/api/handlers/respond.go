package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Машиночитаемые коды ошибок API
const (
	CodeValidationError   = "VALIDATION_ERROR"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeCaptchaFailed     = "CAPTCHA_FAILED"
	CodeEmployeeNotFound  = "EMPLOYEE_NOT_FOUND"
	CodeBookingNotFound   = "BOOKING_NOT_FOUND"
	CodeSlotTaken         = "SLOT_TAKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeConflict          = "CONFLICT"
	CodeAccessDenied      = "ACCESS_DENIED"
	CodeAliasTaken        = "ALIAS_TAKEN"
	CodeInternalError     = "INTERNAL_ERROR"
)

// ErrorResponse единый формат ошибки API
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// ResetAt время сброса окна rate limiter, только для RATE_LIMIT_EXCEEDED
	ResetAt *string `json:"resetAt,omitempty"`
}

// DecodeJSON декодирует тело запроса в структуру
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

// RespondJSON пишет успешный JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError пишет ошибку в едином формате
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// RespondBadRequest пишет 400 с кодом VALIDATION_ERROR
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, CodeValidationError, message)
}

// RespondNotFound пишет 404 с указанным кодом
func RespondNotFound(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusNotFound, code, message)
}

// RespondConflict пишет 409 с указанным кодом
func RespondConflict(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusConflict, code, message)
}

// RespondRateLimited пишет 429 с временем сброса окна
func RespondRateLimited(w http.ResponseWriter, message string, resetAt time.Time) {
	reset := resetAt.Format(time.RFC3339)
	RespondJSON(w, http.StatusTooManyRequests, ErrorResponse{
		Code:    CodeRateLimitExceeded,
		Message: message,
		ResetAt: &reset,
	})
}

// RespondInternalError пишет 500 с кодом INTERNAL_ERROR
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, CodeInternalError, "внутренняя ошибка сервиса")
}
