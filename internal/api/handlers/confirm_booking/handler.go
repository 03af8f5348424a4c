package confirm_booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	confirmBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_booking"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingToken     = "токен подтверждения обязателен"
	msgBookingNotFound  = "бронирование не найдено"
	msgInvalidToken     = "недействительный токен подтверждения"
	msgNotPending       = "бронирование уже не ожидает подтверждения"
)

// ConfirmedResponse HTTP response model
type ConfirmedResponse struct {
	ID          int64   `json:"id"`
	EmployeeID  int64   `json:"employeeId"`
	Subject     string  `json:"subject"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Status      string  `json:"status"`
	MeetingLink *string `json:"meetingLink,omitempty"`
}

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{id}/confirm?token=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		handlers.RespondBadRequest(w, msgMissingToken)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmBooking.Request{
		BookingID: bookingID,
		Token:     token,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/%d/confirm - Booking not found", bookingID)
			handlers.RespondNotFound(w, handlers.CodeBookingNotFound, msgBookingNotFound)

		case errors.Is(err, confirmBooking.ErrInvalidToken):
			h.logger.Warn("POST /bookings/%d/confirm - Invalid token", bookingID)
			handlers.RespondError(w, http.StatusForbidden, handlers.CodeInvalidToken, msgInvalidToken)

		case errors.Is(err, confirmBooking.ErrNotPending):
			h.logger.Warn("POST /bookings/%d/confirm - Not pending", bookingID)
			handlers.RespondConflict(w, handlers.CodeConflict, msgNotPending)

		case errors.Is(err, confirmBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/%d/confirm - Invalid input: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("POST /bookings/%d/confirm - Failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/%d/confirm - Booking confirmed", bookingID)
	handlers.RespondJSON(w, http.StatusOK, &ConfirmedResponse{
		ID:          result.ID,
		EmployeeID:  result.EmployeeID,
		Subject:     result.Subject,
		StartTime:   result.StartTime.Format(time.RFC3339),
		EndTime:     result.EndTime.Format(time.RFC3339),
		Status:      result.Status,
		MeetingLink: result.MeetingLink,
	})
}
