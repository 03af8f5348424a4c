package cancel_booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	cancelBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingToken       = "токен отмены обязателен"
	msgBookingNotFound    = "бронирование не найдено"
	msgInvalidToken       = "недействительный токен отмены"
	msgCannotCancel       = "бронирование уже нельзя отменить"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{id}/cancel?token=...
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

	// Тело опционально: отмена без причины допустима
	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /bookings/%d/cancel - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		BookingID: bookingID,
		Token:     token,
		Reason:    req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/%d/cancel - Booking not found", bookingID)
			handlers.RespondNotFound(w, handlers.CodeBookingNotFound, msgBookingNotFound)

		case errors.Is(err, cancelBooking.ErrInvalidToken):
			h.logger.Warn("POST /bookings/%d/cancel - Invalid token", bookingID)
			handlers.RespondError(w, http.StatusForbidden, handlers.CodeInvalidToken, msgInvalidToken)

		case errors.Is(err, cancelBooking.ErrCannotCancel):
			h.logger.Warn("POST /bookings/%d/cancel - Cannot cancel", bookingID)
			handlers.RespondConflict(w, handlers.CodeConflict, msgCannotCancel)

		case errors.Is(err, cancelBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/%d/cancel - Invalid input: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/%d/cancel - Failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/%d/cancel - Booking cancelled by client", bookingID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
