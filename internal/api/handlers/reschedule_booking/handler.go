package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	rescheduleBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartTime   = "некорректный формат нового времени, ожидается RFC 3339"
	msgMissingToken       = "токен переноса обязателен"
	msgBookingNotFound    = "бронирование не найдено"
	msgInvalidToken       = "недействительный токен переноса"
	msgCannotReschedule   = "бронирование уже нельзя перенести"
	msgNotAccepting       = "сотрудник не принимает бронирования"
	msgSlotTaken          = "новый временной слот уже занят"
	msgSlotNotAligned     = "новое время не совпадает с сеткой слотов"
	msgTooLateToBook      = "слишком поздно для переноса на этот слот"
	msgDateTooFar         = "новая дата слишком далеко в будущем"
)

type Handler struct {
	useCase       RescheduleBookingUseCase
	publicBaseURL string
	logger        Logger
}

func NewHandler(useCase RescheduleBookingUseCase, publicBaseURL string, logger Logger) *Handler {
	return &Handler{
		useCase:       useCase,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// Handle POST /api/v1/bookings/{id}/reschedule?token=...
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

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/%d/reschedule - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	newStart, err := time.Parse(time.RFC3339, req.NewStartTime)
	if err != nil {
		h.logger.Warn("POST /bookings/%d/reschedule - Invalid new start time: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &rescheduleBooking.Request{
		BookingID:    bookingID,
		Token:        token,
		NewStartTime: newStart,
	})
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/%d/reschedule - Booking not found", bookingID)
			handlers.RespondNotFound(w, handlers.CodeBookingNotFound, msgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrInvalidToken):
			h.logger.Warn("POST /bookings/%d/reschedule - Invalid token", bookingID)
			handlers.RespondError(w, http.StatusForbidden, handlers.CodeInvalidToken, msgInvalidToken)

		case errors.Is(err, rescheduleBooking.ErrCannotReschedule):
			h.logger.Warn("POST /bookings/%d/reschedule - Cannot reschedule", bookingID)
			handlers.RespondConflict(w, handlers.CodeConflict, msgCannotReschedule)

		case errors.Is(err, rescheduleBooking.ErrNotAcceptingBookings):
			h.logger.Warn("POST /bookings/%d/reschedule - Not accepting bookings", bookingID)
			handlers.RespondConflict(w, handlers.CodeConflict, msgNotAccepting)

		case errors.Is(err, rescheduleBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings/%d/reschedule - Slot taken: %s", bookingID, req.NewStartTime)
			handlers.RespondConflict(w, handlers.CodeSlotTaken, msgSlotTaken)

		case errors.Is(err, rescheduleBooking.ErrSlotNotAligned):
			h.logger.Warn("POST /bookings/%d/reschedule - Slot not aligned: %s", bookingID, req.NewStartTime)
			handlers.RespondBadRequest(w, msgSlotNotAligned)

		case errors.Is(err, rescheduleBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings/%d/reschedule - Too late: %s", bookingID, req.NewStartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, rescheduleBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings/%d/reschedule - Date too far: %s", bookingID, req.NewStartTime)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/%d/reschedule - Invalid input: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/%d/reschedule - Failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/%d/reschedule - Rescheduled to booking_id=%d", bookingID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, h.publicBaseURL))
}
