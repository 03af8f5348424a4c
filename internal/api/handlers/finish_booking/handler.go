package finish_booking

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const (
	msgUnauthorized       = "требуется аутентификация сотрудника"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "бронирование не найдено"
	msgAccessDenied       = "бронирование принадлежит другому сотруднику"
	msgCannotFinish       = "бронирование нельзя завершить: оно не подтверждено или еще не началось"
	msgCannotCancel       = "бронирование уже нельзя отменить"
)

// CancelRequest тело запроса отмены сотрудником
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Handler обрабатывает завершающие staff-операции над бронированием:
// completed, no_show и отмену от имени сотрудника
type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleComplete PATCH /api/v1/staff/bookings/{id}/complete
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, "complete", h.service.Complete)
}

// HandleNoShow PATCH /api/v1/staff/bookings/{id}/no-show
func (h *Handler) HandleNoShow(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, "no-show", h.service.NoShow)
}

// HandleCancel POST /api/v1/staff/bookings/{id}/cancel
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, handlers.CodeAccessDenied, msgUnauthorized)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CancelRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /staff/bookings/%d/cancel - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.Cancel(r.Context(), bookingID, &models.CancelByStaffRequest{
		EmployeeID:         employeeID,
		CancellationReason: req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("POST /staff/bookings/%d/cancel - Not found", bookingID)
			handlers.RespondNotFound(w, handlers.CodeBookingNotFound, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrAccessDenied):
			h.logger.Warn("POST /staff/bookings/%d/cancel - Access denied for employee=%d", bookingID, employeeID)
			handlers.RespondError(w, http.StatusForbidden, handlers.CodeAccessDenied, msgAccessDenied)

		case errors.Is(err, bookingsService.ErrCannotCancel):
			h.logger.Warn("POST /staff/bookings/%d/cancel - Cannot cancel", bookingID)
			handlers.RespondConflict(w, handlers.CodeConflict, msgCannotCancel)

		default:
			h.logger.Error("POST /staff/bookings/%d/cancel - Failed: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff/bookings/%d/cancel - Cancelled by employee=%d", bookingID, employeeID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) finish(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	fn func(ctx context.Context, bookingID, employeeID int64) error,
) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, handlers.CodeAccessDenied, msgUnauthorized)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	if err := fn(r.Context(), bookingID, employeeID); err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("PATCH /staff/bookings/%d/%s - Not found", bookingID, op)
			handlers.RespondNotFound(w, handlers.CodeBookingNotFound, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrAccessDenied):
			h.logger.Warn("PATCH /staff/bookings/%d/%s - Access denied for employee=%d", bookingID, op, employeeID)
			handlers.RespondError(w, http.StatusForbidden, handlers.CodeAccessDenied, msgAccessDenied)

		case errors.Is(err, bookingsService.ErrCannotFinish):
			h.logger.Warn("PATCH /staff/bookings/%d/%s - Cannot finish", bookingID, op)
			handlers.RespondConflict(w, handlers.CodeConflict, msgCannotFinish)

		default:
			h.logger.Error("PATCH /staff/bookings/%d/%s - Failed: %v", bookingID, op, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /staff/bookings/%d/%s - Finished by employee=%d", bookingID, op, employeeID)
	w.WriteHeader(http.StatusNoContent)
}
