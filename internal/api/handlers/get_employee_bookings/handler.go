package get_employee_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const (
	msgUnauthorized  = "требуется аутентификация сотрудника"
	msgInvalidFrom   = "некорректный параметр from, ожидается YYYY-MM-DD"
	msgInvalidTo     = "некорректный параметр to, ожидается YYYY-MM-DD"
	msgInvalidStatus = "некорректный статус бронирования"
)

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

// Handle GET /api/v1/staff/bookings?from=...&to=...&status=...&includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, handlers.CodeAccessDenied, msgUnauthorized)
		return
	}

	req := &models.GetEmployeeBookingsRequest{
		EmployeeID:      employeeID,
		IncludeInactive: r.URL.Query().Get("includeInactive") == "true",
	}

	query := r.URL.Query()

	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		req.From = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidTo)
			return
		}
		// Верхняя граница не включается: берем следующий день
		end := to.AddDate(0, 0, 1)
		req.To = &end
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	result, err := h.service.GetEmployeeBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("GET /staff/bookings - Invalid status for employee=%d", employeeID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /staff/bookings - Failed for employee=%d: %v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/bookings - Returned %d bookings for employee=%d", len(result.Bookings), employeeID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
