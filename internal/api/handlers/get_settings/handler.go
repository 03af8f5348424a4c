package get_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	profileService "github.com/m04kA/SMC-AppointmentService/internal/service/profile"
)

const (
	msgUnauthorized     = "требуется аутентификация сотрудника"
	msgEmployeeNotFound = "сотрудник не найден"
)

type Handler struct {
	service ProfileService
	logger  Logger
}

func NewHandler(service ProfileService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, handlers.CodeAccessDenied, msgUnauthorized)
		return
	}

	result, err := h.service.GetSettings(r.Context(), employeeID)
	if err != nil {
		switch {
		case errors.Is(err, profileService.ErrEmployeeNotFound):
			h.logger.Warn("GET /staff/settings - Employee %d not found", employeeID)
			handlers.RespondNotFound(w, handlers.CodeEmployeeNotFound, msgEmployeeNotFound)

		default:
			h.logger.Error("GET /staff/settings - Failed for employee=%d: %v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
