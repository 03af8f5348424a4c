package update_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	profileService "github.com/m04kA/SMC-AppointmentService/internal/service/profile"
	"github.com/m04kA/SMC-AppointmentService/internal/service/profile/models"
)

const (
	msgUnauthorized       = "требуется аутентификация сотрудника"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgEmployeeNotFound   = "сотрудник не найден"
	msgAliasTaken         = "публичный алиас уже занят другим сотрудником"
	msgInvalidSettings    = "некорректные настройки расписания"
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

// Handle PUT /api/v1/staff/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, handlers.CodeAccessDenied, msgUnauthorized)
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /staff/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.service.UpdateSettings(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, profileService.ErrEmployeeNotFound):
			h.logger.Warn("PUT /staff/settings - Employee %d not found", employeeID)
			handlers.RespondNotFound(w, handlers.CodeEmployeeNotFound, msgEmployeeNotFound)

		case errors.Is(err, profileService.ErrAliasTaken):
			h.logger.Warn("PUT /staff/settings - Alias conflict for employee=%d", employeeID)
			handlers.RespondConflict(w, handlers.CodeAliasTaken, msgAliasTaken)

		case errors.Is(err, profileService.ErrInvalidInput):
			h.logger.Warn("PUT /staff/settings - Invalid settings for employee=%d: %v", employeeID, err)
			handlers.RespondBadRequest(w, msgInvalidSettings)

		default:
			h.logger.Error("PUT /staff/settings - Failed for employee=%d: %v", employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /staff/settings - Updated settings for employee=%d", employeeID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
