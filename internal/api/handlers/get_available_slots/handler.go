package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidFrom      = "некорректный параметр from, ожидается RFC 3339 или YYYY-MM-DD"
	msgInvalidTo        = "некорректный параметр to, ожидается RFC 3339 или YYYY-MM-DD"
	msgInvalidRange     = "некорректный период запроса"
	msgEmployeeNotFound = "сотрудник не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{idOrAlias}/available-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	idOrAlias := mux.Vars(r)["idOrAlias"]

	req := &getAvailableSlots.Request{IDOrAlias: idOrAlias}

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := parseTimeParam(raw)
		if err != nil {
			h.logger.Warn("GET /staff/%s/available-slots - Invalid from: %v", idOrAlias, err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		req.From = &from
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := parseTimeParam(raw)
		if err != nil {
			h.logger.Warn("GET /staff/%s/available-slots - Invalid to: %v", idOrAlias, err)
			handlers.RespondBadRequest(w, msgInvalidTo)
			return
		}
		req.To = &to
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrEmployeeNotFound):
			h.logger.Warn("GET /staff/%s/available-slots - Employee not found", idOrAlias)
			handlers.RespondNotFound(w, handlers.CodeEmployeeNotFound, msgEmployeeNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /staff/%s/available-slots - Invalid input: %v", idOrAlias, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /staff/%s/available-slots - Failed: %v", idOrAlias, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/%s/available-slots - Returned %d slots", idOrAlias, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// parseTimeParam принимает RFC 3339 или дату без времени
func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(domain.DateFormat, raw)
}
