package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartTime   = "некорректный формат времени начала, ожидается RFC 3339"
	msgSlotTaken          = "выбранный временной слот уже занят"
	msgEmployeeNotFound   = "сотрудник не найден"
	msgNotAccepting       = "сотрудник не принимает бронирования"
	msgSlotNotAligned     = "время начала не совпадает с сеткой слотов"
	msgTooLateToBook      = "слишком поздно для бронирования этого слота"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgRateLimited        = "превышен лимит создания бронирований, попробуйте позже"
	msgCaptchaFailed      = "проверка капчи не пройдена"
)

type Handler struct {
	useCase       CreateBookingUseCase
	publicBaseURL string
	logger        Logger
}

func NewHandler(useCase CreateBookingUseCase, publicBaseURL string, logger Logger) *Handler {
	return &Handler{
		useCase:       useCase,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(handlers.ClientIP(r))
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var rlErr *createBooking.RateLimitedError

		switch {
		case errors.As(err, &rlErr):
			h.logger.Warn("POST /bookings - Rate limited: employee=%s", req.Employee)
			handlers.RespondRateLimited(w, msgRateLimited, rlErr.ResetAt)

		case errors.Is(err, createBooking.ErrCaptchaFailed):
			h.logger.Warn("POST /bookings - Captcha failed: employee=%s", req.Employee)
			handlers.RespondError(w, http.StatusForbidden, handlers.CodeCaptchaFailed, msgCaptchaFailed)

		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: employee=%s, start=%s", req.Employee, req.StartTime)
			handlers.RespondConflict(w, handlers.CodeSlotTaken, msgSlotTaken)

		case errors.Is(err, createBooking.ErrEmployeeNotFound):
			h.logger.Warn("POST /bookings - Employee not found: employee=%s", req.Employee)
			handlers.RespondNotFound(w, handlers.CodeEmployeeNotFound, msgEmployeeNotFound)

		case errors.Is(err, createBooking.ErrNotAcceptingBookings):
			h.logger.Warn("POST /bookings - Not accepting bookings: employee=%s", req.Employee)
			handlers.RespondConflict(w, handlers.CodeConflict, msgNotAccepting)

		case errors.Is(err, createBooking.ErrSlotNotAligned):
			h.logger.Warn("POST /bookings - Slot not aligned: employee=%s, start=%s", req.Employee, req.StartTime)
			handlers.RespondBadRequest(w, msgSlotNotAligned)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: employee=%s, start=%s", req.Employee, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far: employee=%s, start=%s", req.Employee, req.StartTime)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: employee=%s, error=%v", req.Employee, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, employee_id=%d, status=%s",
		result.ID, result.EmployeeID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result, h.publicBaseURL))
}
