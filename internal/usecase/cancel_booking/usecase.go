package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
)

// UseCase use case отмены бронирования клиентом по токену
// Отмена сотрудником идет отдельным путем через staff API
type UseCase struct {
	bookingRepo    BookingRepository
	tokenMatcher   TokenMatcher
	notifierClient NotifierClient
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	tokenMatcher TokenMatcher,
	notifierClient NotifierClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		tokenMatcher:   tokenMatcher,
		notifierClient: notifierClient,
		logger:         logger,
	}
}

// Execute выполняет use case отмены бронирования
// Повторная отмена по тому же токену возвращает ErrCannotCancel
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking id=%d", req.BookingID)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if !uc.tokenMatcher.Matches(req.Token, booking.CancelToken) {
		uc.logger.Warn("CancelBooking: invalid token for booking id=%d", req.BookingID)
		return nil, ErrInvalidToken
	}

	if !booking.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: booking id=%d cannot be cancelled, status=%s", req.BookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	if err := uc.bookingRepo.Cancel(ctx, req.BookingID, domain.CancelActorClient, req.Reason); err != nil {
		if errors.Is(err, bookingRepo.ErrInvalidTransition) {
			uc.logger.Warn("CancelBooking: booking id=%d left active state concurrently", req.BookingID)
			return nil, ErrCannotCancel
		}
		uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to cancel: %v", ErrInternal, err)
	}

	uc.logger.Info("CancelBooking: successfully cancelled booking id=%d by client", req.BookingID)

	uc.notifierClient.SendAsync(notifier.EventBookingCancelled, booking.ID, booking.EmployeeID, booking.ClientEmail, map[string]string{
		"subject": booking.Subject,
		"start":   booking.StartTime.Format(time.RFC3339),
		"reason":  req.Reason,
	})

	return &Response{
		ID:          booking.ID,
		EmployeeID:  booking.EmployeeID,
		Subject:     booking.Subject,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Status:      string(domain.StatusCancelled),
		CancelledBy: string(domain.CancelActorClient),
	}, nil
}
