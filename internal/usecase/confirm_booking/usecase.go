package confirm_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
)

// UseCase use case подтверждения бронирования по токену
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

// Execute выполняет use case подтверждения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmBooking: booking id=%d", req.BookingID)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ConfirmBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ConfirmBooking: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if !uc.tokenMatcher.Matches(req.Token, booking.ConfirmToken) {
		uc.logger.Warn("ConfirmBooking: invalid token for booking id=%d", req.BookingID)
		return nil, ErrInvalidToken
	}

	if !booking.CanBeConfirmed() {
		uc.logger.Warn("ConfirmBooking: booking id=%d is not pending, status=%s", req.BookingID, booking.Status)
		return nil, ErrNotPending
	}

	if err := uc.bookingRepo.Confirm(ctx, req.BookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrInvalidTransition) {
			// Конкурентное подтверждение или отмена успели раньше
			uc.logger.Warn("ConfirmBooking: booking id=%d left pending state concurrently", req.BookingID)
			return nil, ErrNotPending
		}
		uc.logger.Error("ConfirmBooking: failed to confirm booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to confirm: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusConfirmed

	uc.logger.Info("ConfirmBooking: successfully confirmed booking id=%d", req.BookingID)

	uc.notifierClient.SendAsync(notifier.EventBookingConfirmed, booking.ID, booking.EmployeeID, booking.ClientEmail, map[string]string{
		"subject": booking.Subject,
		"start":   booking.StartTime.Format(time.RFC3339),
	})

	return &Response{
		ID:          booking.ID,
		EmployeeID:  booking.EmployeeID,
		Subject:     booking.Subject,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Status:      string(booking.Status),
		MeetingLink: booking.MeetingLink,
	}, nil
}
