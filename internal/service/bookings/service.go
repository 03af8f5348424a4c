package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// Service сервис staff-операций над журналом бронирований
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Сотрудник видит только свои бронирования
func (s *Service) GetByID(ctx context.Context, id int64, employeeID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for employee=%d", id, employeeID)

	booking, err := s.getOwned(ctx, "GetByID", id, employeeID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetEmployeeBookings получает бронирования сотрудника с фильтрацией
// по статусу и периоду. По умолчанию возвращаются только активные записи
func (s *Service) GetEmployeeBookings(ctx context.Context, req *models.GetEmployeeBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetEmployeeBookings: fetching bookings for employee=%d, status=%v, includeInactive=%v",
		req.EmployeeID, req.Status, req.IncludeInactive)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetEmployeeBookings: invalid filter for employee=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByEmployeeWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetEmployeeBookings: repository error for employee=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: GetEmployeeBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetEmployeeBookings: successfully fetched %d bookings for employee=%d", len(bookings), req.EmployeeID)
	return models.FromDomainBookingList(bookings), nil
}

// Complete помечает подтвержденное бронирование завершенным
// Доступно только после наступления времени начала встречи
func (s *Service) Complete(ctx context.Context, bookingID int64, employeeID int64) error {
	return s.finish(ctx, "Complete", bookingID, employeeID, domain.StatusCompleted)
}

// NoShow помечает подтвержденное бронирование как неявку клиента
// Доступно только после наступления времени начала встречи
func (s *Service) NoShow(ctx context.Context, bookingID int64, employeeID int64) error {
	return s.finish(ctx, "NoShow", bookingID, employeeID, domain.StatusNoShow)
}

// Cancel отменяет активное бронирование от имени сотрудника
// В журнале фиксируется актор staff и причина отмены
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelByStaffRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by employee=%d", bookingID, req.EmployeeID)

	booking, err := s.getOwned(ctx, "Cancel", bookingID, req.EmployeeID)
	if err != nil {
		return err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, domain.CancelActorStaff, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrInvalidTransition) {
			s.logger.Warn("Cancel: booking id=%d already left active state", bookingID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d by staff", bookingID)
	return nil
}

func (s *Service) finish(ctx context.Context, op string, bookingID, employeeID int64, status domain.BookingStatus) error {
	s.logger.Info("%s: finishing booking id=%d by employee=%d", op, bookingID, employeeID)

	booking, err := s.getOwned(ctx, op, bookingID, employeeID)
	if err != nil {
		return err
	}

	if !booking.CanBeFinished(s.timeProvider.Now()) {
		s.logger.Warn("%s: booking id=%d cannot be finished, status=%s, start=%s",
			op, bookingID, booking.Status, booking.StartTime)
		return ErrCannotFinish
	}

	if err := s.bookingRepo.Finish(ctx, bookingID, status); err != nil {
		if errors.Is(err, bookingRepo.ErrInvalidTransition) {
			s.logger.Warn("%s: booking id=%d already left confirmed state", op, bookingID)
			return ErrCannotFinish
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: successfully finished booking id=%d with status=%s", op, bookingID, status)
	return nil
}

// getOwned получает бронирование и проверяет, что оно принадлежит сотруднику
func (s *Service) getOwned(ctx context.Context, op string, bookingID, employeeID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if booking.EmployeeID != employeeID {
		s.logger.Warn("%s: access denied for employee=%d to booking id=%d", op, employeeID, bookingID)
		return nil, ErrAccessDenied
	}

	return booking, nil
}
