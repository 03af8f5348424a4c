package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	profileService "github.com/m04kA/SMC-AppointmentService/internal/service/profile"
)

// calendarPushTimeout ограничивает синхронную запись события в календарь
const calendarPushTimeout = 3 * time.Second

// UseCase use case переноса бронирования по токену
//
// Перенос атомарен: вставка новой записи и перевод старой в rescheduled
// выполняются в одной сериализуемой транзакции. Либо обе операции
// фиксируются, либо исходное бронирование остается нетронутым
type UseCase struct {
	bookingRepo    BookingRepository
	resolver       ProfileResolver
	tokenAuthority TokenAuthority
	txManager      TransactionManager
	calendarClient CalendarClient
	notifierClient NotifierClient
	timeProvider   TimeProvider
	location       *time.Location
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	resolver ProfileResolver,
	tokenAuthority TokenAuthority,
	txManager TransactionManager,
	calendarClient CalendarClient,
	notifierClient NotifierClient,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		resolver:       resolver,
		tokenAuthority: tokenAuthority,
		txManager:      txManager,
		calendarClient: calendarClient,
		notifierClient: notifierClient,
		timeProvider:   &RealTimeProvider{},
		location:       location,
		logger:         logger,
	}
}

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking id=%d, newStart=%s",
		req.BookingID, req.NewStartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if req.NewStartTime.IsZero() {
		return nil, fmt.Errorf("%w: newStartTime is required", ErrInvalidInput)
	}

	// 2. Читаем бронирование и проверяем токен вне транзакции
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if !uc.tokenAuthority.Matches(req.Token, booking.RescheduleToken) {
		uc.logger.Warn("RescheduleBooking: invalid token for booking id=%d", req.BookingID)
		return nil, ErrInvalidToken
	}

	if !booking.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%d cannot be rescheduled, status=%s", req.BookingID, booking.Status)
		return nil, ErrCannotReschedule
	}

	// 3. Новое время проходит все проверки создания заново
	profile, err := uc.resolver.ResolveByEmployeeID(ctx, booking.EmployeeID)
	if err != nil {
		if errors.Is(err, profileService.ErrEmployeeNotFound) {
			uc.logger.Warn("RescheduleBooking: employee %d not found", booking.EmployeeID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to resolve profile for employee %d: %v", booking.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to resolve profile: %v", ErrInternal, err)
	}

	if !profile.AcceptingBookings {
		uc.logger.Warn("RescheduleBooking: employee %d is not accepting bookings", profile.EmployeeID)
		return nil, ErrNotAcceptingBookings
	}

	now := uc.timeProvider.Now()
	if err := validateNewStartTime(profile, req.NewStartTime, now, uc.location); err != nil {
		uc.logger.Warn("RescheduleBooking: new start time validation failed: %v", err)
		return nil, err
	}

	// 4. Свежие токены для новой записи, старые становятся недействительными
	triple, err := uc.tokenAuthority.MintTriple()
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to mint tokens: %v", err)
		return nil, fmt.Errorf("%w: failed to mint tokens: %v", ErrInternal, err)
	}

	var created *domain.Booking

	// 5. Атомарный перенос в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Перечитываем с блокировкой: статус мог измениться
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
		}
		if !current.CanBeRescheduled() {
			return ErrCannotReschedule
		}

		// 5.2. Вставляем новую запись, статус исходной сохраняется
		newBooking := &domain.Booking{
			EmployeeID:      current.EmployeeID,
			ClientName:      current.ClientName,
			ClientEmail:     current.ClientEmail,
			Subject:         current.Subject,
			Notes:           current.Notes,
			StartTime:       req.NewStartTime,
			EndTime:         req.NewStartTime.Add(time.Duration(profile.SlotDurationMinutes) * time.Minute),
			DurationMinutes: profile.SlotDurationMinutes,
			Status:          current.Status,
			ConfirmToken:    triple.Confirm,
			CancelToken:     triple.Cancel,
			RescheduleToken: triple.Reschedule,
		}

		inserted, err := uc.bookingRepo.Create(txCtx, newBooking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotTaken
			}
			return fmt.Errorf("%w: failed to create new booking: %v", ErrInternal, err)
		}

		// 5.3. Помечаем исходную запись перенесенной
		if err := uc.bookingRepo.MarkRescheduled(txCtx, current.ID, inserted.ID); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidTransition) {
				return ErrCannotReschedule
			}
			return fmt.Errorf("%w: failed to mark rescheduled: %v", ErrInternal, err)
		}

		created = inserted
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking id=%d rescheduled to id=%d", req.BookingID, created.ID)

	// 6. После коммита: событие в календарь (best-effort) и уведомление
	meetingLink := uc.pushCalendarEvent(ctx, created)

	uc.notifierClient.SendAsync(notifier.EventBookingRescheduled, created.ID, created.EmployeeID, created.ClientEmail, map[string]string{
		"subject":       created.Subject,
		"previousStart": booking.StartTime.Format(time.RFC3339),
		"start":         created.StartTime.Format(time.RFC3339),
	})

	return &Response{
		ID:              created.ID,
		PreviousID:      req.BookingID,
		EmployeeID:      created.EmployeeID,
		ClientName:      created.ClientName,
		ClientEmail:     created.ClientEmail,
		Subject:         created.Subject,
		Notes:           created.Notes,
		StartTime:       created.StartTime,
		EndTime:         created.EndTime,
		DurationMinutes: created.DurationMinutes,
		Status:          string(created.Status),
		ConfirmToken:    created.ConfirmToken,
		CancelToken:     created.CancelToken,
		RescheduleToken: created.RescheduleToken,
		MeetingLink:     meetingLink,
		CreatedAt:       created.CreatedAt,
	}, nil
}

// pushCalendarEvent создает событие во внешнем календаре и сохраняет ссылку
// Ошибки интеграции не влияют на перенесенное бронирование
func (uc *UseCase) pushCalendarEvent(ctx context.Context, b *domain.Booking) *string {
	pushCtx, cancel := context.WithTimeout(ctx, calendarPushTimeout)
	defer cancel()

	event, err := uc.calendarClient.PushEvent(pushCtx, b.EmployeeID, b.Subject, b.ClientName, b.ClientEmail, b.StartTime, b.EndTime)
	if err != nil {
		uc.logger.Error("RescheduleBooking: calendar push failed for booking id=%d: %v", b.ID, err)
		return nil
	}

	if err := uc.bookingRepo.SetCalendarRef(ctx, b.ID, &event.EventID, event.MeetingLink); err != nil {
		uc.logger.Error("RescheduleBooking: failed to save calendar ref for booking id=%d: %v", b.ID, err)
	}

	return event.MeetingLink
}
