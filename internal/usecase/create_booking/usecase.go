package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	captchaClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/captcha"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	profileService "github.com/m04kA/SMC-AppointmentService/internal/service/profile"
)

// calendarPushTimeout ограничивает синхронную запись события в календарь
// после коммита: ответ клиенту не должен ждать медленную интеграцию
const calendarPushTimeout = 3 * time.Second

// UseCase use case создания бронирования
//
// Порядок проверок фиксирован: защита от злоупотреблений (captcha, rate
// limiter) отрабатывает до обращений к БД. Конфликт интервалов ловится
// constraint-ом при вставке, предварительного чтения занятости нет:
// при конкурирующих запросах на один слот ровно один получает успех
type UseCase struct {
	bookingRepo    BookingRepository
	resolver       ProfileResolver
	tokenAuthority TokenAuthority
	rateLimiter    RateLimiter
	captcha        CaptchaVerifier
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
	rateLimiter RateLimiter,
	captcha CaptchaVerifier,
	calendarClient CalendarClient,
	notifierClient NotifierClient,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		resolver:       resolver,
		tokenAuthority: tokenAuthority,
		rateLimiter:    rateLimiter,
		captcha:        captcha,
		calendarClient: calendarClient,
		notifierClient: notifierClient,
		timeProvider:   &RealTimeProvider{},
		location:       location,
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: idOrAlias=%s, start=%s, client=%s",
		req.IDOrAlias, req.StartTime.Format(time.RFC3339), req.ClientEmail)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверка человечности
	if err := uc.captcha.Verify(ctx, req.CaptchaToken, req.ClientIP); err != nil {
		if errors.Is(err, captchaClient.ErrVerificationFailed) {
			uc.logger.Warn("CreateBooking: captcha failed for ip=%s", req.ClientIP)
			return nil, ErrCaptchaFailed
		}
		uc.logger.Error("CreateBooking: captcha verify error for ip=%s: %v", req.ClientIP, err)
		return nil, fmt.Errorf("%w: captcha verify error: %v", ErrInternal, err)
	}

	// 3. Ограничение частоты по адресу клиента
	decision, err := uc.rateLimiter.Allow(ctx, req.ClientIP)
	if err != nil {
		// Недоступный limiter не блокирует бронирование
		uc.logger.Error("CreateBooking: rate limiter error for ip=%s: %v", req.ClientIP, err)
	} else if !decision.Allowed {
		uc.logger.Warn("CreateBooking: rate limit exceeded for ip=%s", req.ClientIP)
		return nil, &RateLimitedError{ResetAt: decision.ResetAt}
	}

	// 4. Резолвим профиль сотрудника
	profile, err := uc.resolver.Resolve(ctx, req.IDOrAlias)
	if err != nil {
		if errors.Is(err, profileService.ErrEmployeeNotFound) {
			uc.logger.Warn("CreateBooking: employee %s not found", req.IDOrAlias)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("CreateBooking: failed to resolve %s: %v", req.IDOrAlias, err)
		return nil, fmt.Errorf("%w: failed to resolve profile: %v", ErrInternal, err)
	}

	if !profile.AcceptingBookings {
		uc.logger.Warn("CreateBooking: employee %d is not accepting bookings", profile.EmployeeID)
		return nil, ErrNotAcceptingBookings
	}

	// 5. Проверяем время против правил профиля
	now := uc.timeProvider.Now()
	if err := validateStartTime(profile, req.StartTime, now, uc.location); err != nil {
		uc.logger.Warn("CreateBooking: start time validation failed for employee %d: %v", profile.EmployeeID, err)
		return nil, err
	}

	// 6. Выпускаем токены-возможности
	triple, err := uc.tokenAuthority.MintTriple()
	if err != nil {
		uc.logger.Error("CreateBooking: failed to mint tokens: %v", err)
		return nil, fmt.Errorf("%w: failed to mint tokens: %v", ErrInternal, err)
	}

	status := domain.StatusPending
	if profile.AutoConfirm {
		status = domain.StatusConfirmed
	}

	booking := &domain.Booking{
		EmployeeID:      profile.EmployeeID,
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientEmail:     req.ClientEmail,
		Subject:         strings.TrimSpace(req.Subject),
		Notes:           req.Notes,
		StartTime:       req.StartTime,
		EndTime:         req.StartTime.Add(time.Duration(profile.SlotDurationMinutes) * time.Minute),
		DurationMinutes: profile.SlotDurationMinutes,
		Status:          status,
		ConfirmToken:    triple.Confirm,
		CancelToken:     triple.Cancel,
		RescheduleToken: triple.Reschedule,
	}

	// 7. Атомарная вставка: конфликт интервалов отлавливает constraint
	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			uc.logger.Warn("CreateBooking: slot taken for employee %d at %s",
				profile.EmployeeID, req.StartTime.Format(time.RFC3339))
			return nil, ErrSlotTaken
		}
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s", created.ID, created.Status)

	// 8. После коммита: событие в календарь (best-effort) и уведомление
	meetingLink := uc.pushCalendarEvent(ctx, created)

	uc.notifierClient.SendAsync(notifier.EventBookingCreated, created.ID, created.EmployeeID, created.ClientEmail, map[string]string{
		"subject": created.Subject,
		"start":   created.StartTime.Format(time.RFC3339),
		"status":  string(created.Status),
	})

	return &Response{
		ID:              created.ID,
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
// Ошибки интеграции не влияют на созданное бронирование
func (uc *UseCase) pushCalendarEvent(ctx context.Context, b *domain.Booking) *string {
	pushCtx, cancel := context.WithTimeout(ctx, calendarPushTimeout)
	defer cancel()

	event, err := uc.calendarClient.PushEvent(pushCtx, b.EmployeeID, b.Subject, b.ClientName, b.ClientEmail, b.StartTime, b.EndTime)
	if err != nil {
		uc.logger.Error("CreateBooking: calendar push failed for booking id=%d: %v", b.ID, err)
		return nil
	}

	if err := uc.bookingRepo.SetCalendarRef(ctx, b.ID, &event.EventID, event.MeetingLink); err != nil {
		uc.logger.Error("CreateBooking: failed to save calendar ref for booking id=%d: %v", b.ID, err)
	}

	return event.MeetingLink
}
