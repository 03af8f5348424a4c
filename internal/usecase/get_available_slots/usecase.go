package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/schedule"
	profileService "github.com/m04kA/SMC-AppointmentService/internal/service/profile"
)

// UseCase use case выдачи доступных слотов
//
// Результат собирается в три шага: генерация сетки кандидатов из профиля,
// чтение занятости (журнал бронирований + внешний календарь), фильтрация
// пересечений. Список слотов носит рекомендательный характер: окончательную
// защиту от двойного бронирования дает constraint при создании записи
type UseCase struct {
	resolver       ProfileResolver
	bookingRepo    BookingRepository
	calendarClient CalendarClient
	timeProvider   TimeProvider
	location       *time.Location
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resolver ProfileResolver,
	bookingRepo BookingRepository,
	calendarClient CalendarClient,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		resolver:       resolver,
		bookingRepo:    bookingRepo,
		calendarClient: calendarClient,
		timeProvider:   &RealTimeProvider{},
		location:       location,
		logger:         logger,
	}
}

// Execute выполняет use case выдачи доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: idOrAlias=%s", req.IDOrAlias)

	if req.IDOrAlias == "" {
		return nil, fmt.Errorf("%w: employee id or alias is required", ErrInvalidInput)
	}

	profile, err := uc.resolver.Resolve(ctx, req.IDOrAlias)
	if err != nil {
		if errors.Is(err, profileService.ErrEmployeeNotFound) {
			uc.logger.Warn("GetAvailableSlots: employee %s not found", req.IDOrAlias)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to resolve %s: %v", req.IDOrAlias, err)
		return nil, fmt.Errorf("%w: failed to resolve profile: %v", ErrInternal, err)
	}

	// Сотрудник закрыл запись: пустой список, а не ошибка
	// Карточка и настройки при этом отдаются как обычно
	if !profile.AcceptingBookings {
		uc.logger.Info("GetAvailableSlots: employee %d is not accepting bookings", profile.EmployeeID)
		return newResponse(profile, []Slot{}), nil
	}

	now := uc.timeProvider.Now().In(uc.location)

	from, to, err := uc.resolveRange(req, profile, now)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid range for employee %d: %v", profile.EmployeeID, err)
		return nil, err
	}

	candidates, err := schedule.GenerateCandidates(profile, from, to, now, uc.location)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate candidates for employee %d: %v", profile.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to generate candidates: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetActiveInRange(ctx, profile.EmployeeID, from, to.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load bookings for employee %d: %v", profile.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
	}

	// Внешний календарь опрашивается best-effort: при недоступности
	// считаем занятость только по журналу бронирований
	busyIntervals := uc.calendarClient.GetBusyIntervalsWithGracefulDegradation(ctx, profile.EmployeeID, from, to.AddDate(0, 0, 1))
	busy := make([]domain.BusyBlock, 0, len(busyIntervals))
	for _, interval := range busyIntervals {
		busy = append(busy, domain.BusyBlock{Start: interval.Start, End: interval.End})
	}

	available := schedule.FilterAvailable(candidates, bookings, busy)

	slots := make([]Slot, 0, len(available))
	for _, candidate := range available {
		slots = append(slots, Slot{
			Start:           candidate.Start,
			End:             candidate.End,
			DurationMinutes: candidate.DurationMinutes,
		})
	}

	uc.logger.Info("GetAvailableSlots: employee %d, %d candidates, %d available",
		profile.EmployeeID, len(candidates), len(slots))

	return newResponse(profile, slots), nil
}

// resolveRange вычисляет период выдачи: запрошенные границы обрезаются
// горизонтом бронирования из профиля
func (uc *UseCase) resolveRange(req *Request, profile *domain.SchedulingProfile, now time.Time) (time.Time, time.Time, error) {
	from := now
	if req.From != nil {
		from = req.From.In(uc.location)
	}

	horizon := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.location).
		AddDate(0, 0, profile.MaxAdvanceDays)

	to := horizon
	if req.To != nil {
		to = req.To.In(uc.location)
	}

	if to.After(horizon) {
		to = horizon
	}
	if from.Before(now) {
		from = now
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 'to' must not be before 'from'", ErrInvalidInput)
	}

	return from, to, nil
}
