package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/calendarsync"
)

// ProfileResolver интерфейс резолвера профилей расписания
type ProfileResolver interface {
	Resolve(ctx context.Context, idOrAlias string) (*domain.SchedulingProfile, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveInRange(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.Booking, error)
}

// CalendarClient интерфейс клиента внешнего календаря
type CalendarClient interface {
	GetBusyIntervalsWithGracefulDegradation(ctx context.Context, employeeID int64, from, to time.Time) []calendarsync.BusyInterval
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
