package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/ratelimit"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/calendarsync"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/tokens"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	SetCalendarRef(ctx context.Context, id int64, eventID, meetingLink *string) error
}

// ProfileResolver интерфейс резолвера профилей расписания
type ProfileResolver interface {
	Resolve(ctx context.Context, idOrAlias string) (*domain.SchedulingProfile, error)
}

// TokenAuthority интерфейс выпуска токенов-возможностей
type TokenAuthority interface {
	MintTriple() (tokens.Triple, error)
}

// RateLimiter интерфейс ограничителя частоты создания бронирований
type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// CaptchaVerifier интерфейс проверки человечности
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// CalendarClient интерфейс клиента внешнего календаря
type CalendarClient interface {
	PushEvent(ctx context.Context, employeeID int64, subject, clientName, clientEmail string, start, end time.Time) (*calendarsync.CalendarEvent, error)
}

// NotifierClient интерфейс клиента уведомлений
type NotifierClient interface {
	SendAsync(event notifier.EventType, bookingID, employeeID int64, clientEmail string, payload map[string]string)
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
