package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, actor domain.CancelActor, reason string) error
}

// TokenMatcher интерфейс сравнения токенов-возможностей
type TokenMatcher interface {
	Matches(presented, stored string) bool
}

// NotifierClient интерфейс клиента уведомлений
type NotifierClient interface {
	SendAsync(event notifier.EventType, bookingID, employeeID int64, clientEmail string, payload map[string]string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
