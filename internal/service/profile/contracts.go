package profile

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
)

// ProfileRepository интерфейс репозитория профилей расписания
type ProfileRepository interface {
	GetByEmployeeID(ctx context.Context, employeeID int64) (*domain.SchedulingProfile, error)
	GetByAlias(ctx context.Context, alias string) (*domain.SchedulingProfile, error)
	Create(ctx context.Context, p *domain.SchedulingProfile) (*domain.SchedulingProfile, error)
	Update(ctx context.Context, p *domain.SchedulingProfile) (*domain.SchedulingProfile, error)
}

// TransactionManager интерфейс для управления транзакциями
// Скалярная строка профиля и окна недели пишутся в разные таблицы,
// поэтому запись профиля идет под транзакцией
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// StaffServiceClient интерфейс клиента для StaffService
type StaffServiceClient interface {
	GetEmployee(ctx context.Context, employeeID int64) (*staffservice.Employee, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
