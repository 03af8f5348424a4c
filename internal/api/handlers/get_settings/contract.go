package get_settings

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/profile/models"
)

type ProfileService interface {
	GetSettings(ctx context.Context, employeeID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
