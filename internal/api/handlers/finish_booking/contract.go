package finish_booking

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type BookingsService interface {
	Complete(ctx context.Context, bookingID int64, employeeID int64) error
	NoShow(ctx context.Context, bookingID int64, employeeID int64) error
	Cancel(ctx context.Context, bookingID int64, req *models.CancelByStaffRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
