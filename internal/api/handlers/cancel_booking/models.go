package cancel_booking

import (
	"time"

	cancelBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancelledResponse HTTP response model
type CancelledResponse struct {
	ID          int64  `json:"id"`
	EmployeeID  int64  `json:"employeeId"`
	Subject     string `json:"subject"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Status      string `json:"status"`
	CancelledBy string `json:"cancelledBy"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelledResponse {
	return &CancelledResponse{
		ID:          resp.ID,
		EmployeeID:  resp.EmployeeID,
		Subject:     resp.Subject,
		StartTime:   resp.StartTime.Format(time.RFC3339),
		EndTime:     resp.EndTime.Format(time.RFC3339),
		Status:      resp.Status,
		CancelledBy: resp.CancelledBy,
	}
}
