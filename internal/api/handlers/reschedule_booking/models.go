package reschedule_booking

import (
	"fmt"
	"time"

	rescheduleBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewStartTime string `json:"newStartTime"` // RFC 3339
}

// ActionLinks ссылки-действия со встроенными токенами нового бронирования
type ActionLinks struct {
	Confirm    string `json:"confirm"`
	Cancel     string `json:"cancel"`
	Reschedule string `json:"reschedule"`
}

// RescheduledResponse HTTP response model
type RescheduledResponse struct {
	ID              int64   `json:"id"`
	PreviousID      int64   `json:"previousId"`
	EmployeeID      int64   `json:"employeeId"`
	ClientName      string  `json:"clientName"`
	Subject         string  `json:"subject"`
	Notes           *string `json:"notes,omitempty"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`

	Actions     ActionLinks `json:"actions"`
	MeetingLink *string     `json:"meetingLink,omitempty"`

	CreatedAt string `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response, publicBaseURL string) *RescheduledResponse {
	return &RescheduledResponse{
		ID:              resp.ID,
		PreviousID:      resp.PreviousID,
		EmployeeID:      resp.EmployeeID,
		ClientName:      resp.ClientName,
		Subject:         resp.Subject,
		Notes:           resp.Notes,
		StartTime:       resp.StartTime.Format(time.RFC3339),
		EndTime:         resp.EndTime.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Actions: ActionLinks{
			Confirm:    actionLink(publicBaseURL, resp.ID, "confirm", resp.ConfirmToken),
			Cancel:     actionLink(publicBaseURL, resp.ID, "cancel", resp.CancelToken),
			Reschedule: actionLink(publicBaseURL, resp.ID, "reschedule", resp.RescheduleToken),
		},
		MeetingLink: resp.MeetingLink,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}

func actionLink(baseURL string, bookingID int64, action, token string) string {
	return fmt.Sprintf("%s/api/v1/bookings/%d/%s?token=%s", baseURL, bookingID, action, token)
}
