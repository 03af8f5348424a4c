package create_booking

import (
	"fmt"
	"net/url"
	"time"

	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Employee     string  `json:"employee"`  // Числовой ID или публичный алиас
	StartTime    string  `json:"startTime"` // RFC 3339
	ClientName   string  `json:"clientName"`
	ClientEmail  string  `json:"clientEmail"`
	Subject      string  `json:"subject"`
	Notes        *string `json:"notes,omitempty"`
	CaptchaToken string  `json:"captchaToken,omitempty"`
}

// ActionLinks ссылки-действия со встроенными токенами
type ActionLinks struct {
	Confirm    string `json:"confirm"`
	Cancel     string `json:"cancel"`
	Reschedule string `json:"reschedule"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	EmployeeID      int64   `json:"employeeId"`
	ClientName      string  `json:"clientName"`
	ClientEmail     string  `json:"clientEmail"`
	Subject         string  `json:"subject"`
	Notes           *string `json:"notes,omitempty"`
	StartTime       string  `json:"startTime"` // RFC 3339
	EndTime         string  `json:"endTime"`   // RFC 3339
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`

	Actions         ActionLinks `json:"actions"`
	CalendarAddLink string      `json:"calendarAddLink"`
	MeetingLink     *string     `json:"meetingLink,omitempty"`

	CreatedAt string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientIP string) (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		IDOrAlias:    r.Employee,
		StartTime:    start,
		ClientName:   r.ClientName,
		ClientEmail:  r.ClientEmail,
		Subject:      r.Subject,
		Notes:        r.Notes,
		CaptchaToken: r.CaptchaToken,
		ClientIP:     clientIP,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
// Токены не отдаются напрямую, а встраиваются в ссылки-действия
func FromUseCaseResponse(resp *createBooking.Response, publicBaseURL string) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		EmployeeID:      resp.EmployeeID,
		ClientName:      resp.ClientName,
		ClientEmail:     resp.ClientEmail,
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
		CalendarAddLink: calendarAddLink(resp.Subject, resp.StartTime, resp.EndTime),
		MeetingLink:     resp.MeetingLink,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}

func actionLink(baseURL string, bookingID int64, action, token string) string {
	return fmt.Sprintf("%s/api/v1/bookings/%d/%s?token=%s", baseURL, bookingID, action, token)
}

// calendarAddLink собирает ссылку добавления встречи в календарь клиента
func calendarAddLink(subject string, start, end time.Time) string {
	const stampLayout = "20060102T150405Z"
	return fmt.Sprintf(
		"https://calendar.google.com/calendar/render?action=TEMPLATE&text=%s&dates=%s/%s",
		url.QueryEscape(subject),
		start.UTC().Format(stampLayout),
		end.UTC().Format(stampLayout),
	)
}
