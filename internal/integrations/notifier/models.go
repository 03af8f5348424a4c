package notifier

// EventType тип события уведомления
type EventType string

const (
	EventBookingCreated     EventType = "booking.created"
	EventBookingConfirmed   EventType = "booking.confirmed"
	EventBookingCancelled   EventType = "booking.cancelled"
	EventBookingRescheduled EventType = "booking.rescheduled"
)

// Notification событие для отправки уведомления
type Notification struct {
	RequestID   string            `json:"request_id"`
	Event       EventType         `json:"event"`
	BookingID   int64             `json:"booking_id"`
	EmployeeID  int64             `json:"employee_id"`
	ClientEmail string            `json:"client_email"`
	Payload     map[string]string `json:"payload,omitempty"`
}
