package confirm_booking

import "time"

// Request модель запроса на подтверждение бронирования
type Request struct {
	BookingID int64
	Token     string // Токен подтверждения из письма
}

// Response модель ответа с подтвержденным бронированием
type Response struct {
	ID          int64
	EmployeeID  int64
	Subject     string
	StartTime   time.Time
	EndTime     time.Time
	Status      string
	MeetingLink *string
}
