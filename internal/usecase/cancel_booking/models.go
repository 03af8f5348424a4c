package cancel_booking

import "time"

// Request модель запроса на отмену бронирования клиентом
type Request struct {
	BookingID int64
	Token     string // Токен отмены из письма
	Reason    string // Причина отмены (опционально)
}

// Response модель ответа с отмененным бронированием
type Response struct {
	ID          int64
	EmployeeID  int64
	Subject     string
	StartTime   time.Time
	EndTime     time.Time
	Status      string
	CancelledBy string
}
