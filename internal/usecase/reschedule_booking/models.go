package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID    int64
	Token        string    // Токен переноса из письма
	NewStartTime time.Time // Новое начало слота
}

// Response модель ответа с новым бронированием
// Старое бронирование переходит в статус rescheduled и ссылается на новое
type Response struct {
	ID              int64 // ID нового бронирования
	PreviousID      int64 // ID исходного бронирования
	EmployeeID      int64
	ClientName      string
	ClientEmail     string
	Subject         string
	Notes           *string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Status          string

	// Свежие токены для нового бронирования, старые токены недействительны
	ConfirmToken    string
	CancelToken     string
	RescheduleToken string

	MeetingLink *string

	CreatedAt time.Time
}
