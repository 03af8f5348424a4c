package create_booking

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	IDOrAlias   string    // Числовой ID сотрудника или публичный алиас
	StartTime   time.Time // Начало слота
	ClientName  string
	ClientEmail string
	Subject     string
	Notes       *string // Дополнительные заметки (опционально)

	CaptchaToken string // Токен проверки человечности (опционально)
	ClientIP     string // Адрес клиента, ключ rate limiter
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	EmployeeID      int64
	ClientName      string
	ClientEmail     string
	Subject         string
	Notes           *string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Status          string

	// Токены-возможности для управления бронированием без аккаунта
	ConfirmToken    string
	CancelToken     string
	RescheduleToken string

	MeetingLink *string

	CreatedAt time.Time
}
