package create_booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("create_booking: employee not found")

	// ErrNotAcceptingBookings возвращается, когда сотрудник закрыл запись
	ErrNotAcceptingBookings = errors.New("create_booking: employee is not accepting bookings")

	// ErrSlotTaken возвращается, когда интервал уже занят другим бронированием
	ErrSlotTaken = errors.New("create_booking: slot is already taken")

	// ErrSlotNotAligned возвращается, когда время начала не лежит на сетке слотов
	ErrSlotNotAligned = errors.New("create_booking: start time is not on the slot grid")

	// ErrTooLateToBook возвращается при нарушении минимального уведомления
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrDateTooFarInFuture возвращается, когда дата за горизонтом бронирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrRateLimited возвращается при превышении лимита создания бронирований
	ErrRateLimited = errors.New("create_booking: rate limit exceeded")

	// ErrCaptchaFailed возвращается, когда проверка человечности отклонила запрос
	ErrCaptchaFailed = errors.New("create_booking: captcha verification failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// RateLimitedError ошибка превышения лимита с временем сброса окна
// Раскрывается через errors.Is(err, ErrRateLimited) и errors.As
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("create_booking: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Unwrap возвращает сентинел для errors.Is
func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}
