package confirm_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("confirm_booking: booking not found")

	// ErrInvalidToken возвращается, когда токен не совпадает с токеном подтверждения
	ErrInvalidToken = errors.New("confirm_booking: invalid confirm token")

	// ErrNotPending возвращается, когда бронирование уже покинуло статус pending
	ErrNotPending = errors.New("confirm_booking: booking is no longer pending")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_booking: internal error")
)
