package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrInvalidToken возвращается, когда токен не совпадает с токеном переноса
	ErrInvalidToken = errors.New("reschedule_booking: invalid reschedule token")

	// ErrCannotReschedule возвращается, когда бронирование уже в терминальном статусе
	ErrCannotReschedule = errors.New("reschedule_booking: booking cannot be rescheduled")

	// ErrNotAcceptingBookings возвращается, когда сотрудник закрыл запись
	ErrNotAcceptingBookings = errors.New("reschedule_booking: employee is not accepting bookings")

	// ErrSlotTaken возвращается, когда новый интервал уже занят
	ErrSlotTaken = errors.New("reschedule_booking: slot is already taken")

	// ErrSlotNotAligned возвращается, когда новое время не лежит на сетке слотов
	ErrSlotNotAligned = errors.New("reschedule_booking: start time is not on the slot grid")

	// ErrTooLateToBook возвращается при нарушении минимального уведомления
	ErrTooLateToBook = errors.New("reschedule_booking: too late to book this slot")

	// ErrDateTooFarInFuture возвращается, когда новая дата за горизонтом бронирования
	ErrDateTooFarInFuture = errors.New("reschedule_booking: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
