package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда интервал уже занят другим бронированием
	// Маппится с нарушения exclusion constraint на уровне PostgreSQL
	ErrSlotTaken = errors.New("booking.repository: slot already taken")

	// ErrInvalidTransition возвращается, когда условное обновление статуса
	// не затронуло ни одной строки (статус уже изменился конкурентно)
	ErrInvalidTransition = errors.New("booking.repository: status transition not allowed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
