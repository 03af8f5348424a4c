package calendarsync

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendarsync client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("calendarsync client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что календарный сервис недоступен: занятость считается
	// только по журналу бронирований, событие не создается
	ErrServiceDegraded = errors.New("calendarsync unavailable: graceful degradation applied")
)
