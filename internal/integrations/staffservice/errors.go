package staffservice

import "errors"

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден в StaffService
	ErrEmployeeNotFound = errors.New("staffservice client: employee not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("staffservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("staffservice client: invalid response")
)
