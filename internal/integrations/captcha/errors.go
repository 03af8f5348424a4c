package captcha

import "errors"

var (
	// ErrVerificationFailed возвращается, когда проверка отклонила токен
	ErrVerificationFailed = errors.New("captcha client: verification failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("captcha client: internal error")
)
