package ratelimit

import (
	"context"
	"time"
)

// Decision результат проверки лимита для одного ключа
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter ограничитель частоты создания бронирований по ключу
// (ключом служит клиентский IP адрес)
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
