package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript атомарно инкрементирует счетчик окна и выставляет TTL
// при первом запросе. Возвращает текущее значение счетчика и оставшийся
// TTL окна в миллисекундах
var incrScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisLimiter распределенный ограничитель с фиксированным окном на Redis
// Используется при развертывании нескольких экземпляров сервиса
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter создает ограничитель на Redis: limit запросов за window
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit:create_booking:",
	}
}

// Allow атомарно инкрементирует счетчик ключа и возвращает решение
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	result, err := incrScript.Run(ctx, l.client, []string{l.prefix + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: redis script failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return Decision{}, fmt.Errorf("ratelimit: unexpected script result %T", result)
	}

	count, _ := values[0].(int64)
	ttlMillis, _ := values[1].(int64)
	if ttlMillis < 0 {
		ttlMillis = l.window.Milliseconds()
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   int(count) <= l.limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(time.Duration(ttlMillis) * time.Millisecond),
	}, nil
}
