package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter in-memory ограничитель с фиксированным окном
// Подходит только для single-instance развертывания: счетчики не разделяются
// между экземплярами и теряются при рестарте
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*windowEntry
	now     func() time.Time
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter создает in-memory ограничитель: limit запросов за window
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Allow инкрементирует счетчик ключа и возвращает решение
// Счетчик увеличивается и при отказе: окно не сбрасывается повторными попытками
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	entry, ok := l.entries[key]
	if !ok || !now.Before(entry.resetAt) {
		entry = &windowEntry{resetAt: now.Add(l.window)}
		l.entries[key] = entry
	}

	entry.count++

	remaining := l.limit - entry.count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   entry.count <= l.limit,
		Remaining: remaining,
		ResetAt:   entry.resetAt,
	}, nil
}

// Cleanup удаляет истекшие окна, вызывается периодически из фонового тикера
func (l *MemoryLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, entry := range l.entries {
		if !now.Before(entry.resetAt) {
			delete(l.entries, key)
		}
	}
}
