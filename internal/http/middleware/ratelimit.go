package middleware

import (
	"sync"
	"time"
)

type clientInfo struct {
	last  time.Time
	count int
}

// memoryLimiter is a fixed-window counter per key, used when Redis is absent.
type memoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	max     int
	window  time.Duration
}

func newMemoryLimiter(max int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{clients: make(map[string]*clientInfo), max: max, window: window}
}

// allow counts a hit for key and reports whether it is within the limit.
func (l *memoryLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	ci, ok := l.clients[key]
	if !ok || now.Sub(ci.last) > l.window {
		if len(l.clients) > 10000 {
			l.sweep(now)
		}
		l.clients[key] = &clientInfo{last: now, count: 1}
		return true
	}

	ci.count++
	return ci.count <= l.max
}

func (l *memoryLimiter) sweep(now time.Time) {
	for k, ci := range l.clients {
		if now.Sub(ci.last) > l.window {
			delete(l.clients, k)
		}
	}
}
