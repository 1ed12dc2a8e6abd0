package httpapi

import (
	"sync"

	"golang.org/x/time/rate"
)

// PublishLimiter throttles chat publications per wallet. Each wallet gets
// its own token bucket, created on first use and kept for the lifetime of
// the process.
type PublishLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewPublishLimiter(perSecond float64, burst int) *PublishLimiter {
	return &PublishLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}
}

// Allow reports whether the wallet may publish right now.
func (l *PublishLimiter) Allow(wallet string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[wallet]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[wallet] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}
