package util

import (
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket gating how often the watcher may flush a
// coalesced batch of filesystem events.
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter allows perSecond flushes on average with bursts of up to burst.
func NewLimiter(perSecond float64, burst int) *Limiter {
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Allow reports whether n tokens are available now, consuming them if so.
func (l *Limiter) Allow(n int) bool {
	return l.bucket.AllowN(time.Now(), n)
}
