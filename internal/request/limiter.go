package request

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// limiter.go gates outbound requests: at most count requests per window.

const (
	DefaultRateCount  = 10
	DefaultRateWindow = 10 * time.Second

	// waits longer than this are traced
	slowWaitThreshold = 200 * time.Millisecond
)

// Limiter admits at most count requests per window.
// A window opens when the previous one is used up or has expired, and never
// sooner than one window length after the previous one opened. Callers are
// admitted in the order they called Wait.
type Limiter struct {
	count  int
	window time.Duration

	mu        sync.Mutex
	windows   *rate.Limiter
	start     time.Time
	remaining int

	logger zerolog.Logger
}

// NewLimiter creates a limiter; non-positive values fall back to the defaults
func NewLimiter(count int, window time.Duration) *Limiter {
	if count < 1 {
		count = DefaultRateCount
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &Limiter{
		count:   count,
		window:  window,
		windows: rate.NewLimiter(rate.Every(window), 1),
		logger:  zerolog.Nop(),
	}
}

// Count returns the number of requests admitted per window
func (l *Limiter) Count() int { return l.count }

// Window returns the window length
func (l *Limiter) Window() time.Duration { return l.window }

// reserve books the next free slot and returns how long the caller must wait for it
func (l *Limiter) reserve(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.remaining == 0 || !now.Before(l.start.Add(l.window)) {
		r := l.windows.ReserveN(now, 1)
		l.start = now.Add(r.DelayFrom(now))
		l.remaining = l.count
	}
	l.remaining--

	if l.start.After(now) {
		return l.start.Sub(now)
	}
	return 0
}

// Wait blocks until the caller is admitted. It only fails when ctx is done,
// in which case the booked slot is forfeited.
func (l *Limiter) Wait(ctx context.Context) error {
	start := time.Now()
	delay := l.reserve(start)

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if waited := time.Since(start); waited > slowWaitThreshold {
		l.logger.Trace().Msgf("Waited %.3f for rate limiter", waited.Seconds())
	}
	return nil
}

// ParseRateLimit parses a rate limit string like "10/10s" or "60/minute"
func ParseRateLimit(rateStr string) (int, time.Duration, error) {
	parts := strings.SplitN(rateStr, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("rate limit %q: expected <count>/<window>", rateStr)
	}

	count, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || count <= 0 {
		return 0, 0, fmt.Errorf("rate limit %q: count must be a positive integer", rateStr)
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	switch strings.TrimSuffix(unit, "s") {
	case "second", "sec":
		return count, time.Second, nil
	case "minute", "min":
		return count, time.Minute, nil
	case "hour", "hr":
		return count, time.Hour, nil
	}

	window, err := time.ParseDuration(unit)
	if err != nil || window <= 0 {
		return 0, 0, fmt.Errorf("rate limit %q: invalid window", rateStr)
	}
	return count, window, nil
}
