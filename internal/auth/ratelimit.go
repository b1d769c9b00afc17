package auth

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter caps requests per identity within a fixed window.
//
// The algorithm is a fixed-window counter: each identity gets a
// (count, resetAt) pair, reset on first use after the window ends. A burst
// at the very end of one window followed by one at the start of the next
// can pass up to 2x the limit across the boundary; accepted for the O(1)
// cost per check. Distinct endpoints use distinct limiter instances.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow

	maxRequests int
	window      time.Duration

	now  func() time.Time
	done chan struct{}
	once sync.Once
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a rate limiter allowing maxRequests per window.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows:     make(map[string]*rateWindow),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		done:        make(chan struct{}),
	}
}

// Allow reports whether the identity may proceed. On denial it returns the
// number of whole seconds until the window resets, rounded up and never
// below 1. Identities are opaque strings: a user ID, an IP, anything.
func (rl *RateLimiter) Allow(identity string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, exists := rl.windows[identity]

	if !exists || !now.Before(w.resetAt) {
		rl.windows[identity] = &rateWindow{count: 1, resetAt: now.Add(rl.window)}
		return true, 0
	}

	if w.count < rl.maxRequests {
		w.count++
		return true, 0
	}

	retryAfter := int((w.resetAt.Sub(now) + time.Second - 1) / time.Second)
	if retryAfter < 1 {
		retryAfter = 1
	}
	return false, retryAfter
}

// Remaining returns how many requests the identity has left in its current
// window, without consuming one.
func (rl *RateLimiter) Remaining(identity string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, exists := rl.windows[identity]
	if !exists || !rl.now().Before(w.resetAt) {
		return rl.maxRequests
	}
	remaining := rl.maxRequests - w.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SweepStale deletes windows whose reset instant is more than one full
// window in the past. Entries are otherwise only overwritten, never
// removed, which would leak for high-cardinality anonymous identities.
func (rl *RateLimiter) SweepStale() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	removed := 0
	for identity, w := range rl.windows {
		if w.resetAt.Before(cutoff) {
			delete(rl.windows, identity)
			removed++
		}
	}
	return removed
}

// StartSweeper runs SweepStale on the given interval until Stop is called.
func (rl *RateLimiter) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.SweepStale()
			case <-rl.done:
				return
			}
		}
	}()
}

// Stop terminates the background sweeper. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.done) })
}

// Middleware returns an Echo middleware enforcing this limiter. The
// identity is the authenticated user ID when RequireAuth ran earlier in
// the chain, otherwise the client IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := identityKey(c)

			ok, retryAfter := rl.Allow(identity)
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":       "too many requests, please try again later",
					"retry_after": retryAfter,
				})
			}

			return next(c)
		}
	}
}

// identityKey resolves the throttling key for a request
func identityKey(c echo.Context) string {
	if userID, ok := c.Get(ContextKeyUserID).(int64); ok {
		return strconv.FormatInt(userID, 10)
	}
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return "anonymous"
}
