package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionCheck       = "check"
	ActionSendMessage = "send_message"
	ActionRequest     = "request"

	defaultPerMinute = 20
	idleAfter        = time.Hour
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per user and action. Each bucket holds
// a minute's worth of tokens and refills evenly over the minute.
type RateLimiter struct {
	perMinute map[string]int
	buckets   map[string]*bucket
	mutex     sync.Mutex
	now       func() time.Time
}

// NewRateLimiter takes the per-minute allowance of each action. Actions not
// listed get a default of 20 per minute; a non-positive allowance disables
// limiting for that action.
func NewRateLimiter(perMinute map[string]int) *RateLimiter {
	limits := make(map[string]int, len(perMinute))
	for action, n := range perMinute {
		limits[action] = n
	}
	return &RateLimiter{
		perMinute: limits,
		buckets:   make(map[string]*bucket),
		now:       time.Now,
	}
}

func (rl *RateLimiter) limitFor(action string) int {
	if n, ok := rl.perMinute[action]; ok {
		return n
	}
	return defaultPerMinute
}

// Allow consumes a token for userID's action. When the bucket is empty it
// returns false and how long until the next token.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	perMinute := rl.limitFor(action)
	if perMinute <= 0 {
		return true, 0
	}

	key := userID + ":" + action
	now := rl.now()

	rl.mutex.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mutex.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup drops buckets idle for more than an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := rl.now().Add(-idleAfter)
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine runs Cleanup every 30 minutes until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}
