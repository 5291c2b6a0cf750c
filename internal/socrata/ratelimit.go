package socrata

import (
	"math"
	"sync"
	"time"
)

// rateLimiter is a token-bucket limiter for Socrata API requests. Capacity
// equals the configured requests/second; tokens refill continuously from
// elapsed time. The bucket starts empty so a burst at process start is still
// paced. Acquire blocks (sleeps) until a token is available.
//
// The token state is process-local. The mutex makes Acquire safe if multiple
// extractors ever share one client, even though the pipeline itself runs
// page fetches strictly sequentially.
type rateLimiter struct {
	mu     sync.Mutex
	rate   float64
	tokens float64
	last   time.Time

	// Overridable for tests.
	now   func() time.Time
	sleep func(time.Duration)
}

func newRateLimiter(perSecond int) *rateLimiter {
	return &rateLimiter{
		rate:  float64(perSecond),
		last:  time.Now(),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Acquire blocks until a token is available, then consumes it.
func (rl *rateLimiter) Acquire() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(rl.last).Seconds()
	rl.tokens = math.Min(rl.rate, rl.tokens+elapsed*rl.rate)
	rl.last = now

	if rl.tokens < 1 {
		wait := time.Duration((1 - rl.tokens) / rl.rate * float64(time.Second))
		rl.sleep(wait)
		// The slept interval paid for this token; re-stamp so the next
		// acquisition does not credit it a second time.
		rl.last = rl.now()
		rl.tokens = 0
		return
	}
	rl.tokens--
}
