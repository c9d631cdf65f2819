// Package ratelimit holds per-key token buckets.
//
// It backs the coarse server-side mirror of the client drink governor. It is
// deliberately looser than the client: it only stops scripted floods.
package ratelimit

import (
	"sync"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"golang.org/x/time/rate"
)

type limiterWithTime struct {
	limiter   *rate.Limiter
	lastUsage time.Time
}

// KeyedLimiter keeps one token bucket per key
type KeyedLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterWithTime
	rate      rate.Limit
	burst     int
	expiry    time.Duration
	lastSweep time.Time
	clock     clock.Clock
}

// Config configures a KeyedLimiter
type Config struct {
	// PerMinute is the sustained number of events per key per minute
	PerMinute int

	// Burst is the number of events allowed back to back
	Burst int

	// Expiry drops buckets unused for this long (default 1h)
	Expiry time.Duration

	Clock clock.Clock
}

// New creates a KeyedLimiter
func New(cfg *Config) *KeyedLimiter {
	if cfg == nil {
		cfg = &Config{}
	}
	perMinute := cfg.PerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = perMinute
	}
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &KeyedLimiter{
		limiters: make(map[string]*limiterWithTime),
		rate:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		expiry:   expiry,
		clock:    clk,
	}
}

// Allow consumes one token for key and reports whether it was available
func (l *KeyedLimiter) Allow(key string) bool {
	now := l.clock.Now()
	return l.get(key, now).AllowN(now, 1)
}

func (l *KeyedLimiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > time.Minute {
		for k, wrapper := range l.limiters {
			if now.Sub(wrapper.lastUsage) > l.expiry {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	wrapper, exists := l.limiters[key]
	if !exists {
		wrapper = &limiterWithTime{
			limiter: rate.NewLimiter(l.rate, l.burst),
		}
		l.limiters[key] = wrapper
	}
	wrapper.lastUsage = now
	return wrapper.limiter
}

// Len returns the number of live buckets
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
