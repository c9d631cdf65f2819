package eventlog

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/clock"
)

const (
	DefaultSpamWindow    = 6 * time.Second
	DefaultSpamThreshold = 3
	DefaultSpamCooldown  = 20 * time.Second
)

// Governor throttles drink logging from one session.
//
// ADDs are counted per category in a sliding window. The ADD that brings a
// category to the threshold goes through and starts a flat cooldown during
// which every ADD is refused. This is a UX guard only; the server does not
// replay it.
type Governor struct {
	mu            sync.Mutex
	window        time.Duration
	threshold     int
	cooldown      time.Duration
	clock         clock.Clock
	recent        map[string][]time.Time
	cooldownUntil time.Time
}

// NewGovernor creates a Governor; zero config fields take the defaults
func NewGovernor(cfg *GovernorConfig, clk clock.Clock) *Governor {
	if cfg == nil {
		cfg = &GovernorConfig{}
	}
	if clk == nil {
		clk = clock.New()
	}

	g := &Governor{
		window:    cfg.Window,
		threshold: cfg.Threshold,
		cooldown:  cfg.Cooldown,
		clock:     clk,
		recent:    make(map[string][]time.Time),
	}
	if g.window <= 0 {
		g.window = DefaultSpamWindow
	}
	if g.threshold <= 0 {
		g.threshold = DefaultSpamThreshold
	}
	if g.cooldown <= 0 {
		g.cooldown = DefaultSpamCooldown
	}
	return g
}

// Allow records an ADD for categoryID and decides whether it may proceed
func (g *Governor) Allow(categoryID string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if now.Before(g.cooldownUntil) {
		remaining := g.cooldownUntil.Sub(now)
		return Decision{
			Allowed:    false,
			RetryAfter: remaining,
			Message:    cooldownMessage(remaining),
		}
	}

	cutoff := now.Add(-g.window)
	kept := g.recent[categoryID][:0]
	for _, ts := range g.recent[categoryID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now)

	if len(kept) >= g.threshold {
		g.cooldownUntil = now.Add(g.cooldown)
		delete(g.recent, categoryID)
		return Decision{Allowed: true, Tripped: true}
	}

	g.recent[categoryID] = kept
	return Decision{Allowed: true}
}

// Reset clears all history and any running cooldown
func (g *Governor) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recent = make(map[string][]time.Time)
	g.cooldownUntil = time.Time{}
}

func cooldownMessage(remaining time.Duration) string {
	seconds := int(math.Ceil(remaining.Seconds()))
	return fmt.Sprintf("Easy there! You can log another drink in %ds.", seconds)
}
