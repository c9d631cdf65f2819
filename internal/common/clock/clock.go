package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/barcrew/internal/common/clock Clock

// Clock is the single source of "now" for boundaries, deadlines and cooldowns.
type Clock interface {
	Now() time.Time
}

// DefaultClock reads the system clock in UTC. Callers convert to a venue
// location themselves.
type DefaultClock struct{}

func New() *DefaultClock {
	return &DefaultClock{}
}

func (c *DefaultClock) Now() time.Time {
	return time.Now().UTC()
}

// Since is time.Since against c.
func Since(c Clock, t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Until is time.Until against c. It is never negative.
func Until(c Clock, t time.Time) time.Duration {
	d := t.Sub(c.Now())
	if d < 0 {
		return 0
	}
	return d
}
