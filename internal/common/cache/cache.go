package cache

import (
	"errors"
	"sync"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/clock"
)

// ErrKeyNotFound is returned when a key is missing or has expired
var ErrKeyNotFound = errors.New("key not found in cache")

// Cache is a key to (value, expiry) store
type Cache[T any] interface {
	// Get returns the value for key unless it is missing or expired
	Get(key string) (T, error)

	// Set stores value under key for ttl; a zero ttl never expires
	Set(key string, value T, ttl time.Duration)

	// Delete removes key
	Delete(key string)

	// Clear removes every key
	Clear()
}

type item[T any] struct {
	value     T
	expiresAt time.Time
}

// Memory is an in-process Cache that reads time from an injected clock
type Memory[T any] struct {
	mu    sync.RWMutex
	items map[string]item[T]
	clock clock.Clock
}

// NewMemory creates an empty in-memory cache. A nil clock uses the system clock.
func NewMemory[T any](clk clock.Clock) *Memory[T] {
	if clk == nil {
		clk = clock.New()
	}
	return &Memory[T]{
		items: make(map[string]item[T]),
		clock: clk,
	}
}

func (c *Memory[T]) Get(key string) (T, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	var zero T
	if !ok {
		return zero, ErrKeyNotFound
	}
	if !it.expiresAt.IsZero() && !c.clock.Now().Before(it.expiresAt) {
		c.Delete(key)
		return zero, ErrKeyNotFound
	}
	return it.value, nil
}

func (c *Memory[T]) Set(key string, value T, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.clock.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item[T]{value: value, expiresAt: expiresAt}
}

func (c *Memory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Memory[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]item[T])
}
