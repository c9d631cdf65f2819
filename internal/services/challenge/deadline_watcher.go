package challenge

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"github.com/KirkDiggler/barcrew/internal/models"
	"go.uber.org/zap"
)

// DefaultWatchTick is how often the deadline watcher checks its dares
const DefaultWatchTick = time.Second

// Failer fails dares
type Failer interface {
	Fail(ctx context.Context, input *FailInput) (*FailOutput, error)
}

// DeadlineWatcherConfig holds configuration for a deadline watcher
type DeadlineWatcherConfig struct {
	// UserID is the receiver whose dares are watched
	UserID string

	Service Failer

	// Tick is the check interval (default 1s)
	Tick time.Duration

	// OnExpired is called with each dare the watcher failed
	OnExpired func(challenge *models.Challenge)

	Clock  clock.Clock
	Logger *zap.Logger
}

// DeadlineWatcher fails a receiver's open dares once their deadline passes.
// It runs for as long as the receiver is connected; ExpireOverdue catches
// the dares of receivers who never are.
type DeadlineWatcher struct {
	mu        sync.Mutex
	userID    string
	service   Failer
	tick      time.Duration
	onExpired func(challenge *models.Challenge)
	clock     clock.Clock
	logger    *zap.Logger
	tracked   map[string]time.Time
}

// NewDeadlineWatcher creates a deadline watcher
func NewDeadlineWatcher(cfg *DeadlineWatcherConfig) (*DeadlineWatcher, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.UserID == "" {
		return nil, ErrMissingUserID
	}
	if cfg.Service == nil {
		return nil, ErrNilService
	}

	w := &DeadlineWatcher{
		userID:    cfg.UserID,
		service:   cfg.Service,
		tick:      cfg.Tick,
		onExpired: cfg.OnExpired,
		clock:     cfg.Clock,
		logger:    cfg.Logger,
		tracked:   make(map[string]time.Time),
	}
	if w.tick <= 0 {
		w.tick = DefaultWatchTick
	}
	if w.clock == nil {
		w.clock = clock.New()
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w, nil
}

// Observe starts or stops tracking a dare from its latest state
func (w *DeadlineWatcher) Observe(challenge *models.Challenge) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if challenge.ReceiverID != w.userID || challenge.Status != models.ChallengeStatusInProgress {
		delete(w.tracked, challenge.ID)
		return
	}
	w.tracked[challenge.ID] = challenge.DeadlineAt
}

// Remaining returns the time left on a tracked dare
func (w *DeadlineWatcher) Remaining(challengeID string) (time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	deadline, ok := w.tracked[challengeID]
	if !ok {
		return 0, false
	}
	return clock.Until(w.clock, deadline), true
}

// Check fails every tracked dare whose deadline has passed
func (w *DeadlineWatcher) Check(ctx context.Context) []string {
	now := w.clock.Now()

	w.mu.Lock()
	var due []string
	for id, deadline := range w.tracked {
		if !now.Before(deadline) {
			due = append(due, id)
			delete(w.tracked, id)
		}
	}
	w.mu.Unlock()

	expired := make([]string, 0, len(due))
	for _, id := range due {
		output, err := w.service.Fail(ctx, &FailInput{
			ChallengeID: id,
			Reason:      "deadline reached",
		})
		if err != nil {
			w.logger.Warn("failed to expire challenge",
				zap.String("challenge_id", id),
				zap.Error(err))
			continue
		}
		if !output.Failed {
			continue
		}
		expired = append(expired, id)
		if w.onExpired != nil {
			w.onExpired(output.Challenge)
		}
	}
	return expired
}

// Run checks deadlines every tick until ctx is done
func (w *DeadlineWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}
