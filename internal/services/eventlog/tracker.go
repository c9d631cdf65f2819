package eventlog

import (
	"context"
	"fmt"
	"sync"

	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"github.com/KirkDiggler/barcrew/internal/common/uuid"
	"github.com/KirkDiggler/barcrew/internal/models"
	drinkLedgerRepo "github.com/KirkDiggler/barcrew/internal/repositories/drink_ledger"
	"github.com/KirkDiggler/barcrew/internal/timeboundary"
	"go.uber.org/zap"
)

// TrackerConfig holds configuration for a drink tracking session
type TrackerConfig struct {
	// UserID is the member whose drinks are tracked
	UserID string

	// Schema lists the categories and variations shown to the member
	Schema []models.DrinkCategory

	// Restored is a state previously produced by Export
	Restored []byte

	// Governor overrides the spam governor limits
	Governor *GovernorConfig

	// Boundary rolls the run over at cooldown boundaries when set
	Boundary *timeboundary.Calculator

	DrinkLedgerRepo drinkLedgerRepo.Repository
	Clock           clock.Clock
	UUIDGenerator   uuid.UUID
	Logger          *zap.Logger
}

// Tracker is one member session over the drink log. It updates the local
// state optimistically and pushes every change through a single-file queue.
type Tracker struct {
	mu       sync.Mutex
	state    State
	userID   string
	schema   []models.DrinkCategory
	queue    *Queue
	governor *Governor
	boundary *timeboundary.Calculator
	ledger   drinkLedgerRepo.Repository
	clock    clock.Clock
	uuid     uuid.UUID
	logger   *zap.Logger
}

// NewTracker creates a tracking session
func NewTracker(cfg *TrackerConfig) (*Tracker, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.UserID == "" {
		return nil, ErrMissingUserID
	}
	if cfg.DrinkLedgerRepo == nil {
		return nil, ErrNilLedgerRepo
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	gen := cfg.UUIDGenerator
	if gen == nil {
		gen = uuid.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("user_id", cfg.UserID))

	state, ok := Decode(cfg.Restored)
	if !ok {
		if len(cfg.Restored) > 0 {
			logger.Info("discarding persisted drink log")
		}
		state = NewState("")
	}

	return &Tracker{
		state:    state,
		userID:   cfg.UserID,
		schema:   cfg.Schema,
		queue:    NewQueue(logger),
		governor: NewGovernor(cfg.Governor, clk),
		boundary: cfg.Boundary,
		ledger:   cfg.DrinkLedgerRepo,
		clock:    clk,
		uuid:     gen,
		logger:   logger,
	}, nil
}

// View returns the current derived counts
func (t *Tracker) View() *Derived {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Derive(t.state, t.schema)
}

// RunID returns the current run
func (t *Tracker) RunID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.RunID
}

// Export serializes the local state for persistence
func (t *Tracker) Export() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Encode(t.state)
}

// Close waits for queued writes and stops the queue
func (t *Tracker) Close() {
	t.queue.Close()
}

// Add logs one drink
func (t *Tracker) Add(ctx context.Context, input *AddInput) (*MutationOutput, error) {
	if input == nil || input.CategoryID == "" || input.VariationName == "" {
		return nil, ErrInvalidVariant
	}
	if err := t.prepareRun(ctx); err != nil {
		return nil, err
	}

	decision := t.governor.Allow(input.CategoryID)
	if !decision.Allowed {
		return &MutationOutput{Derived: t.View(), Governor: decision}, ErrSpamCooldown
	}

	output, err := t.mutate(ctx, Action{
		Type:          ActionAdd,
		CategoryID:    input.CategoryID,
		VariationName: input.VariationName,
	}, 1)
	if output != nil {
		output.Governor = decision
	}
	return output, err
}

// Remove undoes one drink, cancelling the latest unsynced ADD when there is one
func (t *Tracker) Remove(ctx context.Context, input *RemoveInput) (*MutationOutput, error) {
	if input == nil || input.CategoryID == "" || input.VariationName == "" {
		return nil, ErrInvalidVariant
	}
	if err := t.prepareRun(ctx); err != nil {
		return nil, err
	}

	if t.View().Count(input.CategoryID, input.VariationName) == 0 {
		return nil, ErrNothingToRemove
	}

	return t.mutate(ctx, Action{
		Type:          ActionRemove,
		CategoryID:    input.CategoryID,
		VariationName: input.VariationName,
	}, -1)
}

func (t *Tracker) mutate(ctx context.Context, action Action, delta int) (*MutationOutput, error) {
	action.EventID = t.uuid.NewUUID()
	action.Timestamp = t.clock.Now()

	t.mu.Lock()
	t.state = Apply(t.state, action)
	event := t.state.Events[len(t.state.Events)-1]
	t.mu.Unlock()

	var cancelled bool
	err := t.queue.Do(ctx, func(ctx context.Context) error {
		if event.Op == models.DrinkOpRemove && !t.holds(event.ID) {
			cancelled = true
			return nil
		}
		_, err := t.ledger.ApplyDelta(ctx, &drinkLedgerRepo.ApplyDeltaInput{
			UserID:        t.userID,
			RunID:         event.RunID,
			CategoryID:    event.CategoryID,
			VariationName: event.VariationName,
			Delta:         delta,
			EventID:       event.ID,
		})
		if err != nil {
			// roll back before the next queued job looks at the log
			t.rollback(event.ID)
		}
		return err
	})
	if err != nil {
		// the job may never have run when ctx was cancelled or the queue closed
		t.rollback(event.ID)

		t.logger.Warn("drink write failed, rolled back",
			zap.String("event_id", event.ID),
			zap.String("op", string(event.Op)),
			zap.Error(err))
		return &MutationOutput{Event: event, Derived: t.View()}, fmt.Errorf("failed to save drink: %w", err)
	}
	if cancelled {
		t.logger.Info("drink removal dropped with its rolled back add",
			zap.String("event_id", event.ID),
			zap.String("target_id", event.TargetID))
	}

	return &MutationOutput{Event: event, Derived: t.View(), Cancelled: cancelled}, nil
}

// holds reports whether the event is still in the local log
func (t *Tracker) holds(eventID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, event := range t.state.Events {
		if event.ID == eventID {
			return true
		}
	}
	return false
}

// rollback drops a failed event and any REMOVE that targets it
func (t *Tracker) rollback(eventID string) {
	t.mu.Lock()
	t.state = dropEvent(t.state, eventID)
	t.mu.Unlock()
}

// Sync installs the server snapshot. It runs on the mutation queue so it
// never lands while a write is still in flight.
func (t *Tracker) Sync(ctx context.Context) (*Derived, error) {
	err := t.queue.Do(ctx, func(ctx context.Context) error {
		output, err := t.ledger.GetSnapshot(ctx, &drinkLedgerRepo.GetSnapshotInput{
			UserID: t.userID,
		})
		if err != nil {
			return err
		}

		t.mu.Lock()
		defer t.mu.Unlock()

		if output.RunID == "" {
			return nil
		}
		if output.RunID != t.state.RunID {
			t.state = Apply(t.state, Action{
				Type:      ActionResetRun,
				RunID:     output.RunID,
				Timestamp: output.StartedAt,
			})
		}
		t.state = Apply(t.state, Action{
			Type:     ActionSetSnapshot,
			Snapshot: output.Snapshot,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sync drink snapshot: %w", err)
	}
	return t.View(), nil
}

// Reset starts a new run on the server and locally
func (t *Tracker) Reset(ctx context.Context) (*Derived, error) {
	runID := t.uuid.NewUUID()
	now := t.clock.Now()

	err := t.queue.Do(ctx, func(ctx context.Context) error {
		return t.ledger.StartRun(ctx, &drinkLedgerRepo.StartRunInput{
			UserID:    t.userID,
			RunID:     runID,
			StartedAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	t.mu.Lock()
	t.state = Apply(t.state, Action{
		Type:      ActionResetRun,
		RunID:     runID,
		Timestamp: now,
	})
	t.mu.Unlock()

	t.logger.Info("drink run reset", zap.String("run_id", runID))
	return t.View(), nil
}

// CheckBoundary resets the run when a cooldown boundary passed since it started
func (t *Tracker) CheckBoundary(ctx context.Context) (bool, error) {
	if t.boundary == nil {
		return false, nil
	}

	t.mu.Lock()
	startedAt := t.state.RunStartedAt
	runID := t.state.RunID
	t.mu.Unlock()

	if runID == "" || startedAt.IsZero() {
		return false, nil
	}
	if !t.boundary.LatestBoundary(t.clock.Now()).After(startedAt) {
		return false, nil
	}

	if _, err := t.Reset(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// prepareRun makes sure there is a current run before a write
func (t *Tracker) prepareRun(ctx context.Context) error {
	if t.RunID() == "" {
		if _, err := t.Sync(ctx); err != nil {
			return err
		}
		if t.RunID() == "" {
			_, err := t.Reset(ctx)
			return err
		}
	}
	_, err := t.CheckBoundary(ctx)
	return err
}
