package drink_ledger

import (
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// StartRunInput contains parameters for starting a new run
type StartRunInput struct {
	UserID    string
	RunID     string
	StartedAt time.Time
}

// GetSnapshotInput contains parameters for reading a member's run
type GetSnapshotInput struct {
	UserID string
}

// GetSnapshotOutput contains the member's current run
type GetSnapshotOutput struct {
	// RunID is empty when the member never started a run
	RunID     string
	StartedAt time.Time
	Snapshot  models.Snapshot

	// Total is the run-wide drink count
	Total int
}

// ApplyDeltaInput contains parameters for changing one variation count
type ApplyDeltaInput struct {
	UserID        string
	RunID         string
	CategoryID    string
	VariationName string

	// Delta is +1 for a logged drink and -1 for an undo
	Delta int

	// EventID makes the write safe to retry; a repeated ID is a no-op
	EventID string
}

// ApplyDeltaOutput contains the counts after the write
type ApplyDeltaOutput struct {
	Count       int
	TotalBefore int
	TotalAfter  int

	// Duplicate is true when EventID had already been applied
	Duplicate bool
}
