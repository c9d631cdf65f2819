package eventlog

import (
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// SchemaVersion is bumped whenever the persisted State layout changes
const SchemaVersion = 2

// ActionType enumerates the reducer actions
type ActionType string

const (
	// ActionAdd logs one drink
	ActionAdd ActionType = "ADD"

	// ActionRemove undoes one drink
	ActionRemove ActionType = "REMOVE"

	// ActionResetRun starts a new run and forgets everything
	ActionResetRun ActionType = "RESET_RUN"

	// ActionSetSnapshot installs a new server baseline
	ActionSetSnapshot ActionType = "SET_SNAPSHOT"
)

// Action is one input to Apply
type Action struct {
	Type ActionType

	// CategoryID and VariationName select the variant for ADD and REMOVE
	CategoryID    string
	VariationName string

	// EventID is the ID of the event an ADD or REMOVE appends
	EventID string

	// RunID is the new run for RESET_RUN
	RunID string

	// Snapshot is the new baseline for SET_SNAPSHOT
	Snapshot models.Snapshot

	Timestamp time.Time
}

// State is the local drink ledger of one member
type State struct {
	Version      int                 `json:"v"`
	RunID        string              `json:"runId"`
	RunStartedAt time.Time           `json:"runStartedAt"`
	Events       []models.DrinkEvent `json:"events"`
	Snapshot     models.Snapshot     `json:"snapshot"`
}

// Derived is the count view built from a State
type Derived struct {
	// Variants is category -> variation -> count
	Variants map[string]map[string]int

	// CategoryTotals is category -> count
	CategoryTotals map[string]int

	// RunTotal is the number of drinks in the run
	RunTotal int
}

// Count returns the derived count of one variation
func (d *Derived) Count(categoryID, variationName string) int {
	return d.Variants[categoryID][variationName]
}

// GovernorConfig holds the spam governor limits
type GovernorConfig struct {
	// Window is the sliding window ADDs are counted in (default 6s)
	Window time.Duration

	// Threshold is the number of ADDs in Window that trips the cooldown (default 3)
	Threshold int

	// Cooldown is how long ADDs are refused after tripping (default 20s)
	Cooldown time.Duration
}

// Decision is the governor's verdict on one ADD
type Decision struct {
	Allowed bool

	// Tripped is true when this ADD started the cooldown
	Tripped bool

	// RetryAfter is the remaining cooldown when the ADD was refused
	RetryAfter time.Duration

	// Message is shown to the member when the ADD was refused
	Message string
}

// AddInput contains parameters for logging a drink
type AddInput struct {
	CategoryID    string
	VariationName string
}

// RemoveInput contains parameters for undoing a drink
type RemoveInput struct {
	CategoryID    string
	VariationName string
}

// MutationOutput contains the view after a drink was logged or undone
type MutationOutput struct {
	Event   models.DrinkEvent
	Derived *Derived

	// Governor carries the governor decision for ADDs
	Governor Decision

	// Cancelled is set on a REMOVE whose ADD was rolled back before the
	// REMOVE reached the server. Nothing was written for it.
	Cancelled bool
}
