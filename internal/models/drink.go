package models

import (
	"time"
)

// DrinkOp is the kind of change a drink event records
type DrinkOp string

const (
	// DrinkOpAdd logs one more drink of a variation
	DrinkOpAdd DrinkOp = "ADD"

	// DrinkOpRemove undoes one drink of a variation
	DrinkOpRemove DrinkOp = "REMOVE"
)

// DrinkEvent is one immutable entry in a member's local drink log
type DrinkEvent struct {
	ID            string    `json:"id"`
	Op            DrinkOp   `json:"op"`
	RunID         string    `json:"runId"`
	CategoryID    string    `json:"categoryId"`
	VariationName string    `json:"variationName"`
	// TargetID points at the ADD a REMOVE cancels, empty for a bare decrement
	TargetID      string    `json:"targetId,omitempty"`
	Timestamp     time.Time `json:"ts"`
}

// Snapshot is the server-authoritative count per category and variation
type Snapshot map[string]map[string]int

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for category, variations := range s {
		inner := make(map[string]int, len(variations))
		for name, count := range variations {
			inner[name] = count
		}
		out[category] = inner
	}
	return out
}

// DrinkCategory describes one drink category and its variations
type DrinkCategory struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Variations []string `json:"variations"`
}
