package eventlog

import (
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// Encode serializes state for persistence across reloads
func Encode(state State) ([]byte, error) {
	state.Version = SchemaVersion
	if state.Events == nil {
		state.Events = []models.DrinkEvent{}
	}
	if state.Snapshot == nil {
		state.Snapshot = models.Snapshot{}
	}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal drink log: %w", err)
	}
	return data, nil
}

// Decode restores a persisted state. Anything unreadable or written under
// another schema version is treated as absent: ok is false and the caller
// starts a fresh run rather than trusting part of it.
func Decode(data []byte) (state State, ok bool) {
	if len(data) == 0 {
		return State{}, false
	}

	var decoded State
	if err := json.Unmarshal(data, &decoded); err != nil {
		return State{}, false
	}
	if decoded.Version != SchemaVersion || decoded.RunID == "" {
		return State{}, false
	}

	if decoded.Events == nil {
		decoded.Events = []models.DrinkEvent{}
	}
	if decoded.Snapshot == nil {
		decoded.Snapshot = models.Snapshot{}
	}
	return decoded, true
}
