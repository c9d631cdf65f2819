package eventlog

import (
	"github.com/KirkDiggler/barcrew/internal/models"
)

// NewState returns an empty state for runID
func NewState(runID string) State {
	return State{
		Version:  SchemaVersion,
		RunID:    runID,
		Events:   []models.DrinkEvent{},
		Snapshot: models.Snapshot{},
	}
}

// Apply is the pure reducer over the drink log. It never mutates state in
// place; the returned State shares no slices or maps with the input.
func Apply(state State, action Action) State {
	switch action.Type {
	case ActionAdd:
		next := copyState(state)
		next.Events = append(next.Events, models.DrinkEvent{
			ID:            action.EventID,
			Op:            models.DrinkOpAdd,
			RunID:         state.RunID,
			CategoryID:    action.CategoryID,
			VariationName: action.VariationName,
			Timestamp:     action.Timestamp,
		})
		return next

	case ActionRemove:
		next := copyState(state)
		next.Events = append(next.Events, models.DrinkEvent{
			ID:            action.EventID,
			Op:            models.DrinkOpRemove,
			RunID:         state.RunID,
			CategoryID:    action.CategoryID,
			VariationName: action.VariationName,
			TargetID:      rebateTarget(state, action.CategoryID, action.VariationName),
			Timestamp:     action.Timestamp,
		})
		return next

	case ActionResetRun:
		next := NewState(action.RunID)
		next.RunStartedAt = action.Timestamp
		return next

	case ActionSetSnapshot:
		// Callers only install snapshots between user actions, so no local
		// event is in flight and all of them are covered by the new baseline.
		next := copyState(state)
		next.Snapshot = action.Snapshot.Clone()
		if next.Snapshot == nil {
			next.Snapshot = models.Snapshot{}
		}
		next.Events = []models.DrinkEvent{}
		return next
	}

	return state
}

// rebateTarget finds the most recent ADD of the variant in the current run
// that no REMOVE has cancelled yet
func rebateTarget(state State, categoryID, variationName string) string {
	consumed := make(map[string]struct{})
	for _, event := range state.Events {
		if event.Op == models.DrinkOpRemove && event.TargetID != "" {
			consumed[event.TargetID] = struct{}{}
		}
	}

	for i := len(state.Events) - 1; i >= 0; i-- {
		event := state.Events[i]
		if event.RunID != state.RunID || event.Op != models.DrinkOpAdd {
			continue
		}
		if event.CategoryID != categoryID || event.VariationName != variationName {
			continue
		}
		if _, ok := consumed[event.ID]; ok {
			continue
		}
		return event.ID
	}
	return ""
}

// Derive folds the snapshot and the current run's events into counts.
// Every count is clamped at zero after each step. Categories from schema
// always appear, even with no drinks.
func Derive(state State, schema []models.DrinkCategory) *Derived {
	counts := state.Snapshot.Clone()
	if counts == nil {
		counts = models.Snapshot{}
	}
	for _, category := range schema {
		if counts[category.ID] == nil {
			counts[category.ID] = map[string]int{}
		}
		for _, variation := range category.Variations {
			if _, ok := counts[category.ID][variation]; !ok {
				counts[category.ID][variation] = 0
			}
		}
	}

	for _, event := range state.Events {
		if event.RunID != state.RunID {
			continue
		}
		if counts[event.CategoryID] == nil {
			counts[event.CategoryID] = map[string]int{}
		}
		switch event.Op {
		case models.DrinkOpAdd:
			counts[event.CategoryID][event.VariationName]++
		case models.DrinkOpRemove:
			if counts[event.CategoryID][event.VariationName] > 0 {
				counts[event.CategoryID][event.VariationName]--
			}
		}
	}

	derived := &Derived{
		Variants:       map[string]map[string]int(counts),
		CategoryTotals: make(map[string]int, len(counts)),
	}
	for categoryID, variations := range counts {
		total := 0
		for name, count := range variations {
			if count < 0 {
				count = 0
				variations[name] = 0
			}
			total += count
		}
		derived.CategoryTotals[categoryID] = total
		derived.RunTotal += total
	}
	return derived
}

// dropEvent removes the event with id and any REMOVE that targets it
func dropEvent(state State, id string) State {
	next := copyState(state)
	kept := next.Events[:0]
	for _, event := range next.Events {
		if event.ID == id || (event.Op == models.DrinkOpRemove && event.TargetID == id) {
			continue
		}
		kept = append(kept, event)
	}
	next.Events = kept
	return next
}

func copyState(state State) State {
	next := state
	next.Events = make([]models.DrinkEvent, len(state.Events), len(state.Events)+1)
	copy(next.Events, state.Events)
	next.Snapshot = state.Snapshot.Clone()
	if next.Snapshot == nil {
		next.Snapshot = models.Snapshot{}
	}
	if next.Version == 0 {
		next.Version = SchemaVersion
	}
	return next
}
