package eventlog

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = []models.DrinkCategory{
	{ID: "beer", Name: "Beer", Variations: []string{"lager", "ipa"}},
	{ID: "shot", Name: "Shot", Variations: []string{"tequila"}},
}

var testTime = time.Date(2025, 6, 14, 21, 0, 0, 0, time.UTC)

func add(id, category, variation string) Action {
	return Action{Type: ActionAdd, EventID: id, CategoryID: category, VariationName: variation, Timestamp: testTime}
}

func remove(id, category, variation string) Action {
	return Action{Type: ActionRemove, EventID: id, CategoryID: category, VariationName: variation, Timestamp: testTime}
}

func TestRemoveRebatesMostRecentAdd(t *testing.T) {
	state := NewState("run-1")
	state = Apply(state, add("a1", "beer", "lager"))
	state = Apply(state, add("a2", "beer", "lager"))
	state = Apply(state, remove("r1", "beer", "lager"))

	require.Len(t, state.Events, 3)
	assert.Equal(t, "a2", state.Events[2].TargetID)
	assert.Equal(t, 1, Derive(state, testSchema).Count("beer", "lager"))
}

func TestSecondRemoveSkipsConsumedAdd(t *testing.T) {
	state := NewState("run-1")
	state = Apply(state, add("a1", "beer", "lager"))
	state = Apply(state, add("a2", "beer", "lager"))
	state = Apply(state, remove("r1", "beer", "lager"))
	state = Apply(state, remove("r2", "beer", "lager"))

	assert.Equal(t, "a2", state.Events[2].TargetID)
	assert.Equal(t, "a1", state.Events[3].TargetID)
	assert.Equal(t, 0, Derive(state, testSchema).Count("beer", "lager"))
}

func TestRemoveIgnoresOtherVariants(t *testing.T) {
	state := NewState("run-1")
	state = Apply(state, add("a1", "beer", "ipa"))
	state = Apply(state, remove("r1", "beer", "lager"))

	assert.Empty(t, state.Events[1].TargetID)
}

func TestBareRemoveDecrementsSnapshot(t *testing.T) {
	state := NewState("run-1")
	state = Apply(state, Action{Type: ActionSetSnapshot, Snapshot: models.Snapshot{"beer": {"lager": 3}}})
	state = Apply(state, remove("r1", "beer", "lager"))

	assert.Empty(t, state.Events[0].TargetID)
	derived := Derive(state, testSchema)
	assert.Equal(t, 2, derived.Count("beer", "lager"))
	assert.Equal(t, 2, derived.CategoryTotals["beer"])
	assert.Equal(t, 2, derived.RunTotal)
}

func TestCountsNeverNegative(t *testing.T) {
	state := NewState("run-1")
	state = Apply(state, remove("r1", "beer", "lager"))
	state = Apply(state, remove("r2", "beer", "lager"))
	state = Apply(state, add("a1", "beer", "lager"))

	derived := Derive(state, testSchema)
	assert.Equal(t, 1, derived.Count("beer", "lager"))
	assert.Equal(t, 1, derived.RunTotal)
}

func TestResetRunClearsEverything(t *testing.T) {
	state := NewState("run-1")
	state = Apply(state, Action{Type: ActionSetSnapshot, Snapshot: models.Snapshot{"beer": {"lager": 3}}})
	state = Apply(state, add("a1", "shot", "tequila"))
	state = Apply(state, Action{Type: ActionResetRun, RunID: "run-2", Timestamp: testTime})

	assert.Equal(t, "run-2", state.RunID)
	assert.True(t, testTime.Equal(state.RunStartedAt))
	assert.Empty(t, state.Events)
	assert.Empty(t, state.Snapshot)
	assert.Zero(t, Derive(state, testSchema).RunTotal)
}

func TestSetSnapshotClearsEvents(t *testing.T) {
	state := NewState("run-1")
	state = Apply(state, add("a1", "beer", "lager"))
	state = Apply(state, Action{Type: ActionSetSnapshot, Snapshot: models.Snapshot{"beer": {"lager": 1}}})

	assert.Empty(t, state.Events)
	assert.Equal(t, 1, Derive(state, testSchema).Count("beer", "lager"))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	before := NewState("run-1")
	before = Apply(before, add("a1", "beer", "lager"))

	_ = Apply(before, add("a2", "beer", "lager"))
	snap := Apply(before, Action{Type: ActionSetSnapshot, Snapshot: models.Snapshot{"beer": {"lager": 9}}})
	snap.Snapshot["beer"]["lager"] = 100

	assert.Len(t, before.Events, 1)
	assert.Empty(t, before.Snapshot)
}

func TestEventsFromOtherRunsAreIgnored(t *testing.T) {
	state := NewState("run-2")
	state.Events = append(state.Events, models.DrinkEvent{
		ID: "old", Op: models.DrinkOpAdd, RunID: "run-1", CategoryID: "beer", VariationName: "lager",
	})

	assert.Zero(t, Derive(state, testSchema).RunTotal)
}

func TestDeriveIncludesSchema(t *testing.T) {
	derived := Derive(NewState("run-1"), testSchema)

	assert.Equal(t, map[string]map[string]int{
		"beer": {"lager": 0, "ipa": 0},
		"shot": {"tequila": 0},
	}, derived.Variants)
}

func TestDropEventRemovesLinkedRebate(t *testing.T) {
	state := NewState("run-1")
	state = Apply(state, add("a1", "beer", "lager"))
	state = Apply(state, add("a2", "beer", "lager"))
	state = Apply(state, remove("r1", "beer", "lager"))

	state = dropEvent(state, "a2")

	require.Len(t, state.Events, 1)
	assert.Equal(t, "a1", state.Events[0].ID)
}

// TestRandomSequences checks the count invariants over random ADD/REMOVE
// sequences, including the round trip through Encode/Decode.
func TestRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	variants := [][2]string{{"beer", "lager"}, {"beer", "ipa"}, {"shot", "tequila"}}

	for round := 0; round < 200; round++ {
		state := NewState(fmt.Sprintf("run-%d", round))
		if rng.Intn(2) == 0 {
			state = Apply(state, Action{Type: ActionSetSnapshot, Snapshot: models.Snapshot{
				"beer": {"lager": rng.Intn(4)},
			}})
		}

		steps := rng.Intn(30)
		for i := 0; i < steps; i++ {
			v := variants[rng.Intn(len(variants))]
			id := fmt.Sprintf("e-%d-%d", round, i)
			if rng.Intn(3) == 0 {
				state = Apply(state, remove(id, v[0], v[1]))
			} else {
				state = Apply(state, add(id, v[0], v[1]))
			}
		}

		derived := Derive(state, testSchema)
		sum := 0
		for categoryID, variations := range derived.Variants {
			categorySum := 0
			for _, count := range variations {
				require.GreaterOrEqual(t, count, 0)
				categorySum += count
			}
			require.Equal(t, categorySum, derived.CategoryTotals[categoryID])
			sum += categorySum
		}
		require.Equal(t, sum, derived.RunTotal)

		data, err := Encode(state)
		require.NoError(t, err)
		restored, ok := Decode(data)
		require.True(t, ok)
		require.Equal(t, derived, Derive(restored, testSchema))
	}
}
