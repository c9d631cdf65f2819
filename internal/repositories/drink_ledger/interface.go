package drink_ledger

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/barcrew/internal/repositories/drink_ledger Repository

import (
	"context"
)

// Repository defines the interface for the server-side drink run ledger
type Repository interface {
	// StartRun makes runID the member's current run, dropping the previous run's counts
	StartRun(ctx context.Context, input *StartRunInput) error

	// GetSnapshot returns the authoritative counts of the member's current run
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error)

	// ApplyDelta adds delta to one variation of the current run, clamping at zero
	ApplyDelta(ctx context.Context, input *ApplyDeltaInput) (*ApplyDeltaOutput, error)
}
