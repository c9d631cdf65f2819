package beacon

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/barcrew/internal/repositories/beacon Repository

import (
	"context"
)

// Repository stores time-bounded location markers
type Repository interface {
	// Save persists a beacon until it expires
	Save(ctx context.Context, input *SaveInput) error

	// ListActive retrieves the beacons of a group that have not expired
	ListActive(ctx context.Context, input *ListActiveInput) (*ListActiveOutput, error)

	// Delete removes a beacon before it expires
	Delete(ctx context.Context, input *DeleteInput) error
}
