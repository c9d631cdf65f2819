package feed

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/barcrew/internal/repositories/feed Repository

import (
	"context"
)

// Repository stores the in-app notification feed
type Repository interface {
	// Append adds an item to its member's feed
	Append(ctx context.Context, input *AppendInput) error

	// List retrieves a member's feed, newest first
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// MarkRead flags items as read; no IDs means the whole feed
	MarkRead(ctx context.Context, input *MarkReadInput) (*MarkReadOutput, error)

	// PurgeOlderThan deletes every item created before the cutoff
	PurgeOlderThan(ctx context.Context, input *PurgeOlderThanInput) (*PurgeOlderThanOutput, error)
}
