package message

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/barcrew/internal/repositories/message Repository

import (
	"context"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// Repository stores group chat messages
type Repository interface {
	// Save persists a message and announces it on the created channel
	Save(ctx context.Context, input *SaveInput) error

	// List retrieves the latest messages of a group, newest first
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// PurgeOlderThan deletes every message posted before the cutoff
	PurgeOlderThan(ctx context.Context, input *PurgeOlderThanInput) (*PurgeOlderThanOutput, error)

	// SubscribeCreated streams newly saved messages until ctx is done
	SubscribeCreated(ctx context.Context) (<-chan *models.Message, error)
}
