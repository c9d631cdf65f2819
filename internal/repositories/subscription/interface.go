package subscription

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/barcrew/internal/repositories/subscription Repository

import (
	"context"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// Repository is the registry of push subscriptions
type Repository interface {
	// Upsert registers an endpoint for a member, or refreshes it if already known
	Upsert(ctx context.Context, input *UpsertInput) (*models.PushSubscription, error)

	// ListForUser retrieves every subscription of a member
	ListForUser(ctx context.Context, input *ListForUserInput) ([]*models.PushSubscription, error)

	// Delete removes one subscription; deleting a missing one is not an error
	Delete(ctx context.Context, input *DeleteInput) error

	// Touch records a successful delivery
	Touch(ctx context.Context, input *TouchInput) error

	// Revoke removes the subscription of an endpoint on the member's request
	Revoke(ctx context.Context, input *RevokeInput) error
}
