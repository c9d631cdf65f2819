package challenge

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/barcrew/internal/repositories/challenge Repository

import (
	"context"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// Repository defines the interface for challenge persistence
type Repository interface {
	// CreateChallenge stores a new challenge and takes the receiver lock
	CreateChallenge(ctx context.Context, input *CreateChallengeInput) error

	// GetChallenge retrieves a challenge by ID
	GetChallenge(ctx context.Context, input *GetChallengeInput) (*models.Challenge, error)

	// UpdateChallenge runs a read-modify-write on one challenge under optimistic locking
	UpdateChallenge(ctx context.Context, input *UpdateChallengeInput) (*UpdateChallengeOutput, error)

	// ListChallenges retrieves a member's sent or received challenges, newest first
	ListChallenges(ctx context.Context, input *ListChallengesInput) (*ListChallengesOutput, error)

	// ListOverdue retrieves open challenges whose deadline has passed
	ListOverdue(ctx context.Context, input *ListOverdueInput) (*ListChallengesOutput, error)

	// GetLockHolder returns the challenge holding a receiver's lock, or "" when free
	GetLockHolder(ctx context.Context, input *GetLockHolderInput) (string, error)

	// ReleaseLock clears a receiver's lock if the given challenge still holds it
	ReleaseLock(ctx context.Context, input *ReleaseLockInput) (*ReleaseLockOutput, error)

	// Subscribe streams every write to challenges the member sends or receives
	Subscribe(ctx context.Context, input *SubscribeInput) (<-chan *models.Challenge, error)

	// SubscribeChanges streams before/after pairs of every challenge write
	SubscribeChanges(ctx context.Context) (<-chan *models.ChallengeChange, error)
}
