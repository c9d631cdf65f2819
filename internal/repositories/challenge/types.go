package challenge

import (
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// Role selects which side of a challenge a listing is for
type Role string

const (
	RoleSender   Role = "sender"
	RoleReceiver Role = "receiver"
)

// CreateChallengeInput contains parameters for storing a new challenge
type CreateChallengeInput struct {
	Challenge *models.Challenge
}

// GetChallengeInput contains parameters for retrieving a challenge
type GetChallengeInput struct {
	ChallengeID string
}

// UpdateFunc receives the stored challenge and returns the version to write.
// Returning nil leaves the challenge untouched.
type UpdateFunc func(current *models.Challenge) (*models.Challenge, error)

// UpdateChallengeInput contains parameters for updating a challenge
type UpdateChallengeInput struct {
	ChallengeID string
	Update      UpdateFunc
}

// UpdateChallengeOutput contains the stored challenge after the update
type UpdateChallengeOutput struct {
	Challenge *models.Challenge

	// Applied is false when Update chose not to write
	Applied bool
}

// ListChallengesInput contains parameters for listing a member's challenges
type ListChallengesInput struct {
	UserID string
	Role   Role

	// Limit caps the number of challenges returned, 0 means no limit
	Limit int
}

// ListChallengesOutput contains a list of challenges
type ListChallengesOutput struct {
	Challenges []*models.Challenge
}

// ListOverdueInput contains parameters for listing overdue challenges
type ListOverdueInput struct {
	// Now is compared against each open challenge's deadline
	Now time.Time

	Limit int
}

// GetLockHolderInput contains parameters for reading a receiver lock
type GetLockHolderInput struct {
	ReceiverID string
}

// ReleaseLockInput contains parameters for releasing a receiver lock
type ReleaseLockInput struct {
	ReceiverID  string
	ChallengeID string
}

// ReleaseLockOutput reports whether the lock was held by the challenge
type ReleaseLockOutput struct {
	Released bool
}

// SubscribeInput contains parameters for following a member's challenges
type SubscribeInput struct {
	UserID string
}
