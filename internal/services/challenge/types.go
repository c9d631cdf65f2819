package challenge

import (
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"github.com/KirkDiggler/barcrew/internal/common/uuid"
	"github.com/KirkDiggler/barcrew/internal/dice"
	"github.com/KirkDiggler/barcrew/internal/models"
	challengeRepo "github.com/KirkDiggler/barcrew/internal/repositories/challenge"
	rewardRepo "github.com/KirkDiggler/barcrew/internal/repositories/reward"
	"github.com/KirkDiggler/barcrew/internal/timeboundary"
	"go.uber.org/zap"
)

const (
	// DefaultDuration is how long a receiver has to finish a dare
	DefaultDuration = 10 * time.Minute

	// DefaultSecondPhotoLimit is the most time allowed between the two proof photos
	DefaultSecondPhotoLimit = 10 * time.Minute

	// DefaultWheelSlots is the number of lucky wheel segments
	DefaultWheelSlots = 8
)

// Config holds configuration for the challenge service
type Config struct {
	// Duration is the time from creation to deadline (default 10m)
	Duration time.Duration

	// SecondPhotoLimit bounds the gap between the filled and empty photos (default 10m)
	SecondPhotoLimit time.Duration

	// Repository dependencies
	ChallengeRepo challengeRepo.Repository
	RewardRepo    rewardRepo.Repository

	// Boundary decides the lucky wheel window
	Boundary *timeboundary.Calculator

	// Wheel spins the lucky wheel (default math/rand)
	Wheel dice.Roller

	// WheelSlots is the number of wheel segments (default 8)
	WheelSlots int

	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Logger        *zap.Logger
}

// CreateInput contains parameters for sending a dare
type CreateInput struct {
	SenderID   string
	ReceiverID string
	GroupID    string

	// StartInProgress skips PENDING, for dares handed over in person
	StartInProgress bool
}

// CreateOutput contains the new dare
type CreateOutput struct {
	Challenge *models.Challenge
}

// OpenInput contains parameters for reading a dare
type OpenInput struct {
	ChallengeID string
	UserID      string
}

// OpenOutput contains the dare as stored after opening it
type OpenOutput struct {
	Challenge *models.Challenge

	// Promoted is true when this read moved the dare to IN_PROGRESS
	Promoted bool
}

// PromoteInput contains parameters for promoting a dare
type PromoteInput struct {
	ChallengeID string

	// UserID must be the receiver
	UserID string
}

// PromoteOutput contains the dare after the compare-and-swap
type PromoteOutput struct {
	Challenge *models.Challenge

	// Promoted is false when the dare was no longer PENDING
	Promoted bool
}

// AdvancePhaseInput contains parameters for a photo-capture step
type AdvancePhaseInput struct {
	ChallengeID string
	UserID      string
	Phase       models.ChallengePhase

	// ProofRef references the captured photo for filled_captured and empty_captured
	ProofRef string

	// WrittenAt is when the device made the change; it decides between
	// concurrent writes from several devices. Zero means now.
	WrittenAt time.Time
}

// AdvancePhaseOutput contains the dare after the step
type AdvancePhaseOutput struct {
	Challenge *models.Challenge

	// Applied is false when a newer write already won or the dare had finished
	Applied bool
}

// FailInput contains parameters for failing a dare
type FailInput struct {
	ChallengeID string

	// UserID, when set, must be a participant
	UserID string

	// Reason is logged with the transition
	Reason string
}

// FailOutput contains the dare after failing it
type FailOutput struct {
	Challenge *models.Challenge

	// Failed is false when the dare had already finished
	Failed bool
}

// ReleaseLockInput contains parameters for releasing a receiver lock
type ReleaseLockInput struct {
	ChallengeID string
}

// ReleaseLockOutput contains the dare after releasing its lock
type ReleaseLockOutput struct {
	Challenge *models.Challenge

	// Released is true when the receiver lock was still held by this dare
	Released bool
}

// ReconcileInput contains parameters for a reconciliation pass
type ReconcileInput struct {
	UserID string
}

// ReconcileOutput lists the dares whose lock was released
type ReconcileOutput struct {
	Released []string
}

// ExpireOverdueInput contains parameters for the deadline sweep
type ExpireOverdueInput struct {
	// Limit caps the dares handled in one pass, 0 means all
	Limit int
}

// ExpireOverdueOutput lists the dares the sweep failed
type ExpireOverdueOutput struct {
	Failed []string

	// Errors counts dares the sweep could not update
	Errors int
}

// WatchInput contains parameters for following a member's dares
type WatchInput struct {
	UserID string

	// AutoPromote promotes PENDING dares received by UserID as soon as they show up
	AutoPromote bool
}

// LuckyWheelInput contains parameters for the lucky wheel
type LuckyWheelInput struct {
	UserID string
}

// LuckyWheelOutput contains the lucky wheel state for the current window
type LuckyWheelOutput struct {
	Eligible bool

	// AlreadyGranted is true when the member spun in this window
	AlreadyGranted bool

	// ChallengeID is the lost dare that earned the spin
	ChallengeID string

	// Slot is the segment the spin landed on, 0 until granted
	Slot int

	WindowStart time.Time
	WindowEnd   time.Time
}
