package models

import (
	"time"
)

// ChallengeStatus represents the lifecycle state of a dare
type ChallengeStatus string

const (
	// ChallengeStatusPending is a dare the receiver has not opened yet
	ChallengeStatusPending ChallengeStatus = "PENDING"

	// ChallengeStatusInProgress is a dare the receiver is working on
	ChallengeStatusInProgress ChallengeStatus = "IN_PROGRESS"

	// ChallengeStatusCompleted is a dare with both proofs captured in time
	ChallengeStatusCompleted ChallengeStatus = "COMPLETED"

	// ChallengeStatusFailed is a dare that ran out of time or was abandoned
	ChallengeStatusFailed ChallengeStatus = "FAILED"

	// ChallengeStatusExpired is a legacy terminal state written by older clients
	ChallengeStatusExpired ChallengeStatus = "EXPIRED"
)

// IsTerminal reports whether the status can no longer change
func (s ChallengeStatus) IsTerminal() bool {
	switch s {
	case ChallengeStatusCompleted, ChallengeStatusFailed, ChallengeStatusExpired:
		return true
	}
	return false
}

// IsFailure reports whether the status counts as a lost dare
func (s ChallengeStatus) IsFailure() bool {
	return s == ChallengeStatusFailed || s == ChallengeStatusExpired
}

// ChallengePhase is the photo-capture sub-state of an IN_PROGRESS dare
type ChallengePhase string

const (
	ChallengePhaseNone           ChallengePhase = ""
	ChallengePhaseIntro          ChallengePhase = "intro"
	ChallengePhaseAwaitingFilled ChallengePhase = "awaiting_filled"
	ChallengePhaseFilledCaptured ChallengePhase = "filled_captured"
	ChallengePhaseAwaitingEmpty  ChallengePhase = "awaiting_empty"
	ChallengePhaseEmptyCaptured  ChallengePhase = "empty_captured"
	ChallengePhaseFailed         ChallengePhase = "failed"
)

var phaseRank = map[ChallengePhase]int{
	ChallengePhaseNone:           0,
	ChallengePhaseIntro:          1,
	ChallengePhaseAwaitingFilled: 2,
	ChallengePhaseFilledCaptured: 3,
	ChallengePhaseAwaitingEmpty:  4,
	ChallengePhaseEmptyCaptured:  5,
	ChallengePhaseFailed:         6,
}

// Valid reports whether the phase is one of the known values
func (p ChallengePhase) Valid() bool {
	_, ok := phaseRank[p]
	return ok
}

// Rank orders phases along the capture sequence
func (p ChallengePhase) Rank() int {
	return phaseRank[p]
}

// CanAdvanceTo reports whether moving from p to next keeps phases monotonic.
// Any non-final phase may drop into failed.
func (p ChallengePhase) CanAdvanceTo(next ChallengePhase) bool {
	if !next.Valid() {
		return false
	}
	if p == ChallengePhaseFailed || p == ChallengePhaseEmptyCaptured {
		return p == next
	}
	if next == ChallengePhaseFailed {
		return true
	}
	return next.Rank() >= p.Rank()
}

// Challenge represents one dare sent from one member to another
type Challenge struct {
	// ID is the unique identifier for the challenge
	ID string `json:"id"`

	// SenderID is the member who issued the dare
	SenderID string `json:"senderId"`

	// ReceiverID is the member who has to complete the dare
	ReceiverID string `json:"receiverId"`

	// GroupID is the group the dare was issued in
	GroupID string `json:"groupId,omitempty"`

	Status ChallengeStatus `json:"status"`
	Phase  ChallengePhase  `json:"phase"`

	// CreatedAt is when the dare was sent
	CreatedAt time.Time `json:"createdAt"`

	// DeadlineAt is CreatedAt plus the dare duration
	DeadlineAt time.Time `json:"deadlineAt"`

	// UpdatedAt orders concurrent writes from several devices
	UpdatedAt time.Time `json:"updatedAt"`

	// FilledCapturedAt is when the first proof photo was taken
	FilledCapturedAt *time.Time `json:"filledCapturedAt,omitempty"`

	ProofBeforeRef string `json:"proofBeforeRef,omitempty"`
	ProofAfterRef  string `json:"proofAfterRef,omitempty"`

	// CompletedAt is when the dare reached a terminal status
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// LockReleased is set once the receiver lock has been cleared
	LockReleased bool `json:"lockReleased"`
}

// ChallengeChange is published whenever a challenge document is written
type ChallengeChange struct {
	// Before is nil when the challenge was just created
	Before *Challenge `json:"before,omitempty"`
	After  *Challenge `json:"after"`
}
