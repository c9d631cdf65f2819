package challenge

import "github.com/KirkDiggler/barcrew/internal/common/apperr"

var (
	ErrNilConfig        = apperr.Validation("config cannot be nil")
	ErrNilChallengeRepo = apperr.Validation("challenge repository cannot be nil")
	ErrNilRewardRepo    = apperr.Validation("reward repository cannot be nil")
	ErrNilBoundary      = apperr.Validation("boundary calculator cannot be nil")
	ErrNilService       = apperr.Validation("challenge service cannot be nil")

	ErrMissingUserID      = apperr.Validation("user ID cannot be empty")
	ErrMissingChallengeID = apperr.Validation("challenge ID cannot be empty")
	ErrSelfChallenge      = apperr.Validation("you cannot dare yourself")
	ErrInvalidPhase       = apperr.Validation("unknown challenge phase")
	ErrPhaseRegression    = apperr.Validation("challenge phase cannot move backwards")
	ErrNotFinished        = apperr.Validation("challenge has not finished")
	ErrNotEligible        = apperr.Validation("no lost dare in the current window")
	ErrAlreadyGranted     = apperr.Validation("lucky wheel already spun in this window")

	ErrChallengeNotFound = apperr.NotFound("challenge not found")
	ErrReceiverLocked    = apperr.LockConflict("receiver already has an active challenge")
	ErrNotReceiver       = apperr.Auth("only the receiver can do this")
	ErrNotParticipant    = apperr.Auth("not a participant of this challenge")
)
