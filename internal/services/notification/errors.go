package notification

import "github.com/KirkDiggler/barcrew/internal/common/apperr"

var (
	ErrNilConfig           = apperr.Validation("config cannot be nil")
	ErrNilMemberRepo       = apperr.Validation("member repository cannot be nil")
	ErrNilSubscriptionRepo = apperr.Validation("subscription repository cannot be nil")
	ErrNilFeedRepo         = apperr.Validation("feed repository cannot be nil")
	ErrNilBeaconRepo       = apperr.Validation("beacon repository cannot be nil")
	ErrNilSender           = apperr.Validation("push sender cannot be nil")
	ErrNilBoundary         = apperr.Validation("boundary calculator cannot be nil")
	ErrInvalidMilestones   = apperr.Validation("milestones must be positive and ascending")
	ErrInvalidWindow       = apperr.Validation("reminder window must satisfy 0 <= start < end <= 24")

	ErrNilInput          = apperr.Validation("input cannot be nil")
	ErrMissingGroupID    = apperr.Validation("group ID cannot be empty")
	ErrMissingTitle      = apperr.Validation("title cannot be empty")
	ErrMissingBody       = apperr.Validation("body cannot be empty")
	ErrInvalidCoordinate = apperr.Validation("latitude must be within ±90 and longitude within ±180")
	ErrInvalidDuration   = apperr.Validation("beacon duration is out of range")
)
