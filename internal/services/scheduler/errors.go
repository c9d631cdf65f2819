package scheduler

import "github.com/KirkDiggler/barcrew/internal/common/apperr"

var (
	ErrNilConfig              = apperr.Validation("config cannot be nil")
	ErrNilMemberRepo          = apperr.Validation("member repository cannot be nil")
	ErrNilMessageRepo         = apperr.Validation("message repository cannot be nil")
	ErrNilFeedRepo            = apperr.Validation("feed repository cannot be nil")
	ErrNilNotificationService = apperr.Validation("notification service cannot be nil")
	ErrNilChallengeService    = apperr.Validation("challenge service cannot be nil")
	ErrNilBoundary            = apperr.Validation("boundary calculator cannot be nil")
	ErrInvalidDailyHour       = apperr.Validation("daily hour must be between 0 and 23")
	ErrUnknownJob             = apperr.NotFound("unknown job")
)
