package eventlog

import "github.com/KirkDiggler/barcrew/internal/common/apperr"

var (
	ErrNilConfig       = apperr.Validation("config cannot be nil")
	ErrNilLedgerRepo   = apperr.Validation("drink ledger repository cannot be nil")
	ErrMissingUserID   = apperr.Validation("user ID cannot be empty")
	ErrInvalidVariant  = apperr.Validation("category and variation are required")
	ErrSpamCooldown    = apperr.Validation("slow down, too many drinks logged in a row")
	ErrQueueClosed     = apperr.New(apperr.KindInternal, "mutation queue is closed")
	ErrNothingToRemove = apperr.Validation("no drink of this kind to remove")
)
