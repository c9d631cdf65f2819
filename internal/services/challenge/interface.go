package challenge

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/barcrew/internal/services/challenge Service

import (
	"context"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// Service defines the interface for dare operations
type Service interface {
	// Create sends a new dare with a fixed deadline
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)

	// Open reads a dare as one of its participants, promoting it when the receiver opens it
	Open(ctx context.Context, input *OpenInput) (*OpenOutput, error)

	// Promote moves a PENDING dare to IN_PROGRESS if it is still PENDING
	Promote(ctx context.Context, input *PromoteInput) (*PromoteOutput, error)

	// AdvancePhase records a photo-capture step
	AdvancePhase(ctx context.Context, input *AdvancePhaseInput) (*AdvancePhaseOutput, error)

	// Fail forces an open dare to FAILED
	Fail(ctx context.Context, input *FailInput) (*FailOutput, error)

	// ReleaseLock clears the receiver lock of a finished dare
	ReleaseLock(ctx context.Context, input *ReleaseLockInput) (*ReleaseLockOutput, error)

	// Reconcile releases any receiver lock a finished dare still holds
	Reconcile(ctx context.Context, input *ReconcileInput) (*ReconcileOutput, error)

	// ExpireOverdue fails every open dare past its deadline
	ExpireOverdue(ctx context.Context, input *ExpireOverdueInput) (*ExpireOverdueOutput, error)

	// Watch streams the member's sent and received dares, newest first
	Watch(ctx context.Context, input *WatchInput) (<-chan []*models.Challenge, error)

	// CheckLuckyWheel reports whether the member may spin the lucky wheel
	CheckLuckyWheel(ctx context.Context, input *LuckyWheelInput) (*LuckyWheelOutput, error)

	// GrantLuckyWheel records the member's spin for the current window
	GrantLuckyWheel(ctx context.Context, input *LuckyWheelInput) (*LuckyWheelOutput, error)
}
