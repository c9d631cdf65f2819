package reward

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/barcrew/internal/repositories/reward Repository

import (
	"context"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// Repository defines the interface for lucky wheel grants
type Repository interface {
	// Grant records a reward for the window, reporting false if one already exists
	Grant(ctx context.Context, input *GrantInput) (*GrantOutput, error)

	// GetGrant retrieves the grant for a member's window
	GetGrant(ctx context.Context, input *GetGrantInput) (*models.RewardGrant, error)
}
