package reward

import (
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// GrantInput contains parameters for granting a reward
type GrantInput struct {
	Grant *models.RewardGrant
}

// GrantOutput reports whether the grant was recorded
type GrantOutput struct {
	Granted bool
}

// GetGrantInput contains parameters for looking up a grant
type GetGrantInput struct {
	UserID      string
	WindowStart time.Time
}
