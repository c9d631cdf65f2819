package beacon

import (
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// SaveInput contains parameters for saving a beacon
type SaveInput struct {
	Beacon *models.Beacon
	Now    time.Time
}

// ListActiveInput contains parameters for listing active beacons
type ListActiveInput struct {
	GroupID string
	Now     time.Time
}

// ListActiveOutput contains the active beacons, soonest to expire first
type ListActiveOutput struct {
	Beacons []*models.Beacon
}

// DeleteInput contains parameters for deleting a beacon
type DeleteInput struct {
	GroupID  string
	BeaconID string
}
