package uuid

import "github.com/google/uuid"

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/barcrew/internal/common/uuid UUID

// UUID hands out identifiers for events, challenges and beacons.
type UUID interface {
	NewUUID() string
}

// DefaultUUID issues version 7 UUIDs so ids sort by creation time.
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a time-ordered UUID, or a random one if the v7 generator fails.
func (d *DefaultUUID) NewUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
