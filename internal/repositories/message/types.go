package message

import (
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// SaveInput contains parameters for saving a message
type SaveInput struct {
	Message *models.Message
}

// ListInput contains parameters for listing a group's messages
type ListInput struct {
	GroupID string
	Limit   int
}

// ListOutput contains the messages
type ListOutput struct {
	Messages []*models.Message
}

// PurgeOlderThanInput contains the retention cutoff
type PurgeOlderThanInput struct {
	Before time.Time
}

// PurgeOlderThanOutput reports how many messages were deleted
type PurgeOlderThanOutput struct {
	Deleted int
}
