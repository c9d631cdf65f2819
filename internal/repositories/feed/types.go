package feed

import (
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// AppendInput contains parameters for appending a feed item
type AppendInput struct {
	Item *models.NotificationFeedItem
}

// ListInput contains parameters for listing a feed
type ListInput struct {
	UserID string

	// Limit caps the number of items; zero means DefaultListLimit
	Limit int
}

// ListOutput contains the feed items
type ListOutput struct {
	Items  []*models.NotificationFeedItem
	Unread int
}

// MarkReadInput contains parameters for marking items read
type MarkReadInput struct {
	UserID  string
	ItemIDs []string
}

// MarkReadOutput reports how many items changed
type MarkReadOutput struct {
	Marked int
}

// PurgeOlderThanInput contains the retention cutoff
type PurgeOlderThanInput struct {
	Before time.Time
}

// PurgeOlderThanOutput reports how many items were deleted
type PurgeOlderThanOutput struct {
	Deleted int
}
