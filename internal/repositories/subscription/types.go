package subscription

import (
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// UpsertInput contains parameters for registering an endpoint
type UpsertInput struct {
	UserID    string
	Endpoint  string
	Keys      models.PushKeys
	UserAgent string
	At        time.Time
}

// ListForUserInput contains parameters for listing a member's subscriptions
type ListForUserInput struct {
	UserID string
}

// DeleteInput contains parameters for deleting a subscription
type DeleteInput struct {
	UserID         string
	SubscriptionID string
}

// TouchInput contains parameters for recording a delivery
type TouchInput struct {
	UserID         string
	SubscriptionID string
	At             time.Time
}

// RevokeInput contains parameters for revoking an endpoint
type RevokeInput struct {
	UserID   string
	Endpoint string
}
