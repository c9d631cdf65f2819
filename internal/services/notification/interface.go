package notification

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/barcrew/internal/services/notification Service

import (
	"context"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// Service turns engagement events into feed items and push deliveries
type Service interface {
	// Deliver writes a feed item for every recipient and pushes the payload
	// to each of their subscriptions
	Deliver(ctx context.Context, input *DeliverInput) (*Stats, error)

	// OnMessageCreated notifies the rest of the author's group
	OnMessageCreated(ctx context.Context, message *models.Message) (*TriggerOutput, error)

	// OnMemberUpdated fires the check-in and milestone notifications
	OnMemberUpdated(ctx context.Context, change *models.MemberChange) (*TriggerOutput, error)

	// OnChallengeChanged tells the other side of a dare what happened
	OnChallengeChanged(ctx context.Context, change *models.ChallengeChange) (*TriggerOutput, error)

	// SweepIdleReminders nudges members who have been checked in and quiet
	SweepIdleReminders(ctx context.Context) (*SweepOutput, error)

	// Broadcast sends an announcement to every member of a group
	Broadcast(ctx context.Context, input *BroadcastInput) (*Stats, error)

	// CreateBeacon stores a location marker and tells the group about it
	CreateBeacon(ctx context.Context, input *CreateBeaconInput) (*CreateBeaconOutput, error)
}

// Announcer mirrors group announcements to another channel, such as Discord
type Announcer interface {
	Announce(ctx context.Context, group *models.Group, payload Payload) error
}
