package models

import (
	"time"
)

// NotificationType selects the payload template for a notification
type NotificationType string

const (
	NotificationTypeMessage            NotificationType = "message"
	NotificationTypeCheckIn            NotificationType = "check_in"
	NotificationTypeMilestoneSelf      NotificationType = "milestone_self"
	NotificationTypeMilestoneGroup     NotificationType = "milestone_group"
	NotificationTypeIdleReminder       NotificationType = "idle_reminder"
	NotificationTypeChallengeReceived  NotificationType = "challenge_received"
	NotificationTypeChallengeCompleted NotificationType = "challenge_completed"
	NotificationTypeChallengeFailed    NotificationType = "challenge_failed"
	NotificationTypeBroadcast          NotificationType = "broadcast"
	NotificationTypeBeacon             NotificationType = "beacon"
)

// PushKeys is the key material a browser hands out with its endpoint
type PushKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// PushSubscription is one delivery endpoint of one device
type PushSubscription struct {
	// ID is a stable hash of Endpoint
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Endpoint  string    `json:"endpoint"`
	Keys      PushKeys  `json:"keys"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// LastSuccessAt is when a push to this endpoint last went through
	LastSuccessAt *time.Time `json:"lastSuccessAt,omitempty"`
}

// HasKeyMaterial reports whether the subscription can be delivered to at all
func (p *PushSubscription) HasKeyMaterial() bool {
	return p.Endpoint != "" && p.Keys.P256dh != "" && p.Keys.Auth != ""
}

// NotificationFeedItem is the in-app record of a notification
type NotificationFeedItem struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Type      NotificationType  `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}
