package models

import (
	"time"
)

// Member represents a user of the app as seen by the engagement engine
type Member struct {
	// ID is the user ID of the member
	ID string `json:"id"`

	// Name is the display name of the member
	Name string `json:"name"`

	// ActiveGroupID is the group the member currently posts to
	ActiveGroupID string `json:"activeGroupId"`

	// CheckedIn is true while the member is out at a venue
	CheckedIn bool `json:"checkedIn"`

	// CheckedInAt is when CheckedIn last turned true
	CheckedInAt *time.Time `json:"checkedInAt,omitempty"`

	// VenueName is where the member checked in
	VenueName string `json:"venueName,omitempty"`

	// LastReminderAt is when the last idle reminder went out
	LastReminderAt *time.Time `json:"lastReminderAt,omitempty"`

	// RunID identifies the current drink run
	RunID string `json:"runId"`

	// RunDrinkCount is the number of drinks logged during the current run
	RunDrinkCount int `json:"runDrinkCount"`
}

// Group is a set of members who see each other's activity
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// DiscordChannelID mirrors announcements into a Discord channel when set
	DiscordChannelID string `json:"discordChannelId,omitempty"`
}

// MemberChange is published whenever a member document is written
type MemberChange struct {
	// Before is nil when the member was just created
	Before *Member `json:"before,omitempty"`
	After  *Member `json:"after"`
}
