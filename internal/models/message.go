package models

import (
	"time"
)

// Message is a chat message posted to a group
type Message struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"groupId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Beacon is a time-bounded location marker shown on the group map
type Beacon struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId"`
	CreatedBy string    `json:"createdBy"`
	Title     string    `json:"title"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RewardGrant records a lucky wheel spin granted within one cooldown window
type RewardGrant struct {
	UserID      string    `json:"userId"`
	WindowStart time.Time `json:"windowStart"`
	GrantedAt   time.Time `json:"grantedAt"`

	// Slot is the wheel segment the spin landed on, starting at 1
	Slot int `json:"slot"`
}
