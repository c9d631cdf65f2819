package notification

import (
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/cache"
	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"github.com/KirkDiggler/barcrew/internal/common/uuid"
	"github.com/KirkDiggler/barcrew/internal/models"
	beaconRepo "github.com/KirkDiggler/barcrew/internal/repositories/beacon"
	feedRepo "github.com/KirkDiggler/barcrew/internal/repositories/feed"
	memberRepo "github.com/KirkDiggler/barcrew/internal/repositories/member"
	subscriptionRepo "github.com/KirkDiggler/barcrew/internal/repositories/subscription"
	"github.com/KirkDiggler/barcrew/internal/timeboundary"
	"github.com/KirkDiggler/barcrew/internal/transport/webpush"
	"go.uber.org/zap"
)

const (
	// DefaultOpenGroupID is the group everyone belongs to by default
	DefaultOpenGroupID = "open"

	DefaultReminderWindowStart = 10
	DefaultReminderWindowEnd   = 22
	DefaultReminderInterval    = 2 * time.Hour

	DefaultBeaconDuration = 3 * time.Hour
	MaxBeaconDuration     = 24 * time.Hour

	// DefaultGroupCacheTTL bounds how stale a cached member list can be
	DefaultGroupCacheTTL = time.Minute

	// DefaultMaxConcurrency caps parallel recipients within one delivery
	DefaultMaxConcurrency = 16
)

// DefaultMilestones are the run drink counts that fire a milestone
var DefaultMilestones = []int{5, 10, 15, 20, 25, 30}

// Config holds configuration for the notification service
type Config struct {
	// Repository dependencies
	MemberRepo       memberRepo.Repository
	SubscriptionRepo subscriptionRepo.Repository
	FeedRepo         feedRepo.Repository
	BeaconRepo       beaconRepo.Repository

	// Sender is the push transport
	Sender webpush.Sender

	// Boundary supplies the timezone of the reminder window
	Boundary *timeboundary.Calculator

	// GroupCache caches group member lists; nil uses an in-memory cache
	GroupCache    cache.Cache[[]string]
	GroupCacheTTL time.Duration

	// Announcer is optional
	Announcer Announcer

	// OpenGroupID is excluded from check-in and idle reminder triggers
	OpenGroupID string

	// Milestones must be ascending
	Milestones []int

	// Reminders go out only between these local hours, at most once per interval
	ReminderWindowStart int
	ReminderWindowEnd   int
	ReminderInterval    time.Duration

	MaxConcurrency int

	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Logger        *zap.Logger
}

// DeliverInput contains parameters for a fan-out
type DeliverInput struct {
	Recipients []string
	Payload    Payload
}

// Stats aggregates the outcome of a fan-out
type Stats struct {
	Recipients int `json:"recipients"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`

	// Skipped counts subscriptions never attempted for lack of key material
	Skipped int `json:"skipped"`

	// Pruned counts subscriptions deleted as dead
	Pruned int `json:"pruned"`
}

// Add merges other into s
func (s *Stats) Add(other *Stats) {
	if other == nil {
		return
	}
	s.Recipients += other.Recipients
	s.Sent += other.Sent
	s.Failed += other.Failed
	s.Skipped += other.Skipped
	s.Pruned += other.Pruned
}

// TriggerOutput reports what a trigger sent
type TriggerOutput struct {
	Fired []models.NotificationType
	Stats Stats

	// Milestone is the threshold that fired, or 0
	Milestone int
}

// SweepOutput reports what an idle reminder sweep did
type SweepOutput struct {
	// OutsideWindow is true when the sweep ran outside the daily window and did nothing
	OutsideWindow bool

	Scanned  int
	Reminded int
	Stats    Stats
}

// BroadcastInput contains parameters for an announcement
type BroadcastInput struct {
	GroupID  string
	SenderID string
	Title    string
	Body     string
	URL      string
}

// CreateBeaconInput contains parameters for dropping a beacon
type CreateBeaconInput struct {
	GroupID   string
	CreatedBy string
	Title     string
	Latitude  float64
	Longitude float64

	// Duration defaults to DefaultBeaconDuration
	Duration time.Duration
}

// CreateBeaconOutput contains the stored beacon and the fan-out result
type CreateBeaconOutput struct {
	Beacon *models.Beacon
	Stats  Stats
}
