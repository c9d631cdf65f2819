package scheduler

import (
	"context"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"github.com/KirkDiggler/barcrew/internal/repositories/feed"
	"github.com/KirkDiggler/barcrew/internal/repositories/member"
	"github.com/KirkDiggler/barcrew/internal/repositories/message"
	"github.com/KirkDiggler/barcrew/internal/services/challenge"
	"github.com/KirkDiggler/barcrew/internal/services/notification"
	"github.com/KirkDiggler/barcrew/internal/timeboundary"
	"go.uber.org/zap"
)

const (
	JobResetCheckIns    = "reset-checkins"
	JobPurgeMessages    = "purge-messages"
	JobPurgeFeed        = "purge-feed"
	JobSweepReminders   = "sweep-reminders"
	JobExpireChallenges = "expire-challenges"

	// DefaultDailyHour is the local hour the daily jobs run at, after the night is over
	DefaultDailyHour = 6

	DefaultFeedRetention    = 24 * time.Hour
	DefaultMessageRetention = 24 * time.Hour
	DefaultReminderEvery    = 15 * time.Minute
	DefaultChallengeEvery   = time.Minute
)

// Config contains the dependencies of the scheduler
type Config struct {
	MemberRepo          member.Repository
	MessageRepo         message.Repository
	FeedRepo            feed.Repository
	NotificationService notification.Service
	ChallengeService    challenge.Service

	// Boundary supplies the timezone the daily jobs are scheduled in
	Boundary *timeboundary.Calculator

	DailyHour        int
	FeedRetention    time.Duration
	MessageRetention time.Duration
	ReminderEvery    time.Duration
	ChallengeEvery   time.Duration

	Clock  clock.Clock
	Logger *zap.Logger
}

// Job is one scheduled task. Exactly one of Every and Daily is used.
type Job struct {
	Name string

	// Every runs the job on a fixed interval
	Every time.Duration

	// Daily runs the job once a day at the configured local hour
	Daily bool

	Run func(ctx context.Context) error
}

// ResetCheckInsOutput reports the result of the daily check-in reset
type ResetCheckInsOutput struct {
	Reset  int
	Errors int
}

// PurgeOutput reports how many records a purge removed
type PurgeOutput struct {
	Before  time.Time
	Deleted int
}
