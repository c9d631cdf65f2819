package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"github.com/KirkDiggler/barcrew/internal/common/logger"
	"github.com/KirkDiggler/barcrew/internal/repositories/feed"
	"github.com/KirkDiggler/barcrew/internal/repositories/member"
	"github.com/KirkDiggler/barcrew/internal/repositories/message"
	"github.com/KirkDiggler/barcrew/internal/services/challenge"
	"github.com/KirkDiggler/barcrew/internal/services/notification"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scheduler runs the periodic maintenance jobs of the server
type Scheduler struct {
	memberRepo          member.Repository
	messageRepo         message.Repository
	feedRepo            feed.Repository
	notificationService notification.Service
	challengeService    challenge.Service

	location         *time.Location
	dailyHour        int
	feedRetention    time.Duration
	messageRetention time.Duration
	reminderEvery    time.Duration
	challengeEvery   time.Duration

	clock  clock.Clock
	logger *zap.Logger
}

// New creates a Scheduler
func New(cfg *Config) (*Scheduler, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.MemberRepo == nil {
		return nil, ErrNilMemberRepo
	}
	if cfg.MessageRepo == nil {
		return nil, ErrNilMessageRepo
	}
	if cfg.FeedRepo == nil {
		return nil, ErrNilFeedRepo
	}
	if cfg.NotificationService == nil {
		return nil, ErrNilNotificationService
	}
	if cfg.ChallengeService == nil {
		return nil, ErrNilChallengeService
	}
	if cfg.Boundary == nil {
		return nil, ErrNilBoundary
	}

	dailyHour := cfg.DailyHour
	if dailyHour == 0 {
		dailyHour = DefaultDailyHour
	}
	if dailyHour < 0 || dailyHour > 23 {
		return nil, ErrInvalidDailyHour
	}

	s := &Scheduler{
		memberRepo:          cfg.MemberRepo,
		messageRepo:         cfg.MessageRepo,
		feedRepo:            cfg.FeedRepo,
		notificationService: cfg.NotificationService,
		challengeService:    cfg.ChallengeService,
		location:            cfg.Boundary.Location(),
		dailyHour:           dailyHour,
		feedRetention:       orDefault(cfg.FeedRetention, DefaultFeedRetention),
		messageRetention:    orDefault(cfg.MessageRetention, DefaultMessageRetention),
		reminderEvery:       orDefault(cfg.ReminderEvery, DefaultReminderEvery),
		challengeEvery:      orDefault(cfg.ChallengeEvery, DefaultChallengeEvery),
		clock:               cfg.Clock,
		logger:              logger.OrNop(cfg.Logger),
	}
	if s.clock == nil {
		s.clock = clock.New()
	}

	return s, nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// Jobs lists every job the scheduler runs
func (s *Scheduler) Jobs() []Job {
	return []Job{
		{Name: JobResetCheckIns, Daily: true, Run: func(ctx context.Context) error {
			_, err := s.ResetCheckIns(ctx)
			return err
		}},
		{Name: JobPurgeMessages, Daily: true, Run: func(ctx context.Context) error {
			_, err := s.PurgeMessages(ctx)
			return err
		}},
		{Name: JobPurgeFeed, Daily: true, Run: func(ctx context.Context) error {
			_, err := s.PurgeFeed(ctx)
			return err
		}},
		{Name: JobSweepReminders, Every: s.reminderEvery, Run: func(ctx context.Context) error {
			_, err := s.notificationService.SweepIdleReminders(ctx)
			return err
		}},
		{Name: JobExpireChallenges, Every: s.challengeEvery, Run: func(ctx context.Context) error {
			_, err := s.challengeService.ExpireOverdue(ctx, &challenge.ExpireOverdueInput{})
			return err
		}},
	}
}

// RunOnce runs a single job by name
func (s *Scheduler) RunOnce(ctx context.Context, name string) error {
	for _, job := range s.Jobs() {
		if job.Name == name {
			return s.runJob(ctx, job)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

// Run starts every job and blocks until ctx is cancelled. A failing job
// is logged and tried again on its next tick.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, job := range s.Jobs() {
		g.Go(func() error {
			s.loop(ctx, job)
			return nil
		})
	}
	return g.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	s.logger.Info("job scheduled", zap.String("job", job.Name), zap.Duration("every", job.Every), zap.Bool("daily", job.Daily))

	for {
		wait := job.Every
		if job.Daily {
			now := s.clock.Now()
			wait = nextDaily(now, s.location, s.dailyHour).Sub(now)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := s.runJob(ctx, job); err != nil && ctx.Err() == nil {
			s.logger.Error("job failed", zap.String("job", job.Name), zap.Error(err))
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job) error {
	start := s.clock.Now()
	if err := job.Run(ctx); err != nil {
		return fmt.Errorf("failed to run %s: %w", job.Name, err)
	}
	s.logger.Debug("job finished", zap.String("job", job.Name), zap.Duration("took", clock.Since(s.clock, start)))
	return nil
}

// nextDaily returns the first instant after now whose wall clock in loc
// reads hour:00. On a day where that hour is skipped it lands on the
// first valid instant after the gap.
func nextDaily(now time.Time, loc *time.Location, hour int) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(now) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return next
}
