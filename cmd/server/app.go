package main

import (
	"context"
	"fmt"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/cache"
	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"github.com/KirkDiggler/barcrew/internal/common/logger"
	"github.com/KirkDiggler/barcrew/internal/common/ratelimit"
	"github.com/KirkDiggler/barcrew/internal/common/uuid"
	"github.com/KirkDiggler/barcrew/internal/config"
	"github.com/KirkDiggler/barcrew/internal/dice"
	"github.com/KirkDiggler/barcrew/internal/handlers/api"
	"github.com/KirkDiggler/barcrew/internal/handlers/discord"
	"github.com/KirkDiggler/barcrew/internal/repositories/beacon"
	"github.com/KirkDiggler/barcrew/internal/repositories/challenge"
	"github.com/KirkDiggler/barcrew/internal/repositories/drink_ledger"
	"github.com/KirkDiggler/barcrew/internal/repositories/feed"
	"github.com/KirkDiggler/barcrew/internal/repositories/member"
	"github.com/KirkDiggler/barcrew/internal/repositories/message"
	"github.com/KirkDiggler/barcrew/internal/repositories/reward"
	"github.com/KirkDiggler/barcrew/internal/repositories/subscription"
	challengeService "github.com/KirkDiggler/barcrew/internal/services/challenge"
	"github.com/KirkDiggler/barcrew/internal/services/notification"
	"github.com/KirkDiggler/barcrew/internal/services/scheduler"
	"github.com/KirkDiggler/barcrew/internal/timeboundary"
	"github.com/KirkDiggler/barcrew/internal/transport/webpush"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds everything the commands share
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	clock  clock.Clock
	uuid   uuid.UUID
	redis  *redis.Client

	boundary *timeboundary.Calculator

	memberRepo       member.Repository
	ledgerRepo       drink_ledger.Repository
	challengeRepo    challenge.Repository
	rewardRepo       reward.Repository
	subscriptionRepo subscription.Repository
	feedRepo         feed.Repository
	messageRepo      message.Repository
	beaconRepo       beacon.Repository

	challengeService    challengeService.Service
	notificationService notification.Service
	scheduler           *scheduler.Scheduler

	// bot is nil unless Discord is enabled
	bot *discord.Bot
}

// newApp connects to Redis and builds the repositories and services.
// With withDiscord set and a Discord token configured, announcements are
// mirrored through a bot the caller has to start.
func newApp(ctx context.Context, cfg *config.Config, withDiscord bool) (*app, error) {
	log, err := logger.New(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "barcrew"})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: log,
		clock:  clock.New(),
		uuid:   uuid.New(),
	}

	a.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := a.init(ctx, withDiscord); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) init(ctx context.Context, withDiscord bool) error {
	cfg := a.cfg

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.redis.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if err := a.initRepositories(); err != nil {
		return err
	}

	var err error
	a.boundary, err = timeboundary.New(&timeboundary.Config{
		Timezone:     cfg.BoundaryTimezone,
		BoundaryHour: cfg.BoundaryHour,
	})
	if err != nil {
		return fmt.Errorf("failed to create boundary calculator: %w", err)
	}

	var announcer notification.Announcer
	if withDiscord && cfg.DiscordToken != "" {
		a.bot, err = discord.New(&discord.Config{
			Token:      cfg.DiscordToken,
			MemberRepo: a.memberRepo,
			BeaconRepo: a.beaconRepo,
			Clock:      a.clock,
			Logger:     a.logger.Named("discord"),
		})
		if err != nil {
			return fmt.Errorf("failed to create Discord bot: %w", err)
		}
		announcer = a.bot
	}

	return a.initServices(announcer)
}

func (a *app) initRepositories() error {
	var err error

	if a.memberRepo, err = member.NewRedis(&member.Config{RedisClient: a.redis}); err != nil {
		return fmt.Errorf("failed to create member repository: %w", err)
	}
	if a.ledgerRepo, err = drink_ledger.NewRedis(&drink_ledger.Config{RedisClient: a.redis}); err != nil {
		return fmt.Errorf("failed to create drink ledger repository: %w", err)
	}
	if a.challengeRepo, err = challenge.NewRedis(&challenge.Config{RedisClient: a.redis}); err != nil {
		return fmt.Errorf("failed to create challenge repository: %w", err)
	}
	if a.rewardRepo, err = reward.NewRedis(&reward.Config{RedisClient: a.redis}); err != nil {
		return fmt.Errorf("failed to create reward repository: %w", err)
	}
	if a.subscriptionRepo, err = subscription.NewRedis(&subscription.Config{RedisClient: a.redis}); err != nil {
		return fmt.Errorf("failed to create subscription repository: %w", err)
	}
	if a.feedRepo, err = feed.NewRedis(&feed.Config{RedisClient: a.redis}); err != nil {
		return fmt.Errorf("failed to create feed repository: %w", err)
	}
	if a.messageRepo, err = message.NewRedis(&message.Config{RedisClient: a.redis}); err != nil {
		return fmt.Errorf("failed to create message repository: %w", err)
	}
	if a.beaconRepo, err = beacon.NewRedis(&beacon.Config{RedisClient: a.redis}); err != nil {
		return fmt.Errorf("failed to create beacon repository: %w", err)
	}

	return nil
}

func (a *app) initServices(announcer notification.Announcer) error {
	var err error

	a.challengeService, err = challengeService.New(&challengeService.Config{
		ChallengeRepo: a.challengeRepo,
		RewardRepo:    a.rewardRepo,
		Boundary:      a.boundary,
		Wheel:         dice.New(nil),
		Clock:         a.clock,
		UUIDGenerator: a.uuid,
		Logger:        a.logger.Named("challenge"),
	})
	if err != nil {
		return fmt.Errorf("failed to create challenge service: %w", err)
	}

	sender, err := webpush.New(&webpush.Config{
		VAPIDPublicKey:  a.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: a.cfg.VAPIDPrivateKey,
		Subject:         a.cfg.VAPIDSubject,
		TTL:             a.cfg.PushTTL,
		Logger:          a.logger.Named("webpush"),
	})
	if err != nil {
		return fmt.Errorf("failed to create push transport: %w", err)
	}

	a.notificationService, err = notification.New(&notification.Config{
		MemberRepo:          a.memberRepo,
		SubscriptionRepo:    a.subscriptionRepo,
		FeedRepo:            a.feedRepo,
		BeaconRepo:          a.beaconRepo,
		Sender:              sender,
		Boundary:            a.boundary,
		GroupCache:          cache.NewMemory[[]string](a.clock),
		Announcer:           announcer,
		OpenGroupID:         a.cfg.OpenGroupID,
		Milestones:          a.cfg.Milestones,
		ReminderWindowStart: a.cfg.ReminderWindowStartHour,
		ReminderWindowEnd:   a.cfg.ReminderWindowEndHour,
		ReminderInterval:    a.cfg.ReminderInterval,
		Clock:               a.clock,
		UUIDGenerator:       a.uuid,
		Logger:              a.logger.Named("notification"),
	})
	if err != nil {
		return fmt.Errorf("failed to create notification service: %w", err)
	}

	a.scheduler, err = scheduler.New(&scheduler.Config{
		MemberRepo:          a.memberRepo,
		MessageRepo:         a.messageRepo,
		FeedRepo:            a.feedRepo,
		NotificationService: a.notificationService,
		ChallengeService:    a.challengeService,
		Boundary:            a.boundary,
		DailyHour:           a.cfg.DailyJobHour,
		ReminderEvery:       a.cfg.ReminderSweepEvery,
		Clock:               a.clock,
		Logger:              a.logger.Named("scheduler"),
	})
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	return nil
}

// newAPIServer builds the HTTP API over the app's services
func (a *app) newAPIServer() (*api.Server, error) {
	return api.New(&api.Config{
		ChallengeService:    a.challengeService,
		NotificationService: a.notificationService,
		MemberRepo:          a.memberRepo,
		LedgerRepo:          a.ledgerRepo,
		SubscriptionRepo:    a.subscriptionRepo,
		FeedRepo:            a.feedRepo,
		MessageRepo:         a.messageRepo,
		BeaconRepo:          a.beaconRepo,
		DrinkLimiter: ratelimit.New(&ratelimit.Config{
			PerMinute: a.cfg.DrinkRatePerMinute,
			Clock:     a.clock,
		}),
		JWTSecret:     a.cfg.JWTSecret,
		Clock:         a.clock,
		UUIDGenerator: a.uuid,
		Logger:        a.logger.Named("api"),
	})
}

func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("failed to close Redis client", zap.Error(err))
	}
	_ = a.logger.Sync()
}
