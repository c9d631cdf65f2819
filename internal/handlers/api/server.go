// Package api is the HTTP surface of the engagement engine.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"github.com/KirkDiggler/barcrew/internal/common/ratelimit"
	"github.com/KirkDiggler/barcrew/internal/common/uuid"
	beaconRepo "github.com/KirkDiggler/barcrew/internal/repositories/beacon"
	ledgerRepo "github.com/KirkDiggler/barcrew/internal/repositories/drink_ledger"
	feedRepo "github.com/KirkDiggler/barcrew/internal/repositories/feed"
	memberRepo "github.com/KirkDiggler/barcrew/internal/repositories/member"
	messageRepo "github.com/KirkDiggler/barcrew/internal/repositories/message"
	subscriptionRepo "github.com/KirkDiggler/barcrew/internal/repositories/subscription"
	"github.com/KirkDiggler/barcrew/internal/services/challenge"
	"github.com/KirkDiggler/barcrew/internal/services/notification"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds configuration for the HTTP server
type Config struct {
	ChallengeService    challenge.Service
	NotificationService notification.Service

	MemberRepo       memberRepo.Repository
	LedgerRepo       ledgerRepo.Repository
	SubscriptionRepo subscriptionRepo.Repository
	FeedRepo         feedRepo.Repository
	MessageRepo      messageRepo.Repository
	BeaconRepo       beaconRepo.Repository

	// DrinkLimiter throttles drink logging per member; nil disables it
	DrinkLimiter *ratelimit.KeyedLimiter

	// JWTSecret verifies HS256 bearer tokens
	JWTSecret string

	// WatchTick is the deadline watcher interval of challenge streams
	WatchTick time.Duration

	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Logger        *zap.Logger
}

// Server serves the HTTP API
type Server struct {
	challengeService    challenge.Service
	notificationService notification.Service
	memberRepo          memberRepo.Repository
	ledgerRepo          ledgerRepo.Repository
	subscriptionRepo    subscriptionRepo.Repository
	feedRepo            feedRepo.Repository
	messageRepo         messageRepo.Repository
	beaconRepo          beaconRepo.Repository
	drinkLimiter        *ratelimit.KeyedLimiter
	jwtSecret           []byte
	watchTick           time.Duration
	clock               clock.Clock
	uuid                uuid.UUID
	logger              *zap.Logger
}

// New creates the HTTP server
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.ChallengeService == nil || cfg.NotificationService == nil {
		return nil, errors.New("challenge and notification services are required")
	}
	if cfg.MemberRepo == nil || cfg.LedgerRepo == nil || cfg.SubscriptionRepo == nil ||
		cfg.FeedRepo == nil || cfg.MessageRepo == nil || cfg.BeaconRepo == nil {
		return nil, errors.New("all repositories are required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}

	s := &Server{
		challengeService:    cfg.ChallengeService,
		notificationService: cfg.NotificationService,
		memberRepo:          cfg.MemberRepo,
		ledgerRepo:          cfg.LedgerRepo,
		subscriptionRepo:    cfg.SubscriptionRepo,
		feedRepo:            cfg.FeedRepo,
		messageRepo:         cfg.MessageRepo,
		beaconRepo:          cfg.BeaconRepo,
		drinkLimiter:        cfg.DrinkLimiter,
		jwtSecret:           []byte(cfg.JWTSecret),
		watchTick:           cfg.WatchTick,
		clock:               cfg.Clock,
		uuid:                cfg.UUIDGenerator,
		logger:              cfg.Logger,
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.uuid == nil {
		s.uuid = uuid.New()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	return s, nil
}

// Router builds the gin engine with every route
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1", s.authenticate())
	{
		v1.POST("/subscriptions", s.upsertSubscription)
		v1.DELETE("/subscriptions", s.revokeSubscription)

		v1.GET("/drinks", s.getSnapshot)
		v1.POST("/drinks", s.logDrink)
		v1.POST("/runs", s.startRun)

		v1.POST("/checkins", s.checkIn)
		v1.DELETE("/checkins", s.checkOut)

		v1.POST("/messages", s.postMessage)
		v1.GET("/groups/:id/messages", s.listMessages)
		v1.GET("/groups/:id/beacons", s.listBeacons)

		v1.POST("/challenges", s.createChallenge)
		v1.GET("/challenges/stream", s.streamChallenges)
		v1.GET("/challenges/:id", s.openChallenge)
		v1.POST("/challenges/:id/promote", s.promoteChallenge)
		v1.POST("/challenges/:id/phase", s.advancePhase)
		v1.POST("/challenges/:id/fail", s.failChallenge)
		v1.POST("/challenges/reconcile", s.reconcileChallenges)

		v1.GET("/lucky-wheel", s.checkLuckyWheel)
		v1.POST("/lucky-wheel", s.grantLuckyWheel)

		v1.GET("/feed", s.listFeed)
		v1.POST("/feed/read", s.markFeedRead)

		admin := v1.Group("/admin", s.requireAdmin())
		admin.POST("/broadcast", s.broadcast)
		admin.POST("/beacons", s.createBeacon)
	}

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.clock.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", clock.Since(s.clock, start)),
		}
		if len(c.Errors) > 0 {
			s.logger.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		s.logger.Debug("request", fields...)
	}
}
