package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
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
	"golang.org/x/sync/errgroup"
)

type service struct {
	memberRepo       memberRepo.Repository
	subscriptionRepo subscriptionRepo.Repository
	feedRepo         feedRepo.Repository
	beaconRepo       beaconRepo.Repository
	sender           webpush.Sender
	boundary         *timeboundary.Calculator
	groupCache       cache.Cache[[]string]
	groupCacheTTL    time.Duration
	announcer        Announcer

	openGroupID         string
	milestones          []int
	reminderWindowStart int
	reminderWindowEnd   int
	reminderInterval    time.Duration
	maxConcurrency      int

	clock  clock.Clock
	uuid   uuid.UUID
	logger *zap.Logger
}

// New creates a new notification service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.MemberRepo == nil {
		return nil, ErrNilMemberRepo
	}
	if cfg.SubscriptionRepo == nil {
		return nil, ErrNilSubscriptionRepo
	}
	if cfg.FeedRepo == nil {
		return nil, ErrNilFeedRepo
	}
	if cfg.BeaconRepo == nil {
		return nil, ErrNilBeaconRepo
	}
	if cfg.Sender == nil {
		return nil, ErrNilSender
	}
	if cfg.Boundary == nil {
		return nil, ErrNilBoundary
	}

	s := &service{
		memberRepo:          cfg.MemberRepo,
		subscriptionRepo:    cfg.SubscriptionRepo,
		feedRepo:            cfg.FeedRepo,
		beaconRepo:          cfg.BeaconRepo,
		sender:              cfg.Sender,
		boundary:            cfg.Boundary,
		groupCache:          cfg.GroupCache,
		groupCacheTTL:       cfg.GroupCacheTTL,
		announcer:           cfg.Announcer,
		openGroupID:         cfg.OpenGroupID,
		milestones:          cfg.Milestones,
		reminderWindowStart: cfg.ReminderWindowStart,
		reminderWindowEnd:   cfg.ReminderWindowEnd,
		reminderInterval:    cfg.ReminderInterval,
		maxConcurrency:      cfg.MaxConcurrency,
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
	if s.groupCache == nil {
		s.groupCache = cache.NewMemory[[]string](s.clock)
	}
	if s.groupCacheTTL <= 0 {
		s.groupCacheTTL = DefaultGroupCacheTTL
	}
	if s.openGroupID == "" {
		s.openGroupID = DefaultOpenGroupID
	}
	if len(s.milestones) == 0 {
		s.milestones = DefaultMilestones
	}
	for i, m := range s.milestones {
		if m <= 0 || (i > 0 && m <= s.milestones[i-1]) {
			return nil, ErrInvalidMilestones
		}
	}
	if s.reminderWindowStart == 0 && s.reminderWindowEnd == 0 {
		s.reminderWindowStart = DefaultReminderWindowStart
		s.reminderWindowEnd = DefaultReminderWindowEnd
	}
	if s.reminderWindowStart < 0 || s.reminderWindowEnd > 24 || s.reminderWindowStart >= s.reminderWindowEnd {
		return nil, ErrInvalidWindow
	}
	if s.reminderInterval <= 0 {
		s.reminderInterval = DefaultReminderInterval
	}
	if s.maxConcurrency <= 0 {
		s.maxConcurrency = DefaultMaxConcurrency
	}

	return s, nil
}

// Deliver fans a payload out to every recipient. Outcomes are isolated:
// one failing subscription or recipient never stops the others, and only
// a malformed input is returned as an error.
func (s *service) Deliver(ctx context.Context, input *DeliverInput) (*Stats, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	recipients := dedupe(input.Recipients)
	stats := &Stats{Recipients: len(recipients)}
	if len(recipients) == 0 {
		return stats, nil
	}

	body, err := json.Marshal(input.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for _, recipient := range recipients {
		g.Go(func() error {
			recipientStats := s.deliverTo(gctx, recipient, input.Payload, body)
			mu.Lock()
			stats.Sent += recipientStats.Sent
			stats.Failed += recipientStats.Failed
			stats.Skipped += recipientStats.Skipped
			stats.Pruned += recipientStats.Pruned
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("notification delivered",
		zap.String("type", string(input.Payload.Type)),
		zap.Int("recipients", stats.Recipients),
		zap.Int("sent", stats.Sent),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("pruned", stats.Pruned),
	)

	return stats, nil
}

// deliverTo writes the feed item first so in-app history is complete even
// when every push fails
func (s *service) deliverTo(ctx context.Context, recipient string, payload Payload, body []byte) Stats {
	log := s.logger.With(zap.String("recipient", recipient), zap.String("type", string(payload.Type)))

	err := s.feedRepo.Append(ctx, &feedRepo.AppendInput{
		Item: &models.NotificationFeedItem{
			ID:        s.uuid.NewUUID(),
			UserID:    recipient,
			Type:      payload.Type,
			Title:     payload.Title,
			Body:      payload.Body,
			Data:      payload.Data,
			CreatedAt: s.clock.Now(),
		},
	})
	if err != nil {
		log.Warn("failed to write feed item", zap.Error(err))
	}

	subscriptions, err := s.subscriptionRepo.ListForUser(ctx, &subscriptionRepo.ListForUserInput{UserID: recipient})
	if err != nil {
		log.Warn("failed to list subscriptions", zap.Error(err))
		return Stats{Failed: 1}
	}

	var (
		mu    sync.Mutex
		stats Stats
		wg    sync.WaitGroup
	)
	for _, sub := range subscriptions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome := s.sendOne(ctx, log, sub, payload, body)
			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomeSent:
				stats.Sent++
			case outcomeSkipped:
				stats.Skipped++
				stats.Pruned++
			case outcomePruned:
				stats.Failed++
				stats.Pruned++
			case outcomeFailed:
				stats.Failed++
			}
		}()
	}
	wg.Wait()

	return stats
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeSkipped
	outcomePruned
	outcomeFailed
)

func (s *service) sendOne(ctx context.Context, log *zap.Logger, sub *models.PushSubscription, payload Payload, body []byte) outcome {
	log = log.With(zap.String("subscription", sub.ID))

	if !sub.HasKeyMaterial() {
		s.prune(ctx, log, sub)
		return outcomeSkipped
	}

	err := s.sender.Send(ctx, &webpush.SendInput{
		Endpoint: sub.Endpoint,
		Keys:     sub.Keys,
		Payload:  body,
		Topic:    topic(payload.Tag),
	})
	if err == nil {
		touchErr := s.subscriptionRepo.Touch(ctx, &subscriptionRepo.TouchInput{
			UserID:         sub.UserID,
			SubscriptionID: sub.ID,
			At:             s.clock.Now(),
		})
		if touchErr != nil {
			log.Warn("failed to touch subscription", zap.Error(touchErr))
		}
		return outcomeSent
	}

	if errors.Is(err, apperr.ErrPermanentDelivery) {
		log.Info("pruning dead subscription", zap.Int("status", webpush.StatusCode(err)))
		s.prune(ctx, log, sub)
		return outcomePruned
	}

	log.Warn("push delivery failed", zap.Int("status", webpush.StatusCode(err)), zap.Error(err))
	return outcomeFailed
}

func (s *service) prune(ctx context.Context, log *zap.Logger, sub *models.PushSubscription) {
	err := s.subscriptionRepo.Delete(ctx, &subscriptionRepo.DeleteInput{
		UserID:         sub.UserID,
		SubscriptionID: sub.ID,
	})
	if err != nil {
		log.Warn("failed to prune subscription", zap.Error(err))
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
