package notification

import (
	"context"
	"errors"
	"fmt"

	challengeRepo "github.com/KirkDiggler/barcrew/internal/repositories/challenge"
	memberRepo "github.com/KirkDiggler/barcrew/internal/repositories/member"
	messageRepo "github.com/KirkDiggler/barcrew/internal/repositories/message"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WorkerConfig holds configuration for the trigger worker
type WorkerConfig struct {
	Service Service

	// Change feeds
	MemberRepo    memberRepo.Repository
	ChallengeRepo challengeRepo.Repository
	MessageRepo   messageRepo.Repository

	Logger *zap.Logger
}

// Worker runs the triggers off the repositories' change feeds. Each feed is
// consumed independently; there is no ordering between them.
type Worker struct {
	service       Service
	memberRepo    memberRepo.Repository
	challengeRepo challengeRepo.Repository
	messageRepo   messageRepo.Repository
	logger        *zap.Logger
}

// NewWorker creates a trigger worker
func NewWorker(cfg *WorkerConfig) (*Worker, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Service == nil {
		return nil, errors.New("notification service cannot be nil")
	}
	if cfg.MemberRepo == nil || cfg.ChallengeRepo == nil || cfg.MessageRepo == nil {
		return nil, errors.New("member, challenge and message repositories are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Worker{
		service:       cfg.Service,
		memberRepo:    cfg.MemberRepo,
		challengeRepo: cfg.ChallengeRepo,
		messageRepo:   cfg.MessageRepo,
		logger:        logger,
	}, nil
}

// Run subscribes to every feed and blocks until ctx is done or a feed
// closes unexpectedly
func (w *Worker) Run(ctx context.Context) error {
	members, err := w.memberRepo.SubscribeChanges(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to member changes: %w", err)
	}
	challenges, err := w.challengeRepo.SubscribeChanges(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to challenge changes: %w", err)
	}
	messages, err := w.messageRepo.SubscribeCreated(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to messages: %w", err)
	}

	w.logger.Info("notification worker started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consume(gctx, "member", members, w.logger, w.service.OnMemberUpdated)
	})
	g.Go(func() error {
		return consume(gctx, "challenge", challenges, w.logger, w.service.OnChallengeChanged)
	})
	g.Go(func() error {
		return consume(gctx, "message", messages, w.logger, w.service.OnMessageCreated)
	})

	err = g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func consume[T any](ctx context.Context, feed string, events <-chan *T, logger *zap.Logger, handle func(context.Context, *T) (*TriggerOutput, error)) error {
	log := logger.With(zap.String("feed", feed))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("%s feed closed", feed)
			}
			output, err := handle(ctx, event)
			if err != nil {
				log.Warn("trigger failed", zap.Error(err))
				continue
			}
			if len(output.Fired) > 0 {
				log.Debug("trigger fired", zap.Any("types", output.Fired), zap.Int("sent", output.Stats.Sent))
			}
		}
	}
}
