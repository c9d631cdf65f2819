package scheduler

import (
	"context"
	"fmt"

	feedRepo "github.com/KirkDiggler/barcrew/internal/repositories/feed"
	memberRepo "github.com/KirkDiggler/barcrew/internal/repositories/member"
	messageRepo "github.com/KirkDiggler/barcrew/internal/repositories/message"
	"go.uber.org/zap"
)

// ResetCheckIns checks out everyone still checked in. A member that
// cannot be updated is skipped and counted.
func (s *Scheduler) ResetCheckIns(ctx context.Context) (*ResetCheckInsOutput, error) {
	list, err := s.memberRepo.ListCheckedIn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checked in members: %w", err)
	}

	output := &ResetCheckInsOutput{}
	now := s.clock.Now()
	for _, m := range list.Members {
		_, err := s.memberRepo.SetCheckIn(ctx, &memberRepo.SetCheckInInput{
			MemberID:  m.ID,
			CheckedIn: false,
			At:        now,
		})
		if err != nil {
			s.logger.Warn("failed to reset check-in", zap.String("member", m.ID), zap.Error(err))
			output.Errors++
			continue
		}
		output.Reset++
	}

	s.logger.Info("check-ins reset", zap.Int("reset", output.Reset), zap.Int("errors", output.Errors))
	return output, nil
}

// PurgeMessages deletes group messages past their retention
func (s *Scheduler) PurgeMessages(ctx context.Context) (*PurgeOutput, error) {
	before := s.clock.Now().Add(-s.messageRetention)

	result, err := s.messageRepo.PurgeOlderThan(ctx, &messageRepo.PurgeOlderThanInput{Before: before})
	if err != nil {
		return nil, fmt.Errorf("failed to purge messages: %w", err)
	}

	s.logger.Info("messages purged", zap.Time("before", before), zap.Int("deleted", result.Deleted))
	return &PurgeOutput{Before: before, Deleted: result.Deleted}, nil
}

// PurgeFeed deletes notification feed items past their retention
func (s *Scheduler) PurgeFeed(ctx context.Context) (*PurgeOutput, error) {
	before := s.clock.Now().Add(-s.feedRetention)

	result, err := s.feedRepo.PurgeOlderThan(ctx, &feedRepo.PurgeOlderThanInput{Before: before})
	if err != nil {
		return nil, fmt.Errorf("failed to purge feed: %w", err)
	}

	s.logger.Info("feed purged", zap.Time("before", before), zap.Int("deleted", result.Deleted))
	return &PurgeOutput{Before: before, Deleted: result.Deleted}, nil
}
