package challenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
	challengeRepo "github.com/KirkDiggler/barcrew/internal/repositories/challenge"
	rewardRepo "github.com/KirkDiggler/barcrew/internal/repositories/reward"
	"go.uber.org/zap"
)

// luckyWheelScan caps how many sent dares are checked for a loss
const luckyWheelScan = 50

// CheckLuckyWheel reports whether the member lost a dare they sent in the
// current cooldown window and has not spun the wheel in it yet
func (s *service) CheckLuckyWheel(ctx context.Context, input *LuckyWheelInput) (*LuckyWheelOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, ErrMissingUserID
	}

	now := s.clock.Now()
	start, end := s.boundary.Window(now)
	output := &LuckyWheelOutput{WindowStart: start, WindowEnd: end}

	sent, err := s.challengeRepo.ListChallenges(ctx, &challengeRepo.ListChallengesInput{
		UserID: input.UserID,
		Role:   challengeRepo.RoleSender,
		Limit:  luckyWheelScan,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sent challenges: %w", err)
	}

	for _, challenge := range sent.Challenges {
		if !challenge.Status.IsFailure() {
			continue
		}
		if s.boundary.InWindow(finishedAt(challenge), now) {
			output.ChallengeID = challenge.ID
			break
		}
	}
	if output.ChallengeID == "" {
		return output, nil
	}

	grant, err := s.rewardRepo.GetGrant(ctx, &rewardRepo.GetGrantInput{
		UserID:      input.UserID,
		WindowStart: start,
	})
	switch {
	case err == nil:
		output.AlreadyGranted = true
		output.Slot = grant.Slot
	case errors.Is(err, rewardRepo.ErrGrantNotFound):
		output.Eligible = true
	default:
		return nil, fmt.Errorf("failed to get reward grant: %w", err)
	}

	return output, nil
}

// GrantLuckyWheel spins the wheel and records the member's spin for the
// current window. The slot is picked here so clients cannot choose it.
func (s *service) GrantLuckyWheel(ctx context.Context, input *LuckyWheelInput) (*LuckyWheelOutput, error) {
	output, err := s.CheckLuckyWheel(ctx, input)
	if err != nil {
		return nil, err
	}
	if output.AlreadyGranted {
		return output, ErrAlreadyGranted
	}
	if !output.Eligible {
		return output, ErrNotEligible
	}

	slot := s.wheel.Roll(s.wheelSlots)
	granted, err := s.rewardRepo.Grant(ctx, &rewardRepo.GrantInput{
		Grant: &models.RewardGrant{
			UserID:      input.UserID,
			WindowStart: output.WindowStart,
			GrantedAt:   s.clock.Now(),
			Slot:        slot,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to grant reward: %w", err)
	}
	if !granted.Granted {
		output.Eligible = false
		output.AlreadyGranted = true
		return output, ErrAlreadyGranted
	}

	s.logger.Info("lucky wheel granted",
		zap.String("user_id", input.UserID),
		zap.String("challenge_id", output.ChallengeID),
		zap.Int("slot", slot),
		zap.Time("window_start", output.WindowStart))

	output.Slot = slot
	output.Eligible = false
	output.AlreadyGranted = true
	return output, nil
}

// finishedAt is the instant a dare counts at for the lucky wheel
func finishedAt(challenge *models.Challenge) time.Time {
	if challenge.CompletedAt != nil {
		return *challenge.CompletedAt
	}
	return challenge.UpdatedAt
}
