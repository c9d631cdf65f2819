package challenge

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"github.com/KirkDiggler/barcrew/internal/common/uuid"
	"github.com/KirkDiggler/barcrew/internal/dice"
	"github.com/KirkDiggler/barcrew/internal/models"
	challengeRepo "github.com/KirkDiggler/barcrew/internal/repositories/challenge"
	rewardRepo "github.com/KirkDiggler/barcrew/internal/repositories/reward"
	"github.com/KirkDiggler/barcrew/internal/timeboundary"
	"go.uber.org/zap"
)

// service implements the Service interface
type service struct {
	duration         time.Duration
	secondPhotoLimit time.Duration
	challengeRepo    challengeRepo.Repository
	rewardRepo       rewardRepo.Repository
	boundary         *timeboundary.Calculator
	wheel            dice.Roller
	wheelSlots       int
	clock            clock.Clock
	uuid             uuid.UUID
	logger           *zap.Logger
}

// New creates a new challenge service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.ChallengeRepo == nil {
		return nil, ErrNilChallengeRepo
	}
	if cfg.RewardRepo == nil {
		return nil, ErrNilRewardRepo
	}
	if cfg.Boundary == nil {
		return nil, ErrNilBoundary
	}

	s := &service{
		duration:         cfg.Duration,
		secondPhotoLimit: cfg.SecondPhotoLimit,
		challengeRepo:    cfg.ChallengeRepo,
		rewardRepo:       cfg.RewardRepo,
		boundary:         cfg.Boundary,
		wheel:            cfg.Wheel,
		wheelSlots:       cfg.WheelSlots,
		clock:            cfg.Clock,
		uuid:             cfg.UUIDGenerator,
		logger:           cfg.Logger,
	}
	if s.duration <= 0 {
		s.duration = DefaultDuration
	}
	if s.secondPhotoLimit <= 0 {
		s.secondPhotoLimit = DefaultSecondPhotoLimit
	}
	if s.wheel == nil {
		s.wheel = dice.New(nil)
	}
	if s.wheelSlots <= 0 {
		s.wheelSlots = DefaultWheelSlots
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

// Create sends a new dare. The receiver must not already hold an open dare.
func (s *service) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil || input.SenderID == "" || input.ReceiverID == "" {
		return nil, ErrMissingUserID
	}
	if input.SenderID == input.ReceiverID {
		return nil, ErrSelfChallenge
	}

	now := s.clock.Now()
	challenge := &models.Challenge{
		ID:         s.uuid.NewUUID(),
		SenderID:   input.SenderID,
		ReceiverID: input.ReceiverID,
		GroupID:    input.GroupID,
		Status:     models.ChallengeStatusPending,
		Phase:      models.ChallengePhaseNone,
		CreatedAt:  now,
		DeadlineAt: now.Add(s.duration),
		UpdatedAt:  now,
	}
	if input.StartInProgress {
		challenge.Status = models.ChallengeStatusInProgress
		challenge.Phase = models.ChallengePhaseIntro
	}

	err := s.challengeRepo.CreateChallenge(ctx, &challengeRepo.CreateChallengeInput{
		Challenge: challenge,
	})
	if err != nil {
		if errors.Is(err, challengeRepo.ErrReceiverLocked) {
			return nil, ErrReceiverLocked
		}
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	s.logger.Info("challenge created",
		zap.String("challenge_id", challenge.ID),
		zap.String("sender_id", challenge.SenderID),
		zap.String("receiver_id", challenge.ReceiverID),
		zap.Time("deadline_at", challenge.DeadlineAt))

	return &CreateOutput{Challenge: challenge}, nil
}

// Open reads a dare. A PENDING dare opened by its receiver is promoted.
func (s *service) Open(ctx context.Context, input *OpenInput) (*OpenOutput, error) {
	if input == nil || input.ChallengeID == "" {
		return nil, ErrMissingChallengeID
	}
	if input.UserID == "" {
		return nil, ErrMissingUserID
	}

	challenge, err := s.challengeRepo.GetChallenge(ctx, &challengeRepo.GetChallengeInput{
		ChallengeID: input.ChallengeID,
	})
	if err != nil {
		return nil, s.mapRepoError(err, "failed to get challenge")
	}
	if challenge.SenderID != input.UserID && challenge.ReceiverID != input.UserID {
		return nil, ErrNotParticipant
	}

	if challenge.ReceiverID != input.UserID || challenge.Status != models.ChallengeStatusPending {
		return &OpenOutput{Challenge: challenge}, nil
	}

	promoted, err := s.Promote(ctx, &PromoteInput{
		ChallengeID: input.ChallengeID,
		UserID:      input.UserID,
	})
	if err != nil {
		return nil, err
	}
	return &OpenOutput{Challenge: promoted.Challenge, Promoted: promoted.Promoted}, nil
}

// Promote moves a dare from PENDING to IN_PROGRESS. The write only happens
// if the stored status is still PENDING, so concurrent promotions collapse
// into one.
func (s *service) Promote(ctx context.Context, input *PromoteInput) (*PromoteOutput, error) {
	if input == nil || input.ChallengeID == "" {
		return nil, ErrMissingChallengeID
	}
	if input.UserID == "" {
		return nil, ErrMissingUserID
	}

	now := s.clock.Now()
	output, err := s.challengeRepo.UpdateChallenge(ctx, &challengeRepo.UpdateChallengeInput{
		ChallengeID: input.ChallengeID,
		Update: func(current *models.Challenge) (*models.Challenge, error) {
			if current.ReceiverID != input.UserID {
				return nil, ErrNotReceiver
			}
			if current.Status != models.ChallengeStatusPending {
				return nil, nil
			}
			current.Status = models.ChallengeStatusInProgress
			current.Phase = models.ChallengePhaseIntro
			current.UpdatedAt = nextUpdatedAt(current.UpdatedAt, now)
			return current, nil
		},
	})
	if err != nil {
		return nil, s.mapRepoError(err, "failed to promote challenge")
	}

	return &PromoteOutput{Challenge: output.Challenge, Promoted: output.Applied}, nil
}

// AdvancePhase records a photo-capture step from the receiver.
//
// The write with the later WrittenAt wins; an older write arriving late is
// dropped rather than regressing the phase. WrittenAt only orders writes and
// is clamped to the server clock. Timing rules run on the server clock:
// capturing the empty glass more than SecondPhotoLimit after the filled one
// (or after creation when no filled capture is recorded), or advancing after
// the deadline, fails the dare instead of completing it.
func (s *service) AdvancePhase(ctx context.Context, input *AdvancePhaseInput) (*AdvancePhaseOutput, error) {
	if input == nil || input.ChallengeID == "" {
		return nil, ErrMissingChallengeID
	}
	if input.UserID == "" {
		return nil, ErrMissingUserID
	}
	if !input.Phase.Valid() || input.Phase == models.ChallengePhaseNone {
		return nil, ErrInvalidPhase
	}

	now := s.clock.Now()
	writtenAt := input.WrittenAt
	if writtenAt.IsZero() || writtenAt.After(now) {
		writtenAt = now
	}

	output, err := s.challengeRepo.UpdateChallenge(ctx, &challengeRepo.UpdateChallengeInput{
		ChallengeID: input.ChallengeID,
		Update: func(current *models.Challenge) (*models.Challenge, error) {
			if current.ReceiverID != input.UserID {
				return nil, ErrNotReceiver
			}
			if current.Status.IsTerminal() {
				return nil, nil
			}
			if current.UpdatedAt.After(writtenAt) {
				return nil, nil
			}
			if current.Phase == input.Phase {
				return nil, nil
			}
			if !current.Phase.CanAdvanceTo(input.Phase) {
				return nil, ErrPhaseRegression
			}

			current.UpdatedAt = nextUpdatedAt(current.UpdatedAt, writtenAt)
			if !current.DeadlineAt.IsZero() && now.After(current.DeadlineAt) {
				markFailed(current, now)
				return current, nil
			}

			current.Status = models.ChallengeStatusInProgress
			current.Phase = input.Phase

			switch input.Phase {
			case models.ChallengePhaseFilledCaptured:
				capturedAt := writtenAt
				current.FilledCapturedAt = &capturedAt
				current.ProofBeforeRef = input.ProofRef

			case models.ChallengePhaseEmptyCaptured:
				anchor := current.CreatedAt
				if current.FilledCapturedAt != nil {
					anchor = *current.FilledCapturedAt
				}
				current.ProofAfterRef = input.ProofRef
				if now.Sub(anchor) > s.secondPhotoLimit {
					markFailed(current, now)
				} else {
					completedAt := now
					current.Status = models.ChallengeStatusCompleted
					current.CompletedAt = &completedAt
				}

			case models.ChallengePhaseFailed:
				markFailed(current, now)
			}

			return current, nil
		},
	})
	if err != nil {
		return nil, s.mapRepoError(err, "failed to advance challenge")
	}

	challenge := output.Challenge
	if output.Applied {
		s.logger.Info("challenge phase advanced",
			zap.String("challenge_id", challenge.ID),
			zap.String("phase", string(challenge.Phase)),
			zap.String("status", string(challenge.Status)))

		if challenge.Status.IsTerminal() {
			challenge = s.releaseAfterFinish(ctx, challenge)
		}
	}

	return &AdvancePhaseOutput{Challenge: challenge, Applied: output.Applied}, nil
}

// Fail forces an open dare to FAILED and releases the receiver lock
func (s *service) Fail(ctx context.Context, input *FailInput) (*FailOutput, error) {
	if input == nil || input.ChallengeID == "" {
		return nil, ErrMissingChallengeID
	}

	now := s.clock.Now()
	output, err := s.challengeRepo.UpdateChallenge(ctx, &challengeRepo.UpdateChallengeInput{
		ChallengeID: input.ChallengeID,
		Update: func(current *models.Challenge) (*models.Challenge, error) {
			if input.UserID != "" && current.SenderID != input.UserID && current.ReceiverID != input.UserID {
				return nil, ErrNotParticipant
			}
			if current.Status.IsTerminal() {
				return nil, nil
			}
			markFailed(current, now)
			current.UpdatedAt = nextUpdatedAt(current.UpdatedAt, now)
			return current, nil
		},
	})
	if err != nil {
		return nil, s.mapRepoError(err, "failed to fail challenge")
	}

	challenge := output.Challenge
	if output.Applied {
		s.logger.Info("challenge failed",
			zap.String("challenge_id", challenge.ID),
			zap.String("reason", input.Reason))
		challenge = s.releaseAfterFinish(ctx, challenge)
	}

	return &FailOutput{Challenge: challenge, Failed: output.Applied}, nil
}

// ReleaseLock clears the receiver lock of a finished dare. Calling it again
// is harmless.
func (s *service) ReleaseLock(ctx context.Context, input *ReleaseLockInput) (*ReleaseLockOutput, error) {
	if input == nil || input.ChallengeID == "" {
		return nil, ErrMissingChallengeID
	}

	challenge, err := s.challengeRepo.GetChallenge(ctx, &challengeRepo.GetChallengeInput{
		ChallengeID: input.ChallengeID,
	})
	if err != nil {
		return nil, s.mapRepoError(err, "failed to get challenge")
	}
	if !challenge.Status.IsTerminal() {
		return nil, ErrNotFinished
	}

	return s.release(ctx, challenge)
}

func (s *service) release(ctx context.Context, challenge *models.Challenge) (*ReleaseLockOutput, error) {
	released, err := s.challengeRepo.ReleaseLock(ctx, &challengeRepo.ReleaseLockInput{
		ReceiverID:  challenge.ReceiverID,
		ChallengeID: challenge.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to release receiver lock: %w", err)
	}

	if challenge.LockReleased {
		return &ReleaseLockOutput{Challenge: challenge, Released: released.Released}, nil
	}

	output, err := s.challengeRepo.UpdateChallenge(ctx, &challengeRepo.UpdateChallengeInput{
		ChallengeID: challenge.ID,
		Update: func(current *models.Challenge) (*models.Challenge, error) {
			if current.LockReleased {
				return nil, nil
			}
			current.LockReleased = true
			current.UpdatedAt = nextUpdatedAt(current.UpdatedAt, s.clock.Now())
			return current, nil
		},
	})
	if err != nil {
		return nil, s.mapRepoError(err, "failed to mark lock released")
	}

	return &ReleaseLockOutput{Challenge: output.Challenge, Released: released.Released}, nil
}

// releaseAfterFinish releases the lock right after a terminal transition.
// A failure here is left for Reconcile to clean up.
func (s *service) releaseAfterFinish(ctx context.Context, challenge *models.Challenge) *models.Challenge {
	output, err := s.release(ctx, challenge)
	if err != nil {
		s.logger.Warn("failed to release receiver lock",
			zap.String("challenge_id", challenge.ID),
			zap.Error(err))
		return challenge
	}
	return output.Challenge
}

// Reconcile releases locks that finished dares still hold. It covers a
// client that missed the release, for example after a reload mid-transition.
func (s *service) Reconcile(ctx context.Context, input *ReconcileInput) (*ReconcileOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, ErrMissingUserID
	}

	received, err := s.challengeRepo.ListChallenges(ctx, &challengeRepo.ListChallengesInput{
		UserID: input.UserID,
		Role:   challengeRepo.RoleReceiver,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list received challenges: %w", err)
	}

	output := &ReconcileOutput{Released: []string{}}
	for _, challenge := range received.Challenges {
		if !challenge.Status.IsTerminal() || challenge.LockReleased {
			continue
		}
		if _, err := s.release(ctx, challenge); err != nil {
			return nil, err
		}
		output.Released = append(output.Released, challenge.ID)
	}

	// The lock may point at a dare that is gone or already released
	holder, err := s.challengeRepo.GetLockHolder(ctx, &challengeRepo.GetLockHolderInput{
		ReceiverID: input.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get receiver lock: %w", err)
	}
	if holder != "" {
		stale := false
		challenge, err := s.challengeRepo.GetChallenge(ctx, &challengeRepo.GetChallengeInput{ChallengeID: holder})
		switch {
		case errors.Is(err, challengeRepo.ErrChallengeNotFound):
			stale = true
		case err != nil:
			return nil, fmt.Errorf("failed to get lock holder: %w", err)
		default:
			stale = challenge.Status.IsTerminal()
		}

		if stale {
			released, err := s.challengeRepo.ReleaseLock(ctx, &challengeRepo.ReleaseLockInput{
				ReceiverID:  input.UserID,
				ChallengeID: holder,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to release receiver lock: %w", err)
			}
			if released.Released && !slices.Contains(output.Released, holder) {
				output.Released = append(output.Released, holder)
			}
		}
	}

	if len(output.Released) > 0 {
		s.logger.Info("reconciled receiver locks",
			zap.String("user_id", input.UserID),
			zap.Strings("challenge_ids", output.Released))
	}

	return output, nil
}

// ExpireOverdue fails every open dare whose deadline has passed, whether or
// not a participant's device is around to notice
func (s *service) ExpireOverdue(ctx context.Context, input *ExpireOverdueInput) (*ExpireOverdueOutput, error) {
	if input == nil {
		input = &ExpireOverdueInput{}
	}

	now := s.clock.Now()
	overdue, err := s.challengeRepo.ListOverdue(ctx, &challengeRepo.ListOverdueInput{
		Now:   now,
		Limit: input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue challenges: %w", err)
	}

	output := &ExpireOverdueOutput{Failed: []string{}}
	for _, challenge := range overdue.Challenges {
		failed, err := s.Fail(ctx, &FailInput{
			ChallengeID: challenge.ID,
			Reason:      "deadline passed",
		})
		if err != nil {
			output.Errors++
			s.logger.Warn("failed to expire challenge",
				zap.String("challenge_id", challenge.ID),
				zap.Error(err))
			continue
		}
		if failed.Failed {
			output.Failed = append(output.Failed, challenge.ID)
		}
	}

	return output, nil
}

// Watch streams the merged list of the member's sent and received dares.
// A new list is sent after every write, sorted by creation time, newest
// first. An update older than the copy already held is ignored, so late
// pub/sub delivery never rolls a dare back. The channel closes with ctx.
func (s *service) Watch(ctx context.Context, input *WatchInput) (<-chan []*models.Challenge, error) {
	if input == nil || input.UserID == "" {
		return nil, ErrMissingUserID
	}

	// Subscribe before listing so no write falls between the two
	updates, err := s.challengeRepo.Subscribe(ctx, &challengeRepo.SubscribeInput{UserID: input.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to challenges: %w", err)
	}

	merged := make(map[string]*models.Challenge)
	for _, role := range []challengeRepo.Role{challengeRepo.RoleSender, challengeRepo.RoleReceiver} {
		listed, err := s.challengeRepo.ListChallenges(ctx, &challengeRepo.ListChallengesInput{
			UserID: input.UserID,
			Role:   role,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s challenges: %w", role, err)
		}
		for _, challenge := range listed.Challenges {
			mergeChallenge(merged, challenge)
		}
	}

	out := make(chan []*models.Challenge, 1)
	go func() {
		defer close(out)

		attempted := make(map[string]struct{})
		send := func() bool {
			for id, challenge := range merged {
				if _, ok := attempted[id]; ok {
					continue
				}
				if s.autoPromote(ctx, input, challenge) {
					attempted[id] = struct{}{}
				}
			}
			select {
			case out <- sortedChallenges(merged):
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case challenge, ok := <-updates:
				if !ok {
					return
				}
				if !mergeChallenge(merged, challenge) {
					continue
				}
				if !send() {
					return
				}
			}
		}
	}()

	return out, nil
}

// autoPromote promotes a received PENDING dare and reports whether it tried.
// The promoted version comes back through the subscription.
func (s *service) autoPromote(ctx context.Context, input *WatchInput, challenge *models.Challenge) bool {
	if !input.AutoPromote || challenge.ReceiverID != input.UserID {
		return false
	}
	if challenge.Status != models.ChallengeStatusPending {
		return false
	}
	if _, err := s.Promote(ctx, &PromoteInput{ChallengeID: challenge.ID, UserID: input.UserID}); err != nil {
		s.logger.Warn("failed to promote challenge",
			zap.String("challenge_id", challenge.ID),
			zap.Error(err))
	}
	return true
}

// mergeChallenge stores challenge unless a newer copy is already held
func mergeChallenge(merged map[string]*models.Challenge, challenge *models.Challenge) bool {
	if existing, ok := merged[challenge.ID]; ok && existing.UpdatedAt.After(challenge.UpdatedAt) {
		return false
	}
	merged[challenge.ID] = challenge
	return true
}

func sortedChallenges(merged map[string]*models.Challenge) []*models.Challenge {
	list := make([]*models.Challenge, 0, len(merged))
	for _, challenge := range merged {
		list = append(list, challenge)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// nextUpdatedAt keeps UpdatedAt strictly increasing so every accepted write
// outranks the copy it replaced.
func nextUpdatedAt(previous, at time.Time) time.Time {
	if at.After(previous) {
		return at
	}
	return previous.Add(time.Nanosecond)
}

func markFailed(challenge *models.Challenge, at time.Time) {
	failedAt := at
	challenge.Status = models.ChallengeStatusFailed
	challenge.Phase = models.ChallengePhaseFailed
	challenge.CompletedAt = &failedAt
}

func (s *service) mapRepoError(err error, msg string) error {
	switch {
	case errors.Is(err, challengeRepo.ErrChallengeNotFound):
		return ErrChallengeNotFound
	case errors.Is(err, ErrNotReceiver), errors.Is(err, ErrNotParticipant), errors.Is(err, ErrPhaseRegression):
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
