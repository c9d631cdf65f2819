package challenge

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	mockClock "github.com/KirkDiggler/barcrew/internal/common/clock/mocks"
	mockUUID "github.com/KirkDiggler/barcrew/internal/common/uuid/mocks"
	mockRoller "github.com/KirkDiggler/barcrew/internal/dice/mocks"
	"github.com/KirkDiggler/barcrew/internal/models"
	challengeRepo "github.com/KirkDiggler/barcrew/internal/repositories/challenge"
	mockChallengeRepo "github.com/KirkDiggler/barcrew/internal/repositories/challenge/mocks"
	rewardRepo "github.com/KirkDiggler/barcrew/internal/repositories/reward"
	mockRewardRepo "github.com/KirkDiggler/barcrew/internal/repositories/reward/mocks"
	"github.com/KirkDiggler/barcrew/internal/timeboundary"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ChallengeServiceTestSuite struct {
	suite.Suite
	mockCtrl          *gomock.Controller
	mockChallengeRepo *mockChallengeRepo.MockRepository
	mockRewardRepo    *mockRewardRepo.MockRepository
	mockClock         *mockClock.MockClock
	mockUUID          *mockUUID.MockUUID
	mockRoller        *mockRoller.MockRoller
	service           Service
	ctx               context.Context
	now               time.Time

	// stored backs UpdateChallenge and GetChallenge
	stored map[string]*models.Challenge
}

func (s *ChallengeServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockChallengeRepo = mockChallengeRepo.NewMockRepository(s.mockCtrl)
	s.mockRewardRepo = mockRewardRepo.NewMockRepository(s.mockCtrl)
	s.mockClock = mockClock.NewMockClock(s.mockCtrl)
	s.mockUUID = mockUUID.NewMockUUID(s.mockCtrl)
	s.mockRoller = mockRoller.NewMockRoller(s.mockCtrl)
	s.ctx = context.Background()
	s.stored = make(map[string]*models.Challenge)

	// 21:00 in Prague, the window started at 12:00 local
	s.now = time.Date(2025, 6, 14, 19, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	boundary, err := timeboundary.New(nil)
	s.Require().NoError(err)

	svc, err := New(&Config{
		ChallengeRepo: s.mockChallengeRepo,
		RewardRepo:    s.mockRewardRepo,
		Boundary:      boundary,
		Wheel:         s.mockRoller,
		WheelSlots:    6,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ChallengeServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestChallengeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ChallengeServiceTestSuite))
}

// store saves a copy of challenge as the repository state
func (s *ChallengeServiceTestSuite) store(challenge *models.Challenge) {
	s.stored[challenge.ID] = clone(s.T(), challenge)
}

func clone(t *testing.T, challenge *models.Challenge) *models.Challenge {
	data, err := json.Marshal(challenge)
	if err != nil {
		t.Fatal(err)
	}
	var copied models.Challenge
	if err := json.Unmarshal(data, &copied); err != nil {
		t.Fatal(err)
	}
	return &copied
}

// backRepo wires the mock repository to s.stored
func (s *ChallengeServiceTestSuite) backRepo() {
	s.mockChallengeRepo.EXPECT().
		UpdateChallenge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *challengeRepo.UpdateChallengeInput) (*challengeRepo.UpdateChallengeOutput, error) {
			current, ok := s.stored[input.ChallengeID]
			if !ok {
				return nil, challengeRepo.ErrChallengeNotFound
			}
			next, err := input.Update(clone(s.T(), current))
			if err != nil {
				return nil, err
			}
			if next == nil {
				return &challengeRepo.UpdateChallengeOutput{Challenge: clone(s.T(), current)}, nil
			}
			s.store(next)
			return &challengeRepo.UpdateChallengeOutput{Challenge: clone(s.T(), next), Applied: true}, nil
		}).AnyTimes()

	s.mockChallengeRepo.EXPECT().
		GetChallenge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *challengeRepo.GetChallengeInput) (*models.Challenge, error) {
			current, ok := s.stored[input.ChallengeID]
			if !ok {
				return nil, challengeRepo.ErrChallengeNotFound
			}
			return clone(s.T(), current), nil
		}).AnyTimes()
}

func (s *ChallengeServiceTestSuite) expectRelease(challengeID string, released bool) {
	s.mockChallengeRepo.EXPECT().
		ReleaseLock(gomock.Any(), &challengeRepo.ReleaseLockInput{ReceiverID: "bob", ChallengeID: challengeID}).
		Return(&challengeRepo.ReleaseLockOutput{Released: released}, nil)
}

func (s *ChallengeServiceTestSuite) inProgress(id string, createdAt time.Time, phase models.ChallengePhase) *models.Challenge {
	return &models.Challenge{
		ID:         id,
		SenderID:   "alice",
		ReceiverID: "bob",
		Status:     models.ChallengeStatusInProgress,
		Phase:      phase,
		CreatedAt:  createdAt,
		DeadlineAt: createdAt.Add(10 * time.Minute),
		UpdatedAt:  createdAt,
	}
}

func (s *ChallengeServiceTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{RewardRepo: s.mockRewardRepo})
	s.ErrorIs(err, ErrNilChallengeRepo)

	_, err = New(&Config{ChallengeRepo: s.mockChallengeRepo, RewardRepo: s.mockRewardRepo})
	s.ErrorIs(err, ErrNilBoundary)
}

func (s *ChallengeServiceTestSuite) TestCreate() {
	s.mockUUID.EXPECT().NewUUID().Return("c-1")
	s.mockChallengeRepo.EXPECT().
		CreateChallenge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *challengeRepo.CreateChallengeInput) error {
			s.Equal("c-1", input.Challenge.ID)
			s.Equal(models.ChallengeStatusPending, input.Challenge.Status)
			s.Equal(s.now.Add(10*time.Minute), input.Challenge.DeadlineAt)
			return nil
		})

	output, err := s.service.Create(s.ctx, &CreateInput{SenderID: "alice", ReceiverID: "bob", GroupID: "g-1"})
	s.Require().NoError(err)
	s.Equal("g-1", output.Challenge.GroupID)
	s.Equal(models.ChallengePhaseNone, output.Challenge.Phase)
}

func (s *ChallengeServiceTestSuite) TestCreateInProgress() {
	s.mockUUID.EXPECT().NewUUID().Return("c-1")
	s.mockChallengeRepo.EXPECT().CreateChallenge(gomock.Any(), gomock.Any()).Return(nil)

	output, err := s.service.Create(s.ctx, &CreateInput{SenderID: "alice", ReceiverID: "bob", StartInProgress: true})
	s.Require().NoError(err)
	s.Equal(models.ChallengeStatusInProgress, output.Challenge.Status)
	s.Equal(models.ChallengePhaseIntro, output.Challenge.Phase)
}

func (s *ChallengeServiceTestSuite) TestCreateReceiverLocked() {
	s.mockUUID.EXPECT().NewUUID().Return("c-2")
	s.mockChallengeRepo.EXPECT().
		CreateChallenge(gomock.Any(), gomock.Any()).
		Return(challengeRepo.ErrReceiverLocked)

	_, err := s.service.Create(s.ctx, &CreateInput{SenderID: "carol", ReceiverID: "bob"})
	s.ErrorIs(err, ErrReceiverLocked)
	s.Equal(apperr.KindLockConflict, apperr.KindOf(err))
}

func (s *ChallengeServiceTestSuite) TestCreateSelf() {
	_, err := s.service.Create(s.ctx, &CreateInput{SenderID: "bob", ReceiverID: "bob"})
	s.ErrorIs(err, ErrSelfChallenge)
}

func (s *ChallengeServiceTestSuite) TestPromoteOnlyOnce() {
	s.backRepo()
	pending := s.inProgress("c-1", s.now, models.ChallengePhaseNone)
	pending.Status = models.ChallengeStatusPending
	s.store(pending)

	first, err := s.service.Promote(s.ctx, &PromoteInput{ChallengeID: "c-1", UserID: "bob"})
	s.Require().NoError(err)
	s.True(first.Promoted)
	s.Equal(models.ChallengeStatusInProgress, first.Challenge.Status)
	s.Equal(models.ChallengePhaseIntro, first.Challenge.Phase)

	second, err := s.service.Promote(s.ctx, &PromoteInput{ChallengeID: "c-1", UserID: "bob"})
	s.Require().NoError(err)
	s.False(second.Promoted)
	s.Equal(models.ChallengeStatusInProgress, second.Challenge.Status)
}

func (s *ChallengeServiceTestSuite) TestPromoteByNonReceiver() {
	s.backRepo()
	pending := s.inProgress("c-1", s.now, models.ChallengePhaseNone)
	pending.Status = models.ChallengeStatusPending
	s.store(pending)

	_, err := s.service.Promote(s.ctx, &PromoteInput{ChallengeID: "c-1", UserID: "alice"})
	s.ErrorIs(err, ErrNotReceiver)
	s.Equal(models.ChallengeStatusPending, s.stored["c-1"].Status)
}

func (s *ChallengeServiceTestSuite) TestOpen() {
	s.backRepo()
	pending := s.inProgress("c-1", s.now, models.ChallengePhaseNone)
	pending.Status = models.ChallengeStatusPending
	s.store(pending)

	bySender, err := s.service.Open(s.ctx, &OpenInput{ChallengeID: "c-1", UserID: "alice"})
	s.Require().NoError(err)
	s.False(bySender.Promoted)
	s.Equal(models.ChallengeStatusPending, bySender.Challenge.Status)

	_, err = s.service.Open(s.ctx, &OpenInput{ChallengeID: "c-1", UserID: "mallory"})
	s.ErrorIs(err, ErrNotParticipant)

	byReceiver, err := s.service.Open(s.ctx, &OpenInput{ChallengeID: "c-1", UserID: "bob"})
	s.Require().NoError(err)
	s.True(byReceiver.Promoted)
	s.Equal(models.ChallengeStatusInProgress, byReceiver.Challenge.Status)
}

func (s *ChallengeServiceTestSuite) TestOpenMissing() {
	s.backRepo()

	_, err := s.service.Open(s.ctx, &OpenInput{ChallengeID: "nope", UserID: "bob"})
	s.ErrorIs(err, ErrChallengeNotFound)
}

// advance moves the clock to at and writes phase as a device stamped at at
func (s *ChallengeServiceTestSuite) advance(phase models.ChallengePhase, at time.Time, ref string) *AdvancePhaseOutput {
	s.now = at
	output, err := s.service.AdvancePhase(s.ctx, &AdvancePhaseInput{
		ChallengeID: "c-1",
		UserID:      "bob",
		Phase:       phase,
		ProofRef:    ref,
		WrittenAt:   at,
	})
	s.Require().NoError(err)
	return output
}

func (s *ChallengeServiceTestSuite) TestFullCaptureCompletes() {
	s.backRepo()
	created := s.now
	s.store(s.inProgress("c-1", created, models.ChallengePhaseIntro))
	s.expectRelease("c-1", true)

	s.advance(models.ChallengePhaseAwaitingFilled, created.Add(30*time.Second), "")
	filled := s.advance(models.ChallengePhaseFilledCaptured, created.Add(time.Minute), "photos/before.jpg")
	s.Require().NotNil(filled.Challenge.FilledCapturedAt)
	s.Equal("photos/before.jpg", filled.Challenge.ProofBeforeRef)

	s.advance(models.ChallengePhaseAwaitingEmpty, created.Add(2*time.Minute), "")
	done := s.advance(models.ChallengePhaseEmptyCaptured, created.Add(6*time.Minute), "photos/after.jpg")

	s.True(done.Applied)
	s.Equal(models.ChallengeStatusCompleted, done.Challenge.Status)
	s.Equal("photos/after.jpg", done.Challenge.ProofAfterRef)
	s.Require().NotNil(done.Challenge.CompletedAt)
	s.True(done.Challenge.LockReleased)
}

func (s *ChallengeServiceTestSuite) TestSecondPhotoTooLateFails() {
	s.backRepo()
	created := s.now
	s.store(s.inProgress("c-1", created, models.ChallengePhaseIntro))
	s.expectRelease("c-1", true)

	s.advance(models.ChallengePhaseFilledCaptured, created.Add(time.Minute), "before")
	output := s.advance(models.ChallengePhaseEmptyCaptured, created.Add(11*time.Minute+time.Second), "after")

	s.Equal(models.ChallengeStatusFailed, output.Challenge.Status)
	s.Equal(models.ChallengePhaseFailed, output.Challenge.Phase)
}

func (s *ChallengeServiceTestSuite) TestSecondPhotoMeasuredFromCreationWithoutFirst() {
	s.backRepo()
	created := s.now
	s.store(s.inProgress("c-1", created, models.ChallengePhaseAwaitingEmpty))
	s.expectRelease("c-1", true)

	output := s.advance(models.ChallengePhaseEmptyCaptured, created.Add(10*time.Minute+time.Second), "after")
	s.Equal(models.ChallengeStatusFailed, output.Challenge.Status)
}

func (s *ChallengeServiceTestSuite) TestBackdatedSecondPhotoStillFails() {
	s.backRepo()
	created := s.now
	stored := s.inProgress("c-1", created, models.ChallengePhaseAwaitingEmpty)
	stored.DeadlineAt = created.Add(time.Hour)
	filledAt := created.Add(time.Minute)
	stored.FilledCapturedAt = &filledAt
	stored.UpdatedAt = filledAt
	s.store(stored)
	s.expectRelease("c-1", true)

	s.now = created.Add(30 * time.Minute)
	output, err := s.service.AdvancePhase(s.ctx, &AdvancePhaseInput{
		ChallengeID: "c-1",
		UserID:      "bob",
		Phase:       models.ChallengePhaseEmptyCaptured,
		WrittenAt:   created.Add(2 * time.Minute),
	})
	s.Require().NoError(err)
	s.True(output.Applied)
	s.Equal(models.ChallengeStatusFailed, output.Challenge.Status)
	s.Require().NotNil(output.Challenge.CompletedAt)
	s.True(s.now.Equal(*output.Challenge.CompletedAt))
}

func (s *ChallengeServiceTestSuite) TestBackdatedWriteAfterDeadlineFails() {
	s.backRepo()
	created := s.now
	s.store(s.inProgress("c-1", created, models.ChallengePhaseAwaitingFilled))
	s.expectRelease("c-1", true)

	s.now = created.Add(15 * time.Minute)
	output, err := s.service.AdvancePhase(s.ctx, &AdvancePhaseInput{
		ChallengeID: "c-1",
		UserID:      "bob",
		Phase:       models.ChallengePhaseFilledCaptured,
		WrittenAt:   created.Add(time.Minute),
	})
	s.Require().NoError(err)
	s.Equal(models.ChallengeStatusFailed, output.Challenge.Status)
	s.Equal(models.ChallengePhaseFailed, output.Challenge.Phase)
}

func (s *ChallengeServiceTestSuite) TestFutureWrittenAtIsClamped() {
	s.backRepo()
	s.store(s.inProgress("c-1", s.now.Add(-time.Minute), models.ChallengePhaseIntro))

	output, err := s.service.AdvancePhase(s.ctx, &AdvancePhaseInput{
		ChallengeID: "c-1",
		UserID:      "bob",
		Phase:       models.ChallengePhaseAwaitingFilled,
		WrittenAt:   s.now.Add(time.Hour),
	})
	s.Require().NoError(err)
	s.True(output.Applied)
	s.True(s.now.Equal(output.Challenge.UpdatedAt))
}

func (s *ChallengeServiceTestSuite) TestFailOutranksStoredWrite() {
	s.backRepo()
	// written by a device whose clock ran ahead of the server
	ahead := s.inProgress("c-1", s.now.Add(-5*time.Minute), models.ChallengePhaseAwaitingEmpty)
	ahead.UpdatedAt = s.now.Add(4 * time.Minute)
	s.store(ahead)
	s.expectRelease("c-1", true)

	output, err := s.service.Fail(s.ctx, &FailInput{ChallengeID: "c-1", Reason: "deadline passed"})
	s.Require().NoError(err)
	s.True(output.Challenge.UpdatedAt.After(ahead.UpdatedAt))

	merged := map[string]*models.Challenge{ahead.ID: ahead}
	s.True(mergeChallenge(merged, output.Challenge))
	s.Equal(models.ChallengeStatusFailed, merged["c-1"].Status)
}

func (s *ChallengeServiceTestSuite) TestPromoteAtSameInstantStillAdvances() {
	s.backRepo()
	pending := s.inProgress("c-1", s.now, models.ChallengePhaseNone)
	pending.Status = models.ChallengeStatusPending
	s.store(pending)

	output, err := s.service.Promote(s.ctx, &PromoteInput{ChallengeID: "c-1", UserID: "bob"})
	s.Require().NoError(err)
	s.True(output.Promoted)
	s.True(output.Challenge.UpdatedAt.After(pending.UpdatedAt))
}

func (s *ChallengeServiceTestSuite) TestPhaseCannotRegress() {
	s.backRepo()
	s.store(s.inProgress("c-1", s.now, models.ChallengePhaseAwaitingEmpty))

	_, err := s.service.AdvancePhase(s.ctx, &AdvancePhaseInput{
		ChallengeID: "c-1",
		UserID:      "bob",
		Phase:       models.ChallengePhaseAwaitingFilled,
		WrittenAt:   s.now.Add(time.Minute),
	})
	s.ErrorIs(err, ErrPhaseRegression)
}

func (s *ChallengeServiceTestSuite) TestOlderWriteLoses() {
	s.backRepo()
	stored := s.inProgress("c-1", s.now, models.ChallengePhaseAwaitingEmpty)
	stored.UpdatedAt = s.now.Add(5 * time.Minute)
	s.store(stored)

	// A second device wrote awaiting_filled before the stored write
	output := s.advance(models.ChallengePhaseAwaitingFilled, s.now.Add(4*time.Minute), "")
	s.False(output.Applied)
	s.Equal(models.ChallengePhaseAwaitingEmpty, output.Challenge.Phase)
}

func (s *ChallengeServiceTestSuite) TestSamePhaseIsNoop() {
	s.backRepo()
	s.store(s.inProgress("c-1", s.now, models.ChallengePhaseAwaitingFilled))

	output := s.advance(models.ChallengePhaseAwaitingFilled, s.now.Add(time.Minute), "")
	s.False(output.Applied)
}

func (s *ChallengeServiceTestSuite) TestTerminalIsImmutable() {
	s.backRepo()
	done := s.inProgress("c-1", s.now, models.ChallengePhaseEmptyCaptured)
	done.Status = models.ChallengeStatusCompleted
	s.store(done)

	output := s.advance(models.ChallengePhaseFailed, s.now.Add(time.Minute), "")
	s.False(output.Applied)
	s.Equal(models.ChallengeStatusCompleted, output.Challenge.Status)
}

func (s *ChallengeServiceTestSuite) TestAdvanceInvalidPhase() {
	_, err := s.service.AdvancePhase(s.ctx, &AdvancePhaseInput{ChallengeID: "c-1", UserID: "bob", Phase: "dancing"})
	s.ErrorIs(err, ErrInvalidPhase)
}

func (s *ChallengeServiceTestSuite) TestFailReleasesLock() {
	s.backRepo()
	s.store(s.inProgress("c-1", s.now, models.ChallengePhaseAwaitingFilled))
	s.expectRelease("c-1", true)

	output, err := s.service.Fail(s.ctx, &FailInput{ChallengeID: "c-1", UserID: "bob", Reason: "gave up"})
	s.Require().NoError(err)
	s.True(output.Failed)
	s.Equal(models.ChallengeStatusFailed, output.Challenge.Status)
	s.True(s.stored["c-1"].LockReleased)

	again, err := s.service.Fail(s.ctx, &FailInput{ChallengeID: "c-1"})
	s.Require().NoError(err)
	s.False(again.Failed)
}

func (s *ChallengeServiceTestSuite) TestFailByOutsider() {
	s.backRepo()
	s.store(s.inProgress("c-1", s.now, models.ChallengePhaseIntro))

	_, err := s.service.Fail(s.ctx, &FailInput{ChallengeID: "c-1", UserID: "mallory"})
	s.ErrorIs(err, ErrNotParticipant)
}

func (s *ChallengeServiceTestSuite) TestReleaseLockRequiresFinished() {
	s.backRepo()
	s.store(s.inProgress("c-1", s.now, models.ChallengePhaseIntro))

	_, err := s.service.ReleaseLock(s.ctx, &ReleaseLockInput{ChallengeID: "c-1"})
	s.ErrorIs(err, ErrNotFinished)
}

func (s *ChallengeServiceTestSuite) TestReleaseLockIsIdempotent() {
	s.backRepo()
	done := s.inProgress("c-1", s.now, models.ChallengePhaseFailed)
	done.Status = models.ChallengeStatusFailed
	s.store(done)
	s.expectRelease("c-1", true)
	s.expectRelease("c-1", false)

	first, err := s.service.ReleaseLock(s.ctx, &ReleaseLockInput{ChallengeID: "c-1"})
	s.Require().NoError(err)
	s.True(first.Released)
	s.True(first.Challenge.LockReleased)

	second, err := s.service.ReleaseLock(s.ctx, &ReleaseLockInput{ChallengeID: "c-1"})
	s.Require().NoError(err)
	s.False(second.Released)
}

func (s *ChallengeServiceTestSuite) TestReconcileReleasesMissedLocks() {
	s.backRepo()
	missed := s.inProgress("c-1", s.now, models.ChallengePhaseEmptyCaptured)
	missed.Status = models.ChallengeStatusCompleted
	released := s.inProgress("c-2", s.now.Add(-time.Hour), models.ChallengePhaseFailed)
	released.Status = models.ChallengeStatusFailed
	released.LockReleased = true
	open := s.inProgress("c-3", s.now.Add(-2*time.Hour), models.ChallengePhaseIntro)
	s.store(missed)
	s.store(released)
	s.store(open)

	s.mockChallengeRepo.EXPECT().
		ListChallenges(gomock.Any(), &challengeRepo.ListChallengesInput{UserID: "bob", Role: challengeRepo.RoleReceiver}).
		Return(&challengeRepo.ListChallengesOutput{Challenges: []*models.Challenge{
			clone(s.T(), missed), clone(s.T(), released), clone(s.T(), open),
		}}, nil)
	s.expectRelease("c-1", true)
	s.mockChallengeRepo.EXPECT().
		GetLockHolder(gomock.Any(), &challengeRepo.GetLockHolderInput{ReceiverID: "bob"}).
		Return("c-gone", nil)
	s.expectRelease("c-gone", true)

	output, err := s.service.Reconcile(s.ctx, &ReconcileInput{UserID: "bob"})
	s.Require().NoError(err)
	s.Equal([]string{"c-1", "c-gone"}, output.Released)
	s.True(s.stored["c-1"].LockReleased)
}

func (s *ChallengeServiceTestSuite) TestReconcileKeepsLiveLock() {
	s.backRepo()
	s.store(s.inProgress("c-3", s.now, models.ChallengePhaseIntro))

	s.mockChallengeRepo.EXPECT().
		ListChallenges(gomock.Any(), gomock.Any()).
		Return(&challengeRepo.ListChallengesOutput{Challenges: []*models.Challenge{}}, nil)
	s.mockChallengeRepo.EXPECT().
		GetLockHolder(gomock.Any(), gomock.Any()).
		Return("c-3", nil)

	output, err := s.service.Reconcile(s.ctx, &ReconcileInput{UserID: "bob"})
	s.Require().NoError(err)
	s.Empty(output.Released)
}

func (s *ChallengeServiceTestSuite) TestUntouchedChallengeFailsAtDeadline() {
	s.backRepo()
	created := s.now
	pending := s.inProgress("c-1", created, models.ChallengePhaseNone)
	pending.Status = models.ChallengeStatusPending
	s.store(pending)

	s.now = created.Add(10 * time.Minute)
	s.mockChallengeRepo.EXPECT().
		ListOverdue(gomock.Any(), &challengeRepo.ListOverdueInput{Now: s.now}).
		Return(&challengeRepo.ListChallengesOutput{Challenges: []*models.Challenge{clone(s.T(), pending)}}, nil)
	s.expectRelease("c-1", true)

	output, err := s.service.ExpireOverdue(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal([]string{"c-1"}, output.Failed)
	s.Zero(output.Errors)
	s.Equal(models.ChallengeStatusFailed, s.stored["c-1"].Status)
	s.True(created.Add(10 * time.Minute).Equal(*s.stored["c-1"].CompletedAt))
}

func (s *ChallengeServiceTestSuite) TestExpireOverdueContinuesPastErrors() {
	s.backRepo()
	s.store(s.inProgress("c-2", s.now.Add(-20*time.Minute), models.ChallengePhaseIntro))

	s.mockChallengeRepo.EXPECT().
		ListOverdue(gomock.Any(), gomock.Any()).
		Return(&challengeRepo.ListChallengesOutput{Challenges: []*models.Challenge{
			{ID: "c-gone"},
			clone(s.T(), s.stored["c-2"]),
		}}, nil)
	s.expectRelease("c-2", true)

	output, err := s.service.ExpireOverdue(s.ctx, &ExpireOverdueInput{Limit: 10})
	s.Require().NoError(err)
	s.Equal([]string{"c-2"}, output.Failed)
	s.Equal(1, output.Errors)
}

func (s *ChallengeServiceTestSuite) TestWatchMergesStreams() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	updates := make(chan *models.Challenge, 4)
	sent := &models.Challenge{ID: "c-1", SenderID: "bob", ReceiverID: "carol", Status: models.ChallengeStatusInProgress,
		CreatedAt: s.now.Add(-time.Hour), UpdatedAt: s.now.Add(-time.Hour)}
	received := &models.Challenge{ID: "c-2", SenderID: "alice", ReceiverID: "bob", Status: models.ChallengeStatusInProgress,
		CreatedAt: s.now.Add(-time.Minute), UpdatedAt: s.now.Add(-time.Minute)}

	s.mockChallengeRepo.EXPECT().
		Subscribe(gomock.Any(), &challengeRepo.SubscribeInput{UserID: "bob"}).
		Return((<-chan *models.Challenge)(updates), nil)
	s.mockChallengeRepo.EXPECT().
		ListChallenges(gomock.Any(), &challengeRepo.ListChallengesInput{UserID: "bob", Role: challengeRepo.RoleSender}).
		Return(&challengeRepo.ListChallengesOutput{Challenges: []*models.Challenge{sent}}, nil)
	s.mockChallengeRepo.EXPECT().
		ListChallenges(gomock.Any(), &challengeRepo.ListChallengesInput{UserID: "bob", Role: challengeRepo.RoleReceiver}).
		Return(&challengeRepo.ListChallengesOutput{Challenges: []*models.Challenge{received}}, nil)

	stream, err := s.service.Watch(ctx, &WatchInput{UserID: "bob"})
	s.Require().NoError(err)

	first := <-stream
	s.Require().Len(first, 2)
	s.Equal("c-2", first[0].ID)
	s.Equal("c-1", first[1].ID)

	// A stale delivery is skipped, the newer one after it is merged
	stale := *received
	stale.UpdatedAt = s.now.Add(-2 * time.Minute)
	stale.Phase = models.ChallengePhaseIntro
	newer := *received
	newer.UpdatedAt = s.now
	newer.Phase = models.ChallengePhaseAwaitingFilled
	updates <- &stale
	updates <- &newer

	next := <-stream
	s.Require().Len(next, 2)
	s.Equal(models.ChallengePhaseAwaitingFilled, next[0].Phase)

	cancel()
	for range stream {
	}
}

func (s *ChallengeServiceTestSuite) TestWatchAutoPromotes() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	s.backRepo()

	pending := s.inProgress("c-1", s.now, models.ChallengePhaseNone)
	pending.Status = models.ChallengeStatusPending
	s.store(pending)

	s.mockChallengeRepo.EXPECT().Subscribe(gomock.Any(), gomock.Any()).
		Return((<-chan *models.Challenge)(make(chan *models.Challenge)), nil)
	s.mockChallengeRepo.EXPECT().
		ListChallenges(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *challengeRepo.ListChallengesInput) (*challengeRepo.ListChallengesOutput, error) {
			if input.Role == challengeRepo.RoleReceiver {
				return &challengeRepo.ListChallengesOutput{Challenges: []*models.Challenge{clone(s.T(), pending)}}, nil
			}
			return &challengeRepo.ListChallengesOutput{}, nil
		}).Times(2)

	stream, err := s.service.Watch(ctx, &WatchInput{UserID: "bob", AutoPromote: true})
	s.Require().NoError(err)
	<-stream

	s.Equal(models.ChallengeStatusInProgress, s.stored["c-1"].Status)
}

func (s *ChallengeServiceTestSuite) lostDare(id string, finishedAt time.Time) *models.Challenge {
	return &models.Challenge{
		ID:          id,
		SenderID:    "alice",
		ReceiverID:  "bob",
		Status:      models.ChallengeStatusFailed,
		CreatedAt:   finishedAt.Add(-10 * time.Minute),
		UpdatedAt:   finishedAt,
		CompletedAt: &finishedAt,
	}
}

func (s *ChallengeServiceTestSuite) expectSent(challenges ...*models.Challenge) {
	s.mockChallengeRepo.EXPECT().
		ListChallenges(gomock.Any(), &challengeRepo.ListChallengesInput{UserID: "alice", Role: challengeRepo.RoleSender, Limit: luckyWheelScan}).
		Return(&challengeRepo.ListChallengesOutput{Challenges: challenges}, nil)
}

func (s *ChallengeServiceTestSuite) TestLuckyWheelEligible() {
	windowStart := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	s.expectSent(s.lostDare("c-1", s.now.Add(-time.Hour)))
	s.mockRewardRepo.EXPECT().
		GetGrant(gomock.Any(), &rewardRepo.GetGrantInput{UserID: "alice", WindowStart: windowStart}).
		Return(nil, rewardRepo.ErrGrantNotFound)

	output, err := s.service.CheckLuckyWheel(s.ctx, &LuckyWheelInput{UserID: "alice"})
	s.Require().NoError(err)
	s.True(output.Eligible)
	s.Equal("c-1", output.ChallengeID)
	s.True(windowStart.Equal(output.WindowStart))
}

func (s *ChallengeServiceTestSuite) TestLuckyWheelIgnoresPreviousWindow() {
	// 11:00 Prague, before today's boundary
	s.expectSent(s.lostDare("c-1", time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)))

	output, err := s.service.CheckLuckyWheel(s.ctx, &LuckyWheelInput{UserID: "alice"})
	s.Require().NoError(err)
	s.False(output.Eligible)
	s.Empty(output.ChallengeID)
}

func (s *ChallengeServiceTestSuite) TestLuckyWheelIgnoresCompletedDares() {
	won := s.lostDare("c-1", s.now.Add(-time.Hour))
	won.Status = models.ChallengeStatusCompleted
	s.expectSent(won)

	output, err := s.service.CheckLuckyWheel(s.ctx, &LuckyWheelInput{UserID: "alice"})
	s.Require().NoError(err)
	s.False(output.Eligible)
}

func (s *ChallengeServiceTestSuite) TestGrantLuckyWheel() {
	s.expectSent(s.lostDare("c-1", s.now.Add(-time.Hour)))
	s.mockRewardRepo.EXPECT().GetGrant(gomock.Any(), gomock.Any()).Return(nil, rewardRepo.ErrGrantNotFound)
	s.mockRoller.EXPECT().Roll(6).Return(4)
	s.mockRewardRepo.EXPECT().
		Grant(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *rewardRepo.GrantInput) (*rewardRepo.GrantOutput, error) {
			s.Equal("alice", input.Grant.UserID)
			s.True(s.now.Equal(input.Grant.GrantedAt))
			s.Equal(4, input.Grant.Slot)
			return &rewardRepo.GrantOutput{Granted: true}, nil
		})

	output, err := s.service.GrantLuckyWheel(s.ctx, &LuckyWheelInput{UserID: "alice"})
	s.Require().NoError(err)
	s.True(output.AlreadyGranted)
	s.Equal(4, output.Slot)
}

func (s *ChallengeServiceTestSuite) TestGrantLuckyWheelLosesRace() {
	s.expectSent(s.lostDare("c-1", s.now.Add(-time.Hour)))
	s.mockRewardRepo.EXPECT().GetGrant(gomock.Any(), gomock.Any()).Return(nil, rewardRepo.ErrGrantNotFound)
	s.mockRoller.EXPECT().Roll(6).Return(2)
	s.mockRewardRepo.EXPECT().Grant(gomock.Any(), gomock.Any()).Return(&rewardRepo.GrantOutput{Granted: false}, nil)

	output, err := s.service.GrantLuckyWheel(s.ctx, &LuckyWheelInput{UserID: "alice"})
	s.ErrorIs(err, ErrAlreadyGranted)
	s.Zero(output.Slot)
}

func (s *ChallengeServiceTestSuite) TestGrantLuckyWheelTwice() {
	s.expectSent(s.lostDare("c-1", s.now.Add(-time.Hour)))
	s.mockRewardRepo.EXPECT().GetGrant(gomock.Any(), gomock.Any()).
		Return(&models.RewardGrant{UserID: "alice", Slot: 3}, nil)

	output, err := s.service.GrantLuckyWheel(s.ctx, &LuckyWheelInput{UserID: "alice"})
	s.ErrorIs(err, ErrAlreadyGranted)
	s.Equal(3, output.Slot)
}

func (s *ChallengeServiceTestSuite) TestGrantLuckyWheelNotEligible() {
	s.expectSent()

	_, err := s.service.GrantLuckyWheel(s.ctx, &LuckyWheelInput{UserID: "alice"})
	s.ErrorIs(err, ErrNotEligible)
}
