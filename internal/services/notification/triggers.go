package notification

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/barcrew/internal/models"
	"go.uber.org/zap"
)

// HighestMilestoneCrossed returns the largest threshold t with
// before < t <= after, so a jump over several thresholds fires once
func HighestMilestoneCrossed(before, after int, thresholds []int) (int, bool) {
	if after <= before {
		return 0, false
	}
	for i := len(thresholds) - 1; i >= 0; i-- {
		t := thresholds[i]
		if before < t && t <= after {
			return t, true
		}
	}
	return 0, false
}

// OnMessageCreated notifies the rest of the author's group
func (s *service) OnMessageCreated(ctx context.Context, message *models.Message) (*TriggerOutput, error) {
	if message == nil {
		return nil, ErrNilInput
	}
	if message.GroupID == "" {
		return nil, ErrMissingGroupID
	}

	recipients, err := s.groupMembersExcept(ctx, message.GroupID, message.AuthorID)
	if err != nil {
		return nil, err
	}

	pc := PayloadContext{
		ActorID:     message.AuthorID,
		ActorName:   message.AuthorName,
		GroupID:     message.GroupID,
		MessageText: message.Text,
	}
	if group := s.group(ctx, message.GroupID); group != nil {
		pc.GroupName = group.Name
	}

	output := &TriggerOutput{}
	if err := s.fire(ctx, output, models.NotificationTypeMessage, pc, recipients); err != nil {
		return nil, err
	}
	return output, nil
}

// OnMemberUpdated handles both member triggers independently: the check-in
// edge and the milestone crossing
func (s *service) OnMemberUpdated(ctx context.Context, change *models.MemberChange) (*TriggerOutput, error) {
	if change == nil || change.After == nil {
		return nil, ErrNilInput
	}
	s.invalidateMembership(change)

	before, after := change.Before, change.After
	output := &TriggerOutput{}

	wasCheckedIn := before != nil && before.CheckedIn
	if after.CheckedIn && !wasCheckedIn && after.ActiveGroupID != "" && after.ActiveGroupID != s.openGroupID {
		recipients, err := s.groupMembersExcept(ctx, after.ActiveGroupID, after.ID)
		if err != nil {
			return nil, err
		}
		err = s.fire(ctx, output, models.NotificationTypeCheckIn, PayloadContext{
			ActorID:   after.ID,
			ActorName: after.Name,
			GroupID:   after.ActiveGroupID,
			VenueName: after.VenueName,
		}, recipients)
		if err != nil {
			return nil, err
		}
	}

	// a new run starts counting from zero
	previous := 0
	if before != nil && before.RunID == after.RunID {
		previous = before.RunDrinkCount
	}

	milestone, crossed := HighestMilestoneCrossed(previous, after.RunDrinkCount, s.milestones)
	if !crossed {
		return output, nil
	}
	output.Milestone = milestone

	pc := PayloadContext{
		ActorID:   after.ID,
		ActorName: after.Name,
		GroupID:   after.ActiveGroupID,
		RunID:     after.RunID,
		Milestone: milestone,
	}
	if err := s.fire(ctx, output, models.NotificationTypeMilestoneSelf, pc, []string{after.ID}); err != nil {
		return nil, err
	}

	if after.ActiveGroupID == "" {
		return output, nil
	}
	recipients, err := s.groupMembersExcept(ctx, after.ActiveGroupID, after.ID)
	if err != nil {
		return nil, err
	}
	if err := s.fire(ctx, output, models.NotificationTypeMilestoneGroup, pc, recipients); err != nil {
		return nil, err
	}

	return output, nil
}

// OnChallengeChanged notifies the receiver of a new dare and the sender of
// its outcome
func (s *service) OnChallengeChanged(ctx context.Context, change *models.ChallengeChange) (*TriggerOutput, error) {
	if change == nil || change.After == nil {
		return nil, ErrNilInput
	}

	after := change.After
	output := &TriggerOutput{}

	var (
		notificationType models.NotificationType
		actorID          string
		recipient        string
	)
	switch {
	case change.Before == nil:
		notificationType = models.NotificationTypeChallengeReceived
		actorID, recipient = after.SenderID, after.ReceiverID
	case !change.Before.Status.IsTerminal() && after.Status == models.ChallengeStatusCompleted:
		notificationType = models.NotificationTypeChallengeCompleted
		actorID, recipient = after.ReceiverID, after.SenderID
	case !change.Before.Status.IsTerminal() && after.Status.IsFailure():
		notificationType = models.NotificationTypeChallengeFailed
		actorID, recipient = after.ReceiverID, after.SenderID
	default:
		return output, nil
	}

	err := s.fire(ctx, output, notificationType, PayloadContext{
		ActorID:     actorID,
		ActorName:   s.memberName(ctx, actorID),
		GroupID:     after.GroupID,
		ChallengeID: after.ID,
	}, []string{recipient})
	if err != nil {
		return nil, err
	}

	return output, nil
}

func (s *service) fire(ctx context.Context, output *TriggerOutput, notificationType models.NotificationType, pc PayloadContext, recipients []string) error {
	if len(recipients) == 0 {
		s.logger.Debug("no recipients", zap.String("type", string(notificationType)))
		return nil
	}

	stats, err := s.Deliver(ctx, &DeliverInput{
		Recipients: recipients,
		Payload:    BuildPayload(notificationType, pc),
	})
	if err != nil {
		return fmt.Errorf("failed to deliver %s: %w", notificationType, err)
	}

	output.Fired = append(output.Fired, notificationType)
	output.Stats.Add(stats)
	return nil
}
