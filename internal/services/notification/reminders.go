package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
	memberRepo "github.com/KirkDiggler/barcrew/internal/repositories/member"
	"go.uber.org/zap"
)

// inReminderWindow reports whether t falls inside the daily reminder hours
func (s *service) inReminderWindow(t time.Time) bool {
	hour := t.In(s.boundary.Location()).Hour()
	return hour >= s.reminderWindowStart && hour < s.reminderWindowEnd
}

// SweepIdleReminders sends at most one reminder per member per interval.
// The interval is measured from the later of the check-in and the previous
// reminder, so a long session gets a steady cadence instead of a storm.
func (s *service) SweepIdleReminders(ctx context.Context) (*SweepOutput, error) {
	now := s.clock.Now()
	output := &SweepOutput{}

	if !s.inReminderWindow(now) {
		output.OutsideWindow = true
		return output, nil
	}

	checkedIn, err := s.memberRepo.ListCheckedIn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checked in members: %w", err)
	}

	for _, member := range checkedIn.Members {
		if err := ctx.Err(); err != nil {
			return output, err
		}
		output.Scanned++

		if member.ActiveGroupID == s.openGroupID {
			continue
		}
		if anchor := reminderAnchor(member); !anchor.IsZero() && now.Sub(anchor) < s.reminderInterval {
			continue
		}

		stats, err := s.Deliver(ctx, &DeliverInput{
			Recipients: []string{member.ID},
			Payload: BuildPayload(models.NotificationTypeIdleReminder, PayloadContext{
				ActorID: member.ID,
				GroupID: member.ActiveGroupID,
				RunID:   member.RunID,
			}),
		})
		if err != nil {
			s.logger.Warn("idle reminder failed", zap.String("member", member.ID), zap.Error(err))
			continue
		}
		output.Stats.Add(stats)
		output.Reminded++

		err = s.memberRepo.MarkReminded(ctx, &memberRepo.MarkRemindedInput{MemberID: member.ID, At: now})
		if err != nil {
			s.logger.Warn("failed to record reminder", zap.String("member", member.ID), zap.Error(err))
		}
	}

	return output, nil
}

func reminderAnchor(member *models.Member) time.Time {
	var anchor time.Time
	if member.CheckedInAt != nil {
		anchor = *member.CheckedInAt
	}
	if member.LastReminderAt != nil && member.LastReminderAt.After(anchor) {
		anchor = *member.LastReminderAt
	}
	return anchor
}
