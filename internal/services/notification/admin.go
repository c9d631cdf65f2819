package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/barcrew/internal/models"
	beaconRepo "github.com/KirkDiggler/barcrew/internal/repositories/beacon"
	"go.uber.org/zap"
)

// Broadcast sends an announcement to every member of a group
func (s *service) Broadcast(ctx context.Context, input *BroadcastInput) (*Stats, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.GroupID == "" {
		return nil, ErrMissingGroupID
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrMissingTitle
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, ErrMissingBody
	}

	recipients, err := s.groupMembers(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	payload := BuildPayload(models.NotificationTypeBroadcast, PayloadContext{
		ActorID: input.SenderID,
		GroupID: input.GroupID,
		Title:   input.Title,
		Body:    input.Body,
		URL:     input.URL,
	})

	stats, err := s.Deliver(ctx, &DeliverInput{Recipients: recipients, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to deliver broadcast: %w", err)
	}

	s.announce(ctx, input.GroupID, payload)
	return stats, nil
}

// CreateBeacon stores a beacon and notifies the group
func (s *service) CreateBeacon(ctx context.Context, input *CreateBeaconInput) (*CreateBeaconOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.GroupID == "" {
		return nil, ErrMissingGroupID
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrMissingTitle
	}
	if input.Latitude < -90 || input.Latitude > 90 || input.Longitude < -180 || input.Longitude > 180 {
		return nil, ErrInvalidCoordinate
	}

	duration := input.Duration
	if duration == 0 {
		duration = DefaultBeaconDuration
	}
	if duration < 0 || duration > MaxBeaconDuration {
		return nil, ErrInvalidDuration
	}

	now := s.clock.Now()
	beacon := &models.Beacon{
		ID:        s.uuid.NewUUID(),
		GroupID:   input.GroupID,
		CreatedBy: input.CreatedBy,
		Title:     input.Title,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}

	if err := s.beaconRepo.Save(ctx, &beaconRepo.SaveInput{Beacon: beacon, Now: now}); err != nil {
		return nil, fmt.Errorf("failed to save beacon: %w", err)
	}

	recipients, err := s.groupMembersExcept(ctx, input.GroupID, input.CreatedBy)
	if err != nil {
		return nil, err
	}

	actorName := s.memberName(ctx, input.CreatedBy)
	payload := BuildPayload(models.NotificationTypeBeacon, PayloadContext{
		ActorID:   input.CreatedBy,
		ActorName: actorName,
		GroupID:   input.GroupID,
		Title:     input.Title,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	})

	stats, err := s.Deliver(ctx, &DeliverInput{Recipients: recipients, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to deliver beacon: %w", err)
	}

	s.announce(ctx, input.GroupID, payload)
	return &CreateBeaconOutput{Beacon: beacon, Stats: *stats}, nil
}

// announce mirrors a payload when the group has somewhere to mirror to
func (s *service) announce(ctx context.Context, groupID string, payload Payload) {
	if s.announcer == nil {
		return
	}
	group := s.group(ctx, groupID)
	if group == nil {
		return
	}
	if err := s.announcer.Announce(ctx, group, payload); err != nil {
		s.logger.Warn("failed to mirror announcement", zap.String("group", groupID), zap.Error(err))
	}
}
