package notification

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/barcrew/internal/models"
	memberRepo "github.com/KirkDiggler/barcrew/internal/repositories/member"
	"go.uber.org/zap"
)

func groupCacheKey(groupID string) string {
	return "group_members:" + groupID
}

// groupMembers returns the member IDs of a group through the cache
func (s *service) groupMembers(ctx context.Context, groupID string) ([]string, error) {
	if ids, err := s.groupCache.Get(groupCacheKey(groupID)); err == nil {
		return ids, nil
	}

	ids, err := s.memberRepo.ListGroupMemberIDs(ctx, &memberRepo.ListGroupMemberIDsInput{GroupID: groupID})
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}

	s.groupCache.Set(groupCacheKey(groupID), ids, s.groupCacheTTL)
	return ids, nil
}

// groupMembersExcept returns the group minus the given members
func (s *service) groupMembersExcept(ctx context.Context, groupID string, exclude ...string) ([]string, error) {
	ids, err := s.groupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		skip := false
		for _, ex := range exclude {
			if id == ex {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, id)
		}
	}
	return out, nil
}

// invalidateMembership drops cached member lists touched by a group move
func (s *service) invalidateMembership(change *models.MemberChange) {
	if change.After == nil {
		return
	}
	if change.Before != nil && change.Before.ActiveGroupID == change.After.ActiveGroupID {
		return
	}
	if change.Before != nil && change.Before.ActiveGroupID != "" {
		s.groupCache.Delete(groupCacheKey(change.Before.ActiveGroupID))
	}
	if change.After.ActiveGroupID != "" {
		s.groupCache.Delete(groupCacheKey(change.After.ActiveGroupID))
	}
}

// memberName looks up a display name, returning "" when unknown
func (s *service) memberName(ctx context.Context, memberID string) string {
	if memberID == "" {
		return ""
	}
	member, err := s.memberRepo.GetMember(ctx, &memberRepo.GetMemberInput{MemberID: memberID})
	if err != nil {
		s.logger.Debug("member lookup failed", zap.String("member", memberID), zap.Error(err))
		return ""
	}
	return member.Name
}

// group looks up a group, returning nil when unknown
func (s *service) group(ctx context.Context, groupID string) *models.Group {
	if groupID == "" {
		return nil
	}
	group, err := s.memberRepo.GetGroup(ctx, &memberRepo.GetGroupInput{GroupID: groupID})
	if err != nil {
		s.logger.Debug("group lookup failed", zap.String("group", groupID), zap.Error(err))
		return nil
	}
	return group
}
