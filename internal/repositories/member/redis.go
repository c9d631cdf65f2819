package member

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/KirkDiggler/barcrew/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	memberKeyPrefix       = "member:"
	groupKeyPrefix        = "group:"
	groupMembersKeyPrefix = "group_members:"
	checkedInKey          = "checked_in_members"

	// changesChannel carries every member write to the trigger worker
	changesChannel = "member_changes"

	maxUpdateAttempts = 5
)

var (
	// ErrMemberNotFound is returned when a member is not found
	ErrMemberNotFound = apperr.NotFound("member not found")

	// ErrGroupNotFound is returned when a group is not found
	ErrGroupNotFound = apperr.NotFound("group not found")

	// ErrUpdateContention is returned when a member kept changing under an update
	ErrUpdateContention = apperr.LockConflict("member changed too often, try again")
)

// Config holds configuration for the Redis member repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed member repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// mutateFunc returns the member to write, or nil to leave it as is. current
// is nil when the member does not exist yet.
type mutateFunc func(current *models.Member) (*models.Member, error)

// modify runs a read-modify-write on one member under WATCH and publishes
// the change. Without create, a missing member is ErrMemberNotFound.
func (r *redisRepository) modify(ctx context.Context, memberID string, create bool, mutate mutateFunc) (*models.MemberChange, error) {
	key := memberKeyPrefix + memberID
	var change *models.MemberChange

	txf := func(tx *redis.Tx) error {
		var before, current *models.Member

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == redis.Nil:
			if !create {
				return ErrMemberNotFound
			}
		case err != nil:
			return fmt.Errorf("failed to get member: %w", err)
		default:
			before, current = &models.Member{}, &models.Member{}
			if err := json.Unmarshal(data, before); err != nil {
				return fmt.Errorf("failed to unmarshal member: %w", err)
			}
			if err := json.Unmarshal(data, current); err != nil {
				return fmt.Errorf("failed to unmarshal member: %w", err)
			}
		}

		after, err := mutate(current)
		if err != nil {
			return err
		}
		if after == nil {
			change = &models.MemberChange{Before: before, After: current}
			return nil
		}

		afterJSON, err := json.Marshal(after)
		if err != nil {
			return fmt.Errorf("failed to marshal member: %w", err)
		}
		changeJSON, err := json.Marshal(&models.MemberChange{Before: before, After: after})
		if err != nil {
			return fmt.Errorf("failed to marshal member change: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, afterJSON, 0)

			// Keep the group membership index in step with the active group
			if before != nil && before.ActiveGroupID != "" && before.ActiveGroupID != after.ActiveGroupID {
				pipe.SRem(ctx, groupMembersKeyPrefix+before.ActiveGroupID, after.ID)
			}
			if after.ActiveGroupID != "" {
				pipe.SAdd(ctx, groupMembersKeyPrefix+after.ActiveGroupID, after.ID)
			}

			if after.CheckedIn {
				pipe.SAdd(ctx, checkedInKey, after.ID)
			} else {
				pipe.SRem(ctx, checkedInKey, after.ID)
			}

			pipe.Publish(ctx, changesChannel, changeJSON)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to save member: %w", err)
		}

		change = &models.MemberChange{Before: before, After: after}
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return change, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, ErrUpdateContention
}

// SaveMember persists a member to Redis, creating it if needed
func (r *redisRepository) SaveMember(ctx context.Context, input *SaveMemberInput) error {
	if input == nil || input.Member == nil {
		return apperr.Validation("input and member cannot be nil")
	}
	if input.Member.ID == "" {
		return apperr.Validation("member ID cannot be empty")
	}

	member := *input.Member
	_, err := r.modify(ctx, member.ID, true, func(current *models.Member) (*models.Member, error) {
		return &member, nil
	})
	return err
}

// GetMember retrieves a member by ID from Redis
func (r *redisRepository) GetMember(ctx context.Context, input *GetMemberInput) (*models.Member, error) {
	if input == nil || input.MemberID == "" {
		return nil, apperr.Validation("input and member ID cannot be empty")
	}

	memberJSON, err := r.client.Get(ctx, memberKeyPrefix+input.MemberID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	var member models.Member
	if err := json.Unmarshal(memberJSON, &member); err != nil {
		return nil, fmt.Errorf("failed to unmarshal member: %w", err)
	}

	return &member, nil
}

// SetCheckIn sets or clears the check-in flag. Checking in again while
// already checked in keeps the original check-in time.
func (r *redisRepository) SetCheckIn(ctx context.Context, input *SetCheckInInput) (*models.MemberChange, error) {
	if input == nil || input.MemberID == "" {
		return nil, apperr.Validation("input and member ID cannot be empty")
	}
	if input.CheckedIn && input.At.IsZero() {
		return nil, apperr.Validation("check-in time cannot be empty")
	}

	return r.modify(ctx, input.MemberID, false, func(current *models.Member) (*models.Member, error) {
		if input.CheckedIn {
			if !current.CheckedIn {
				at := input.At
				current.CheckedInAt = &at
			}
			current.CheckedIn = true
			current.VenueName = input.VenueName
			return current, nil
		}

		if !current.CheckedIn {
			return nil, nil
		}
		current.CheckedIn = false
		current.VenueName = ""
		return current, nil
	})
}

// SetRunDrinkCount records the drink count of the member's current run
func (r *redisRepository) SetRunDrinkCount(ctx context.Context, input *SetRunDrinkCountInput) (*models.MemberChange, error) {
	if input == nil || input.MemberID == "" {
		return nil, apperr.Validation("input and member ID cannot be empty")
	}
	if input.Count < 0 {
		return nil, apperr.Validation("drink count cannot be negative")
	}

	return r.modify(ctx, input.MemberID, false, func(current *models.Member) (*models.Member, error) {
		if current.RunID == input.RunID && current.RunDrinkCount == input.Count {
			return nil, nil
		}
		current.RunID = input.RunID
		current.RunDrinkCount = input.Count
		return current, nil
	})
}

// MarkReminded records when the member was last sent an idle reminder
func (r *redisRepository) MarkReminded(ctx context.Context, input *MarkRemindedInput) error {
	if input == nil || input.MemberID == "" || input.At.IsZero() {
		return apperr.Validation("member ID and reminder time cannot be empty")
	}

	_, err := r.modify(ctx, input.MemberID, false, func(current *models.Member) (*models.Member, error) {
		at := input.At
		current.LastReminderAt = &at
		return current, nil
	})
	return err
}

// ListCheckedIn retrieves every member who is currently checked in
func (r *redisRepository) ListCheckedIn(ctx context.Context) (*ListMembersOutput, error) {
	memberIDs, err := r.client.SMembers(ctx, checkedInKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get checked in member IDs: %w", err)
	}

	if len(memberIDs) == 0 {
		return &ListMembersOutput{Members: []*models.Member{}}, nil
	}

	// Get all member records using a pipeline
	pipe := r.client.Pipeline()
	memberCommands := make(map[string]*redis.StringCmd, len(memberIDs))
	for _, memberID := range memberIDs {
		memberCommands[memberID] = pipe.Get(ctx, memberKeyPrefix+memberID)
	}

	// redis.Nil for a deleted member is expected here
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}

	members := make([]*models.Member, 0, len(memberIDs))
	for memberID, cmd := range memberCommands {
		memberJSON, err := cmd.Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get member %s: %w", memberID, err)
		}

		var member models.Member
		if err := json.Unmarshal(memberJSON, &member); err != nil {
			return nil, fmt.Errorf("failed to unmarshal member %s: %w", memberID, err)
		}
		if member.CheckedIn {
			members = append(members, &member)
		}
	}

	return &ListMembersOutput{Members: members}, nil
}

// SaveGroup persists a group to Redis
func (r *redisRepository) SaveGroup(ctx context.Context, input *SaveGroupInput) error {
	if input == nil || input.Group == nil || input.Group.ID == "" {
		return apperr.Validation("input and group ID cannot be empty")
	}

	groupJSON, err := json.Marshal(input.Group)
	if err != nil {
		return fmt.Errorf("failed to marshal group: %w", err)
	}

	if err := r.client.Set(ctx, groupKeyPrefix+input.Group.ID, groupJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID from Redis
func (r *redisRepository) GetGroup(ctx context.Context, input *GetGroupInput) (*models.Group, error) {
	if input == nil || input.GroupID == "" {
		return nil, apperr.Validation("input and group ID cannot be empty")
	}

	groupJSON, err := r.client.Get(ctx, groupKeyPrefix+input.GroupID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	var group models.Group
	if err := json.Unmarshal(groupJSON, &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}

	return &group, nil
}

// ListGroupMemberIDs retrieves the IDs of a group's members
func (r *redisRepository) ListGroupMemberIDs(ctx context.Context, input *ListGroupMemberIDsInput) ([]string, error) {
	if input == nil || input.GroupID == "" {
		return nil, apperr.Validation("input and group ID cannot be empty")
	}

	memberIDs, err := r.client.SMembers(ctx, groupMembersKeyPrefix+input.GroupID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}

	return memberIDs, nil
}

// SubscribeChanges streams member changes until ctx is done
func (r *redisRepository) SubscribeChanges(ctx context.Context) (<-chan *models.MemberChange, error) {
	pubsub := r.client.Subscribe(ctx, changesChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to member changes: %w", err)
	}

	out := make(chan *models.MemberChange, 16)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var change models.MemberChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					continue
				}
				select {
				case out <- &change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
