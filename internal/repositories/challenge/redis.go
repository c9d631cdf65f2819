package challenge

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
	challengeKeyPrefix = "challenge:"
	sentKeyPrefix      = "challenges_sent:"
	receivedKeyPrefix  = "challenges_received:"
	lockKeyPrefix      = "receiver_lock:"
	openChallengesKey  = "challenges_open"

	// Pub/sub channels
	userChannelPrefix = "challenge_updates:"
	changesChannel    = "challenge_changes"

	// maxUpdateAttempts bounds the optimistic-lock retry loop
	maxUpdateAttempts = 5
)

var (
	// ErrChallengeNotFound is returned when a challenge is not found
	ErrChallengeNotFound = apperr.NotFound("challenge not found")

	// ErrReceiverLocked is returned when the receiver already has an open challenge
	ErrReceiverLocked = apperr.LockConflict("receiver already has an active challenge")

	// ErrUpdateContention is returned when a challenge kept changing under an update
	ErrUpdateContention = apperr.LockConflict("challenge changed too often, try again")
)

// releaseLockScript deletes the lock only if the given challenge holds it
var releaseLockScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// Config holds configuration for the Redis challenge repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed challenge repository
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

// CreateChallenge stores a new challenge. The receiver lock is taken first;
// if another challenge holds it nothing is written.
func (r *redisRepository) CreateChallenge(ctx context.Context, input *CreateChallengeInput) error {
	if input == nil || input.Challenge == nil {
		return apperr.Validation("input and challenge cannot be nil")
	}

	challenge := input.Challenge
	if challenge.ID == "" || challenge.SenderID == "" || challenge.ReceiverID == "" {
		return apperr.Validation("challenge ID, sender and receiver cannot be empty")
	}

	lockKey := lockKeyPrefix + challenge.ReceiverID
	acquired, err := r.client.SetNX(ctx, lockKey, challenge.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire receiver lock: %w", err)
	}
	if !acquired {
		return ErrReceiverLocked
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return r.write(ctx, pipe, nil, challenge)
	})
	if err != nil {
		// Don't leave the receiver locked by a challenge that does not exist
		releaseLockScript.Run(ctx, r.client, []string{lockKey}, challenge.ID)
		return fmt.Errorf("failed to save challenge: %w", err)
	}

	return nil
}

// write queues the document, its indexes and the change notifications
func (r *redisRepository) write(ctx context.Context, pipe redis.Pipeliner, before, after *models.Challenge) error {
	challengeJSON, err := json.Marshal(after)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}
	changeJSON, err := json.Marshal(&models.ChallengeChange{Before: before, After: after})
	if err != nil {
		return fmt.Errorf("failed to marshal challenge change: %w", err)
	}

	pipe.Set(ctx, challengeKeyPrefix+after.ID, challengeJSON, 0)

	score := float64(after.CreatedAt.UnixMilli())
	pipe.ZAdd(ctx, sentKeyPrefix+after.SenderID, redis.Z{Score: score, Member: after.ID})
	pipe.ZAdd(ctx, receivedKeyPrefix+after.ReceiverID, redis.Z{Score: score, Member: after.ID})

	// Open challenges are indexed by deadline for the expiry sweep
	if after.Status.IsTerminal() {
		pipe.ZRem(ctx, openChallengesKey, after.ID)
	} else {
		pipe.ZAdd(ctx, openChallengesKey, redis.Z{
			Score:  float64(after.DeadlineAt.UnixMilli()),
			Member: after.ID,
		})
	}

	pipe.Publish(ctx, userChannelPrefix+after.SenderID, challengeJSON)
	if after.ReceiverID != after.SenderID {
		pipe.Publish(ctx, userChannelPrefix+after.ReceiverID, challengeJSON)
	}
	pipe.Publish(ctx, changesChannel, changeJSON)
	return nil
}

// GetChallenge retrieves a challenge by ID from Redis
func (r *redisRepository) GetChallenge(ctx context.Context, input *GetChallengeInput) (*models.Challenge, error) {
	if input == nil || input.ChallengeID == "" {
		return nil, apperr.Validation("input and challenge ID cannot be empty")
	}

	challengeJSON, err := r.client.Get(ctx, challengeKeyPrefix+input.ChallengeID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	var challenge models.Challenge
	if err := json.Unmarshal(challengeJSON, &challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}

	return &challenge, nil
}

// UpdateChallenge reads the challenge under WATCH, hands it to input.Update
// and writes the result only if nobody else wrote in between. Conflicting
// writers are retried with a fresh read.
func (r *redisRepository) UpdateChallenge(ctx context.Context, input *UpdateChallengeInput) (*UpdateChallengeOutput, error) {
	if input == nil || input.ChallengeID == "" || input.Update == nil {
		return nil, apperr.Validation("challenge ID and update cannot be empty")
	}

	key := challengeKeyPrefix + input.ChallengeID
	var output *UpdateChallengeOutput

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				return ErrChallengeNotFound
			}
			return fmt.Errorf("failed to get challenge: %w", err)
		}

		var before, current models.Challenge
		if err := json.Unmarshal(data, &before); err != nil {
			return fmt.Errorf("failed to unmarshal challenge: %w", err)
		}
		if err := json.Unmarshal(data, &current); err != nil {
			return fmt.Errorf("failed to unmarshal challenge: %w", err)
		}

		next, err := input.Update(&current)
		if err != nil {
			return err
		}
		if next == nil {
			output = &UpdateChallengeOutput{Challenge: &before}
			return nil
		}
		next.ID = before.ID

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return r.write(ctx, pipe, &before, next)
		})
		if err != nil {
			return err
		}

		output = &UpdateChallengeOutput{Challenge: next, Applied: true}
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return output, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, ErrUpdateContention
}

// ListChallenges retrieves a member's challenges, newest first
func (r *redisRepository) ListChallenges(ctx context.Context, input *ListChallengesInput) (*ListChallengesOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, apperr.Validation("input and user ID cannot be empty")
	}

	var indexKey string
	switch input.Role {
	case RoleSender:
		indexKey = sentKeyPrefix + input.UserID
	case RoleReceiver:
		indexKey = receivedKeyPrefix + input.UserID
	default:
		return nil, apperr.Validation(fmt.Sprintf("unknown role %q", input.Role))
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}
	ids, err := r.client.ZRevRange(ctx, indexKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	challenges, err := r.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &ListChallengesOutput{Challenges: challenges}, nil
}

// ListOverdue retrieves open challenges whose deadline is at or before input.Now
func (r *redisRepository) ListOverdue(ctx context.Context, input *ListOverdueInput) (*ListChallengesOutput, error) {
	if input == nil || input.Now.IsZero() {
		return nil, apperr.Validation("input and now cannot be empty")
	}

	ids, err := r.client.ZRangeByScore(ctx, openChallengesKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", input.Now.UnixMilli()),
		Count: int64(input.Limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue challenges: %w", err)
	}

	challenges, err := r.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &ListChallengesOutput{Challenges: challenges}, nil
}

// getMany loads challenges by ID, skipping any that no longer exist
func (r *redisRepository) getMany(ctx context.Context, ids []string) ([]*models.Challenge, error) {
	if len(ids) == 0 {
		return []*models.Challenge{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = challengeKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get challenges: %w", err)
	}

	challenges := make([]*models.Challenge, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var challenge models.Challenge
		if err := json.Unmarshal([]byte(raw), &challenge); err != nil {
			return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
		}
		challenges = append(challenges, &challenge)
	}

	return challenges, nil
}

// GetLockHolder returns the ID of the challenge locking the receiver
func (r *redisRepository) GetLockHolder(ctx context.Context, input *GetLockHolderInput) (string, error) {
	if input == nil || input.ReceiverID == "" {
		return "", apperr.Validation("input and receiver ID cannot be empty")
	}

	holder, err := r.client.Get(ctx, lockKeyPrefix+input.ReceiverID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to get receiver lock: %w", err)
	}

	return holder, nil
}

// ReleaseLock clears the receiver lock when input.ChallengeID still holds it.
// Releasing twice, or releasing a lock another challenge took since, is a no-op.
func (r *redisRepository) ReleaseLock(ctx context.Context, input *ReleaseLockInput) (*ReleaseLockOutput, error) {
	if input == nil || input.ReceiverID == "" || input.ChallengeID == "" {
		return nil, apperr.Validation("receiver ID and challenge ID cannot be empty")
	}

	deleted, err := releaseLockScript.Run(ctx, r.client,
		[]string{lockKeyPrefix + input.ReceiverID}, input.ChallengeID).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to release receiver lock: %w", err)
	}

	return &ReleaseLockOutput{Released: deleted == 1}, nil
}

// Subscribe streams challenge writes for one member until ctx is done
func (r *redisRepository) Subscribe(ctx context.Context, input *SubscribeInput) (<-chan *models.Challenge, error) {
	if input == nil || input.UserID == "" {
		return nil, apperr.Validation("input and user ID cannot be empty")
	}

	pubsub := r.client.Subscribe(ctx, userChannelPrefix+input.UserID)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to challenges: %w", err)
	}

	out := make(chan *models.Challenge, 16)
	go forward(ctx, pubsub, out)
	return out, nil
}

// SubscribeChanges streams challenge changes until ctx is done
func (r *redisRepository) SubscribeChanges(ctx context.Context) (<-chan *models.ChallengeChange, error) {
	pubsub := r.client.Subscribe(ctx, changesChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to challenge changes: %w", err)
	}

	out := make(chan *models.ChallengeChange, 16)
	go forward(ctx, pubsub, out)
	return out, nil
}

// forward decodes pub/sub payloads into out and closes it when ctx is done
// or the subscription ends. Undecodable payloads are dropped.
func forward[T any](ctx context.Context, pubsub *redis.PubSub, out chan<- *T) {
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
			var value T
			if err := json.Unmarshal([]byte(msg.Payload), &value); err != nil {
				continue
			}
			select {
			case out <- &value:
			case <-ctx.Done():
				return
			}
		}
	}
}
