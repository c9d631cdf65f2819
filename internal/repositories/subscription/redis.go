package subscription

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/KirkDiggler/barcrew/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// userKeyPrefix holds a hash of subscription ID -> subscription per member
	userKeyPrefix = "push_subs:"

	// ownerKeyPrefix maps a subscription ID to the member it belongs to
	ownerKeyPrefix = "push_sub_owner:"

	maxTouchAttempts = 3
)

// ErrTouchContention is returned when the subscription kept changing under Touch
var ErrTouchContention = apperr.LockConflict("subscription changed during touch")

// Config holds configuration for the Redis subscription repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

type redisRepository struct {
	client *redis.Client

	// beforeTouchWrite runs between Touch's read and write
	beforeTouchWrite func()
}

// NewRedis creates a new Redis-backed subscription registry
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SubscriptionID derives the stable subscription ID of an endpoint
func SubscriptionID(endpoint string) string {
	sum := sha256.Sum256([]byte(endpoint))
	return hex.EncodeToString(sum[:])
}

// Upsert registers the endpoint. A known endpoint keeps its creation time
// and moves to the new member if it changed hands on a shared device.
func (r *redisRepository) Upsert(ctx context.Context, input *UpsertInput) (*models.PushSubscription, error) {
	if input == nil || input.UserID == "" || input.Endpoint == "" {
		return nil, apperr.Validation("user ID and endpoint cannot be empty")
	}
	if input.Keys.P256dh == "" || input.Keys.Auth == "" {
		return nil, apperr.Validation("subscription keys cannot be empty")
	}

	id := SubscriptionID(input.Endpoint)
	ownerKey := ownerKeyPrefix + id

	previousOwner, err := r.client.Get(ctx, ownerKey).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get subscription owner: %w", err)
	}

	subscription := &models.PushSubscription{
		ID:        id,
		UserID:    input.UserID,
		Endpoint:  input.Endpoint,
		Keys:      input.Keys,
		UserAgent: input.UserAgent,
		CreatedAt: input.At,
		UpdatedAt: input.At,
	}

	if previousOwner == input.UserID {
		existing, err := r.get(ctx, input.UserID, id)
		if err != nil {
			return nil, err
		}
		if existing != nil && !existing.CreatedAt.IsZero() {
			subscription.CreatedAt = existing.CreatedAt
			subscription.LastSuccessAt = existing.LastSuccessAt
		}
	}

	subscriptionJSON, err := json.Marshal(subscription)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal subscription: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previousOwner != "" && previousOwner != input.UserID {
			pipe.HDel(ctx, userKeyPrefix+previousOwner, id)
		}
		pipe.HSet(ctx, userKeyPrefix+input.UserID, id, subscriptionJSON)
		pipe.Set(ctx, ownerKey, input.UserID, 0)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	return subscription, nil
}

func (r *redisRepository) get(ctx context.Context, userID, id string) (*models.PushSubscription, error) {
	data, err := r.client.HGet(ctx, userKeyPrefix+userID, id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	var subscription models.PushSubscription
	if err := json.Unmarshal(data, &subscription); err != nil {
		return nil, nil
	}
	return &subscription, nil
}

// ListForUser retrieves every subscription of a member. A record that
// cannot be decoded comes back with only its ID set, so the caller sees it
// has no key material and prunes it.
func (r *redisRepository) ListForUser(ctx context.Context, input *ListForUserInput) ([]*models.PushSubscription, error) {
	if input == nil || input.UserID == "" {
		return nil, apperr.Validation("input and user ID cannot be empty")
	}

	records, err := r.client.HGetAll(ctx, userKeyPrefix+input.UserID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subscriptions := make([]*models.PushSubscription, 0, len(records))
	for id, data := range records {
		var subscription models.PushSubscription
		if err := json.Unmarshal([]byte(data), &subscription); err != nil {
			subscription = models.PushSubscription{}
		}
		subscription.ID = id
		subscription.UserID = input.UserID
		subscriptions = append(subscriptions, &subscription)
	}

	return subscriptions, nil
}

// Delete removes one subscription
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) error {
	if input == nil || input.UserID == "" || input.SubscriptionID == "" {
		return apperr.Validation("user ID and subscription ID cannot be empty")
	}

	ownerKey := ownerKeyPrefix + input.SubscriptionID
	owner, err := r.client.Get(ctx, ownerKey).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to get subscription owner: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, userKeyPrefix+input.UserID, input.SubscriptionID)
		if owner == input.UserID {
			pipe.Del(ctx, ownerKey)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	return nil
}

// Touch records a successful delivery. Only LastSuccessAt changes, and the
// write is dropped when the subscription was deleted or moved meanwhile.
func (r *redisRepository) Touch(ctx context.Context, input *TouchInput) error {
	if input == nil || input.UserID == "" || input.SubscriptionID == "" {
		return apperr.Validation("user ID and subscription ID cannot be empty")
	}

	key := userKeyPrefix + input.UserID
	txf := func(tx *redis.Tx) error {
		data, err := tx.HGet(ctx, key, input.SubscriptionID).Bytes()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get subscription: %w", err)
		}

		var existing models.PushSubscription
		if err := json.Unmarshal(data, &existing); err != nil {
			return nil
		}

		if r.beforeTouchWrite != nil {
			r.beforeTouchWrite()
		}

		at := input.At
		existing.LastSuccessAt = &at
		subscriptionJSON, err := json.Marshal(&existing)
		if err != nil {
			return fmt.Errorf("failed to marshal subscription: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, input.SubscriptionID, subscriptionJSON)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTouchAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("failed to touch subscription: %w", err)
	}

	return ErrTouchContention
}

// Revoke removes the subscription of an endpoint
func (r *redisRepository) Revoke(ctx context.Context, input *RevokeInput) error {
	if input == nil || input.UserID == "" || input.Endpoint == "" {
		return apperr.Validation("user ID and endpoint cannot be empty")
	}

	return r.Delete(ctx, &DeleteInput{
		UserID:         input.UserID,
		SubscriptionID: SubscriptionID(input.Endpoint),
	})
}
