package reward

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/KirkDiggler/barcrew/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	grantKeyPrefix = "reward_grant:"

	// grantRetention outlives the window a grant belongs to
	grantRetention = 48 * time.Hour
)

// ErrGrantNotFound is returned when no grant exists for the window
var ErrGrantNotFound = apperr.NotFound("reward grant not found")

// Config holds configuration for the Redis reward repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed reward repository
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

func grantKey(userID string, windowStart time.Time) string {
	return fmt.Sprintf("%s%s:%d", grantKeyPrefix, userID, windowStart.Unix())
}

// Grant stores the grant unless the member already has one for the window
func (r *redisRepository) Grant(ctx context.Context, input *GrantInput) (*GrantOutput, error) {
	if input == nil || input.Grant == nil || input.Grant.UserID == "" || input.Grant.WindowStart.IsZero() {
		return nil, apperr.Validation("user ID and window start cannot be empty")
	}

	grantJSON, err := json.Marshal(input.Grant)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grant: %w", err)
	}

	granted, err := r.client.SetNX(ctx, grantKey(input.Grant.UserID, input.Grant.WindowStart), grantJSON, grantRetention).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to save grant: %w", err)
	}

	return &GrantOutput{Granted: granted}, nil
}

// GetGrant retrieves the grant for a member's window
func (r *redisRepository) GetGrant(ctx context.Context, input *GetGrantInput) (*models.RewardGrant, error) {
	if input == nil || input.UserID == "" || input.WindowStart.IsZero() {
		return nil, apperr.Validation("user ID and window start cannot be empty")
	}

	grantJSON, err := r.client.Get(ctx, grantKey(input.UserID, input.WindowStart)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGrantNotFound
		}
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}

	var grant models.RewardGrant
	if err := json.Unmarshal(grantJSON, &grant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grant: %w", err)
	}

	return &grant, nil
}
