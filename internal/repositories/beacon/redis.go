package beacon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/KirkDiggler/barcrew/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	beaconKeyPrefix = "beacon:"

	// groupKeyPrefix holds a zset of beacon IDs scored by expiry
	groupKeyPrefix = "group_beacons:"
)

// Config holds configuration for the Redis beacon repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed beacon repository
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

// Save persists a beacon with a TTL matching its expiry
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Beacon == nil {
		return apperr.Validation("input and beacon cannot be nil")
	}
	beacon := input.Beacon
	if beacon.ID == "" || beacon.GroupID == "" {
		return apperr.Validation("beacon ID and group ID cannot be empty")
	}

	ttl := beacon.ExpiresAt.Sub(input.Now)
	if ttl <= 0 {
		return apperr.Validation("beacon must expire in the future")
	}

	beaconJSON, err := json.Marshal(beacon)
	if err != nil {
		return fmt.Errorf("failed to marshal beacon: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, beaconKeyPrefix+beacon.ID, beaconJSON, ttl)
		pipe.ZAdd(ctx, groupKeyPrefix+beacon.GroupID, redis.Z{
			Score:  float64(beacon.ExpiresAt.UnixMilli()),
			Member: beacon.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save beacon: %w", err)
	}

	return nil
}

// ListActive retrieves a group's unexpired beacons and drops expired entries
// from the group index on the way
func (r *redisRepository) ListActive(ctx context.Context, input *ListActiveInput) (*ListActiveOutput, error) {
	if input == nil || input.GroupID == "" {
		return nil, apperr.Validation("input and group ID cannot be empty")
	}

	groupKey := groupKeyPrefix + input.GroupID
	nowMillis := strconv.FormatInt(input.Now.UnixMilli(), 10)

	if err := r.client.ZRemRangeByScore(ctx, groupKey, "-inf", nowMillis).Err(); err != nil {
		return nil, fmt.Errorf("failed to drop expired beacons: %w", err)
	}

	ids, err := r.client.ZRangeByScore(ctx, groupKey, &redis.ZRangeBy{
		Min: "(" + nowMillis,
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list beacons: %w", err)
	}

	output := &ListActiveOutput{Beacons: []*models.Beacon{}}
	if len(ids) == 0 {
		return output, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = beaconKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get beacons: %w", err)
	}

	for _, value := range values {
		data, ok := value.(string)
		if !ok {
			continue
		}
		var beacon models.Beacon
		if err := json.Unmarshal([]byte(data), &beacon); err != nil {
			continue
		}
		output.Beacons = append(output.Beacons, &beacon)
	}

	return output, nil
}

// Delete removes a beacon
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) error {
	if input == nil || input.GroupID == "" || input.BeaconID == "" {
		return apperr.Validation("group ID and beacon ID cannot be empty")
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, beaconKeyPrefix+input.BeaconID)
		pipe.ZRem(ctx, groupKeyPrefix+input.GroupID, input.BeaconID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete beacon: %w", err)
	}

	return nil
}
