package feed

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
	// DefaultListLimit is the page size when none is requested
	DefaultListLimit = 50

	itemKeyPrefix = "feed_item:"
	userKeyPrefix = "feed:"

	// indexKey orders every item of every member by creation time
	indexKey = "feed_index"

	purgeBatch = 500
)

// Config holds configuration for the Redis feed repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed feed repository
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

// Append adds an item to its member's feed
func (r *redisRepository) Append(ctx context.Context, input *AppendInput) error {
	if input == nil || input.Item == nil {
		return apperr.Validation("input and item cannot be nil")
	}
	item := input.Item
	if item.ID == "" || item.UserID == "" {
		return apperr.Validation("item ID and user ID cannot be empty")
	}

	itemJSON, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal feed item: %w", err)
	}

	score := float64(item.CreatedAt.UnixMilli())
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, itemKeyPrefix+item.ID, itemJSON, 0)
		pipe.ZAdd(ctx, userKeyPrefix+item.UserID, redis.Z{Score: score, Member: item.ID})
		pipe.ZAdd(ctx, indexKey, redis.Z{Score: score, Member: item.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append feed item: %w", err)
	}

	return nil
}

// List retrieves a member's feed, newest first
func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, apperr.Validation("input and user ID cannot be empty")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	ids, err := r.client.ZRevRange(ctx, userKeyPrefix+input.UserID, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}

	items, err := r.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	output := &ListOutput{Items: items}
	for _, item := range items {
		if !item.Read {
			output.Unread++
		}
	}

	return output, nil
}

func (r *redisRepository) getMany(ctx context.Context, ids []string) ([]*models.NotificationFeedItem, error) {
	if len(ids) == 0 {
		return []*models.NotificationFeedItem{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = itemKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get feed items: %w", err)
	}

	items := make([]*models.NotificationFeedItem, 0, len(values))
	for _, value := range values {
		data, ok := value.(string)
		if !ok {
			continue
		}
		var item models.NotificationFeedItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			continue
		}
		items = append(items, &item)
	}

	return items, nil
}

// MarkRead flags items as read
func (r *redisRepository) MarkRead(ctx context.Context, input *MarkReadInput) (*MarkReadOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, apperr.Validation("input and user ID cannot be empty")
	}

	ids := input.ItemIDs
	if len(ids) == 0 {
		var err error
		ids, err = r.client.ZRange(ctx, userKeyPrefix+input.UserID, 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list feed: %w", err)
		}
	}

	items, err := r.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	output := &MarkReadOutput{}
	pipe := r.client.TxPipeline()
	for _, item := range items {
		// items of other members are not ours to flag
		if item.UserID != input.UserID || item.Read {
			continue
		}
		item.Read = true
		itemJSON, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal feed item: %w", err)
		}
		pipe.Set(ctx, itemKeyPrefix+item.ID, itemJSON, redis.KeepTTL)
		output.Marked++
	}

	if output.Marked == 0 {
		return output, nil
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to mark feed items read: %w", err)
	}

	return output, nil
}

// PurgeOlderThan deletes every item created before the cutoff
func (r *redisRepository) PurgeOlderThan(ctx context.Context, input *PurgeOlderThanInput) (*PurgeOlderThanOutput, error) {
	if input == nil || input.Before.IsZero() {
		return nil, apperr.Validation("cutoff cannot be empty")
	}

	cutoff := "(" + strconv.FormatInt(input.Before.UnixMilli(), 10)
	output := &PurgeOlderThanOutput{}

	for {
		ids, err := r.client.ZRangeByScore(ctx, indexKey, &redis.ZRangeBy{
			Min:   "-inf",
			Max:   cutoff,
			Count: purgeBatch,
		}).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to find stale feed items: %w", err)
		}
		if len(ids) == 0 {
			return output, nil
		}

		items, err := r.getMany(ctx, ids)
		if err != nil {
			return nil, err
		}

		_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, item := range items {
				pipe.ZRem(ctx, userKeyPrefix+item.UserID, item.ID)
			}
			for _, id := range ids {
				pipe.Del(ctx, itemKeyPrefix+id)
				pipe.ZRem(ctx, indexKey, id)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to purge feed items: %w", err)
		}

		output.Deleted += len(items)
		if len(ids) < purgeBatch {
			return output, nil
		}
	}
}
