package message

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
	DefaultListLimit = 100

	// MaxTextLength bounds a single message
	MaxTextLength = 1000

	messageKeyPrefix = "message:"
	groupKeyPrefix   = "group_messages:"
	indexKey         = "messages_index"

	// createdChannel carries every saved message as JSON
	createdChannel = "message_created"

	purgeBatch = 500
)

// Config holds configuration for the Redis message repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed message repository
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

// Save persists a message and publishes it
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Message == nil {
		return apperr.Validation("input and message cannot be nil")
	}
	message := input.Message
	if message.ID == "" || message.GroupID == "" || message.AuthorID == "" {
		return apperr.Validation("message ID, group ID and author ID cannot be empty")
	}
	if message.Text == "" {
		return apperr.Validation("message text cannot be empty")
	}
	if len(message.Text) > MaxTextLength {
		return apperr.Validation(fmt.Sprintf("message text cannot exceed %d bytes", MaxTextLength))
	}

	messageJSON, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	score := float64(message.CreatedAt.UnixMilli())
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, messageKeyPrefix+message.ID, messageJSON, 0)
		pipe.ZAdd(ctx, groupKeyPrefix+message.GroupID, redis.Z{Score: score, Member: message.ID})
		pipe.ZAdd(ctx, indexKey, redis.Z{Score: score, Member: message.ID})
		pipe.Publish(ctx, createdChannel, messageJSON)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	return nil
}

// List retrieves the latest messages of a group
func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil || input.GroupID == "" {
		return nil, apperr.Validation("input and group ID cannot be empty")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	ids, err := r.client.ZRevRange(ctx, groupKeyPrefix+input.GroupID, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages, err := r.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Messages: messages}, nil
}

func (r *redisRepository) getMany(ctx context.Context, ids []string) ([]*models.Message, error) {
	if len(ids) == 0 {
		return []*models.Message{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = messageKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	messages := make([]*models.Message, 0, len(values))
	for _, value := range values {
		data, ok := value.(string)
		if !ok {
			continue
		}
		var message models.Message
		if err := json.Unmarshal([]byte(data), &message); err != nil {
			continue
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

// PurgeOlderThan deletes every message posted before the cutoff
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
			return nil, fmt.Errorf("failed to find stale messages: %w", err)
		}
		if len(ids) == 0 {
			return output, nil
		}

		messages, err := r.getMany(ctx, ids)
		if err != nil {
			return nil, err
		}

		_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, message := range messages {
				pipe.ZRem(ctx, groupKeyPrefix+message.GroupID, message.ID)
			}
			for _, id := range ids {
				pipe.Del(ctx, messageKeyPrefix+id)
				pipe.ZRem(ctx, indexKey, id)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to purge messages: %w", err)
		}

		output.Deleted += len(messages)
		if len(ids) < purgeBatch {
			return output, nil
		}
	}
}

// SubscribeCreated streams newly saved messages
func (r *redisRepository) SubscribeCreated(ctx context.Context) (<-chan *models.Message, error) {
	pubsub := r.client.Subscribe(ctx, createdChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to messages: %w", err)
	}

	out := make(chan *models.Message, 16)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var message models.Message
				if err := json.Unmarshal([]byte(msg.Payload), &message); err != nil {
					continue
				}
				select {
				case out <- &message:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
