package drink_ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/KirkDiggler/barcrew/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	runKeyPrefix     = "run:"
	countsKeyPrefix  = "run_counts:"
	totalKeyPrefix   = "run_total:"
	appliedKeyPrefix = "run_events:"

	// fieldSeparator joins category and variation into one hash field
	fieldSeparator = "\x1f"

	// runRetention keeps a finished run around long enough for late retries
	runRetention = 48 * time.Hour
)

var (
	// ErrStaleRun is returned when a write targets a run that is no longer current
	ErrStaleRun = apperr.Validation("run is no longer current")

	// ErrInvalidDelta is returned for a delta other than +1 or -1
	ErrInvalidDelta = apperr.Validation("delta must be +1 or -1")
)

// applyDeltaScript clamps the variation at zero and keeps the run total in
// step with it. It returns {count, totalBefore, totalAfter, duplicate} or
// {-1} when the run is stale.
var applyDeltaScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'id')
if current ~= ARGV[4] then
	return {-1, 0, 0, 0}
end
local count = tonumber(redis.call('HGET', KEYS[2], ARGV[1]) or '0')
local before = tonumber(redis.call('GET', KEYS[3]) or '0')
if ARGV[3] ~= '' then
	if redis.call('SADD', KEYS[4], ARGV[3]) == 0 then
		return {count, before, before, 1}
	end
	redis.call('EXPIRE', KEYS[4], ARGV[5])
end
local nextCount = count + tonumber(ARGV[2])
if nextCount < 0 then
	nextCount = 0
end
redis.call('HSET', KEYS[2], ARGV[1], nextCount)
local after = before + (nextCount - count)
redis.call('SET', KEYS[3], after)
return {nextCount, before, after, 0}
`)

// Config holds configuration for the Redis drink ledger repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed drink ledger repository
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

func runKey(userID string) string {
	return runKeyPrefix + userID
}

func countsKey(userID, runID string) string {
	return fmt.Sprintf("%s%s:%s", countsKeyPrefix, userID, runID)
}

func totalKey(userID, runID string) string {
	return fmt.Sprintf("%s%s:%s", totalKeyPrefix, userID, runID)
}

func appliedKey(userID, runID string) string {
	return fmt.Sprintf("%s%s:%s", appliedKeyPrefix, userID, runID)
}

// StartRun makes runID the member's current run
func (r *redisRepository) StartRun(ctx context.Context, input *StartRunInput) error {
	if input == nil || input.UserID == "" || input.RunID == "" {
		return apperr.Validation("user ID and run ID are required")
	}

	previous, err := r.client.HGet(ctx, runKey(input.UserID), "id").Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to read current run: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, runKey(input.UserID),
		"id", input.RunID,
		"started_at", input.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if previous != "" && previous != input.RunID {
		// Late retries against the old run fail as stale; the keys only linger for inspection
		pipe.Expire(ctx, countsKey(input.UserID, previous), runRetention)
		pipe.Expire(ctx, totalKey(input.UserID, previous), runRetention)
		pipe.Expire(ctx, appliedKey(input.UserID, previous), runRetention)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

// GetSnapshot returns the authoritative counts of the member's current run
func (r *redisRepository) GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, apperr.Validation("user ID is required")
	}

	run, err := r.client.HGetAll(ctx, runKey(input.UserID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	output := &GetSnapshotOutput{
		Snapshot: models.Snapshot{},
	}
	if run["id"] == "" {
		return output, nil
	}
	output.RunID = run["id"]
	if startedAt, err := time.Parse(time.RFC3339Nano, run["started_at"]); err == nil {
		output.StartedAt = startedAt
	}

	pipe := r.client.Pipeline()
	countsCmd := pipe.HGetAll(ctx, countsKey(input.UserID, output.RunID))
	totalCmd := pipe.Get(ctx, totalKey(input.UserID, output.RunID))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get run counts: %w", err)
	}

	for field, raw := range countsCmd.Val() {
		categoryID, variation, ok := strings.Cut(field, fieldSeparator)
		if !ok {
			continue
		}
		count, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse count for %s: %w", field, err)
		}
		if output.Snapshot[categoryID] == nil {
			output.Snapshot[categoryID] = map[string]int{}
		}
		output.Snapshot[categoryID][variation] = count
	}

	if total, err := totalCmd.Int(); err == nil {
		output.Total = total
	}

	return output, nil
}

// ApplyDelta adds delta to one variation of the current run
func (r *redisRepository) ApplyDelta(ctx context.Context, input *ApplyDeltaInput) (*ApplyDeltaOutput, error) {
	if input == nil || input.UserID == "" || input.RunID == "" {
		return nil, apperr.Validation("user ID and run ID are required")
	}
	if input.CategoryID == "" || input.VariationName == "" {
		return nil, apperr.Validation("category and variation are required")
	}
	if input.Delta != 1 && input.Delta != -1 {
		return nil, ErrInvalidDelta
	}

	keys := []string{
		runKey(input.UserID),
		countsKey(input.UserID, input.RunID),
		totalKey(input.UserID, input.RunID),
		appliedKey(input.UserID, input.RunID),
	}
	field := input.CategoryID + fieldSeparator + input.VariationName

	result, err := applyDeltaScript.Run(ctx, r.client, keys,
		field, input.Delta, input.EventID, input.RunID, int(runRetention.Seconds()),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to apply drink delta: %w", err)
	}
	if len(result) != 4 {
		return nil, fmt.Errorf("unexpected drink delta reply of length %d", len(result))
	}
	if result[0] < 0 {
		return nil, ErrStaleRun
	}

	return &ApplyDeltaOutput{
		Count:       int(result[0]),
		TotalBefore: int(result[1]),
		TotalAfter:  int(result[2]),
		Duplicate:   result[3] == 1,
	}, nil
}
