package entry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for Redis
	giveawayKeyPrefix = "giveaway:"

	entriesSuffix  = ":entries"
	joinedSuffix   = ":entries:joined_at"
	sequenceSuffix = ":entries:seq"
)

// toggleScript removes the user when present, otherwise adds them scored by a
// per-giveaway sequence so ZRANGE returns join order. Returns 1 for joined, 0 for left.
var toggleScript = redis.NewScript(`
if redis.call('ZREM', KEYS[1], ARGV[1]) == 1 then
	redis.call('HDEL', KEYS[2], ARGV[1])
	return 0
end
local seq = redis.call('INCR', KEYS[3])
redis.call('ZADD', KEYS[1], seq, ARGV[1])
redis.call('HSET', KEYS[2], ARGV[1], ARGV[2])
return 1
`)

func keys(giveawayID int64) (entries, joined, sequence string) {
	prefix := giveawayKeyPrefix + strconv.FormatInt(giveawayID, 10)
	return prefix + entriesSuffix, prefix + joinedSuffix, prefix + sequenceSuffix
}

// Config holds configuration for the Redis entry repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed entry repository
func NewRedis(cfg *Config) (*redisRepository, error) {
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

// ToggleEntry runs the toggle as one server-side script
func (r *redisRepository) ToggleEntry(ctx context.Context, input *ToggleEntryInput) (models.EntryAction, error) {
	if input == nil || input.GiveawayID == 0 || input.UserID == "" {
		return "", errors.New("input, giveaway ID and user ID cannot be empty")
	}

	entriesKey, joinedKey, sequenceKey := keys(input.GiveawayID)
	joined, err := toggleScript.Run(ctx, r.client,
		[]string{entriesKey, joinedKey, sequenceKey},
		input.UserID, input.At.Unix(),
	).Int()
	if err != nil {
		return "", fmt.Errorf("failed to toggle entry: %w", err)
	}

	if joined == 1 {
		return models.EntryActionJoined, nil
	}
	return models.EntryActionLeft, nil
}

// ListEntries returns entries in join order
func (r *redisRepository) ListEntries(ctx context.Context, input *ListEntriesInput) ([]*models.Entry, error) {
	if input == nil || input.GiveawayID == 0 {
		return nil, errors.New("input and giveaway ID cannot be empty")
	}

	entriesKey, joinedKey, _ := keys(input.GiveawayID)

	userIDs, err := r.client.ZRange(ctx, entriesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	if len(userIDs) == 0 {
		return []*models.Entry{}, nil
	}

	joinedAt, err := r.client.HMGet(ctx, joinedKey, userIDs...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entry times: %w", err)
	}

	entries := make([]*models.Entry, 0, len(userIDs))
	for i, userID := range userIDs {
		entry := &models.Entry{
			GiveawayID: input.GiveawayID,
			UserID:     userID,
		}
		if raw, ok := joinedAt[i].(string); ok {
			if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
				entry.JoinedAt = time.Unix(unix, 0).UTC()
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// CountEntries returns the cardinality of the entry set
func (r *redisRepository) CountEntries(ctx context.Context, input *CountEntriesInput) (int, error) {
	if input == nil || input.GiveawayID == 0 {
		return 0, errors.New("input and giveaway ID cannot be empty")
	}

	entriesKey, _, _ := keys(input.GiveawayID)
	count, err := r.client.ZCard(ctx, entriesKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return int(count), nil
}

// ClearEntries removes the entry set and its bookkeeping keys
func (r *redisRepository) ClearEntries(ctx context.Context, input *ClearEntriesInput) error {
	if input == nil || input.GiveawayID == 0 {
		return errors.New("input and giveaway ID cannot be empty")
	}

	entriesKey, joinedKey, sequenceKey := keys(input.GiveawayID)
	if err := r.client.Del(ctx, entriesKey, joinedKey, sequenceKey).Err(); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	return nil
}
