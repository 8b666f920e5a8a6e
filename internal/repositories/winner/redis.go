package winner

import (
	"context"
	"encoding/json"
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
	winnersSuffix     = ":winners"
)

// winnerRecord is one element of the giveaway:<id>:winners list
type winnerRecord struct {
	UserID  string `json:"user_id"`
	DrawID  string `json:"draw_id"`
	DrawnAt int64  `json:"drawn_at"`
}

func winnersKey(giveawayID int64) string {
	return giveawayKeyPrefix + strconv.FormatInt(giveawayID, 10) + winnersSuffix
}

func encodeDraw(d *Draw) ([]interface{}, error) {
	values := make([]interface{}, 0, len(d.UserIDs))
	for _, userID := range d.UserIDs {
		recordJSON, err := json.Marshal(&winnerRecord{
			UserID:  userID,
			DrawID:  d.DrawID,
			DrawnAt: d.DrawnAt.Unix(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal winner: %w", err)
		}
		values = append(values, recordJSON)
	}
	return values, nil
}

// Config holds configuration for the Redis winner repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed winner repository
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

// AddWinners appends the draw to the winners list
func (r *redisRepository) AddWinners(ctx context.Context, input *AddWinnersInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}
	if err := input.validate(); err != nil {
		return err
	}
	if len(input.UserIDs) == 0 {
		return nil
	}

	values, err := encodeDraw(&input.Draw)
	if err != nil {
		return err
	}

	if err := r.client.RPush(ctx, winnersKey(input.GiveawayID), values...).Err(); err != nil {
		return fmt.Errorf("failed to add winners: %w", err)
	}

	return nil
}

// ReplaceWinners swaps the winners list in a MULTI/EXEC block
func (r *redisRepository) ReplaceWinners(ctx context.Context, input *ReplaceWinnersInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}
	if err := input.validate(); err != nil {
		return err
	}

	values, err := encodeDraw(&input.Draw)
	if err != nil {
		return err
	}

	key := winnersKey(input.GiveawayID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace winners: %w", err)
	}

	return nil
}

// ListWinners returns winners in draw order
func (r *redisRepository) ListWinners(ctx context.Context, input *ListWinnersInput) ([]*models.Winner, error) {
	if input == nil || input.GiveawayID == 0 {
		return nil, errors.New("input and giveaway ID cannot be empty")
	}

	values, err := r.client.LRange(ctx, winnersKey(input.GiveawayID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}

	winners := make([]*models.Winner, 0, len(values))
	for _, value := range values {
		var record winnerRecord
		if err := json.Unmarshal([]byte(value), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal winner: %w", err)
		}
		winners = append(winners, &models.Winner{
			GiveawayID: input.GiveawayID,
			UserID:     record.UserID,
			DrawID:     record.DrawID,
			DrawnAt:    time.Unix(record.DrawnAt, 0).UTC(),
		})
	}

	return winners, nil
}

// ClearWinners removes the winners list
func (r *redisRepository) ClearWinners(ctx context.Context, input *ClearWinnersInput) error {
	if input == nil || input.GiveawayID == 0 {
		return errors.New("input and giveaway ID cannot be empty")
	}

	if err := r.client.Del(ctx, winnersKey(input.GiveawayID)).Err(); err != nil {
		return fmt.Errorf("failed to clear winners: %w", err)
	}

	return nil
}
