package giveaway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	giveawayKeyPrefix = "giveaway:"
	guildKeyPrefix    = "giveaways:guild:"
	allGiveawaysKey   = "giveaways:all"
	nextIDKey         = "giveaways:next_id"

	// activeGiveawaysKey holds the IDs of active giveaways. Membership is the
	// active flag, so removing an ID is the finalize transition.
	activeGiveawaysKey = "giveaways:active"

	maxWatchRetries = 5
)

// giveawayRecord is the JSON stored under giveaway:<id>. The active flag lives
// in activeGiveawaysKey, not here.
type giveawayRecord struct {
	ID             int64  `json:"id"`
	GuildID        string `json:"guild_id"`
	ChannelID      string `json:"channel_id"`
	MessageID      string `json:"message_id,omitempty"`
	Title          string `json:"title"`
	Prize          string `json:"prize"`
	Criteria       string `json:"criteria,omitempty"`
	WinnersCount   int    `json:"winners_count"`
	CreatedAt      int64  `json:"created_at"`
	EndsAt         int64  `json:"ends_at"`
	CreatorID      string `json:"creator_id"`
	HostID         string `json:"host_id,omitempty"`
	RequiredRoleID string `json:"required_role_id,omitempty"`
	PingRole       bool   `json:"ping_role"`
	Recurring      bool   `json:"recurring"`
}

func recordFromModel(g *models.Giveaway) *giveawayRecord {
	return &giveawayRecord{
		ID:             g.ID,
		GuildID:        g.GuildID,
		ChannelID:      g.ChannelID,
		MessageID:      g.MessageID,
		Title:          g.Title,
		Prize:          g.Prize,
		Criteria:       g.Criteria,
		WinnersCount:   g.WinnersCount,
		CreatedAt:      g.CreatedAt.Unix(),
		EndsAt:         g.EndsAt.Unix(),
		CreatorID:      g.CreatorID,
		HostID:         g.HostID,
		RequiredRoleID: g.RequiredRoleID,
		PingRole:       g.PingRole,
		Recurring:      g.Recurring,
	}
}

func (r *giveawayRecord) toModel(active bool) *models.Giveaway {
	return &models.Giveaway{
		ID:             r.ID,
		GuildID:        r.GuildID,
		ChannelID:      r.ChannelID,
		MessageID:      r.MessageID,
		Title:          r.Title,
		Prize:          r.Prize,
		Criteria:       r.Criteria,
		WinnersCount:   r.WinnersCount,
		CreatedAt:      time.Unix(r.CreatedAt, 0).UTC(),
		EndsAt:         time.Unix(r.EndsAt, 0).UTC(),
		CreatorID:      r.CreatorID,
		HostID:         r.HostID,
		RequiredRoleID: r.RequiredRoleID,
		PingRole:       r.PingRole,
		Recurring:      r.Recurring,
		Active:         active,
	}
}

func giveawayKey(id int64) string {
	return giveawayKeyPrefix + strconv.FormatInt(id, 10)
}

func guildKey(guildID string) string {
	return guildKeyPrefix + guildID
}

// Config holds configuration for the Redis giveaway repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed giveaway repository
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

// CreateGiveaway allocates an ID with INCR and writes the record and its indexes in one transaction
func (r *redisRepository) CreateGiveaway(ctx context.Context, input *CreateGiveawayInput) (*models.Giveaway, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if err := validateGiveaway(input.Giveaway); err != nil {
		return nil, err
	}

	id, err := r.client.Incr(ctx, nextIDKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate giveaway id: %w", err)
	}

	record := recordFromModel(input.Giveaway)
	record.ID = id

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, giveawayKey(id), recordJSON, 0)
		pipe.ZAdd(ctx, allGiveawaysKey, redis.Z{Score: float64(id), Member: id})
		if record.GuildID != "" {
			pipe.ZAdd(ctx, guildKey(record.GuildID), redis.Z{Score: float64(id), Member: id})
		}
		if input.Giveaway.Active {
			pipe.SAdd(ctx, activeGiveawaysKey, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create giveaway: %w", err)
	}

	return record.toModel(input.Giveaway.Active), nil
}

// GetGiveaway retrieves a giveaway by ID from Redis
func (r *redisRepository) GetGiveaway(ctx context.Context, input *GetGiveawayInput) (*models.Giveaway, error) {
	if input == nil || input.GiveawayID == 0 {
		return nil, errors.New("input and giveaway ID cannot be empty")
	}

	giveaways, err := r.load(ctx, []int64{input.GiveawayID})
	if err != nil {
		return nil, err
	}
	if len(giveaways) == 0 {
		return nil, ErrGiveawayNotFound
	}

	return giveaways[0], nil
}

// ListGiveaways walks the active set when only active giveaways are wanted,
// otherwise the guild index, or every giveaway when no guild is given
func (r *redisRepository) ListGiveaways(ctx context.Context, input *ListGiveawaysInput) ([]*models.Giveaway, error) {
	if input == nil {
		input = &ListGiveawaysInput{}
	}

	var (
		members []string
		err     error
	)
	switch {
	case input.Active != nil && *input.Active:
		members, err = r.client.SMembers(ctx, activeGiveawaysKey).Result()
	case input.GuildID != "":
		members, err = r.client.ZRange(ctx, guildKey(input.GuildID), 0, -1).Result()
	default:
		members, err = r.client.ZRange(ctx, allGiveawaysKey, 0, -1).Result()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list giveaways: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid giveaway id %q in index: %w", member, err)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	loaded, err := r.load(ctx, ids)
	if err != nil {
		return nil, err
	}

	giveaways := make([]*models.Giveaway, 0, len(loaded))
	for _, g := range loaded {
		if input.GuildID != "" && g.GuildID != input.GuildID {
			continue
		}
		if input.ChannelID != "" && g.ChannelID != input.ChannelID {
			continue
		}
		if input.Active != nil && g.Active != *input.Active {
			continue
		}
		giveaways = append(giveaways, g)
	}

	return giveaways, nil
}

// SetMessageID rewrites the record under WATCH so a concurrent writer is never clobbered
func (r *redisRepository) SetMessageID(ctx context.Context, input *SetMessageIDInput) error {
	if input == nil || input.GiveawayID == 0 {
		return errors.New("input and giveaway ID cannot be empty")
	}

	key := giveawayKey(input.GiveawayID)
	update := func(tx *redis.Tx) error {
		recordJSON, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrGiveawayNotFound
			}
			return err
		}

		var record giveawayRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return fmt.Errorf("failed to unmarshal giveaway: %w", err)
		}
		if record.MessageID == input.MessageID {
			return nil
		}
		record.MessageID = input.MessageID

		updated, err := json.Marshal(&record)
		if err != nil {
			return fmt.Errorf("failed to marshal giveaway: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := r.client.Watch(ctx, update, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			if errors.Is(err, ErrGiveawayNotFound) {
				return err
			}
			return fmt.Errorf("failed to set message id: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to set message id: %w", redis.TxFailedErr)
}

// TryFinalize removes the ID from the active set; SREM answers 1 for exactly one caller
func (r *redisRepository) TryFinalize(ctx context.Context, input *TryFinalizeInput) (bool, error) {
	if input == nil || input.GiveawayID == 0 {
		return false, errors.New("input and giveaway ID cannot be empty")
	}

	removed, err := r.client.SRem(ctx, activeGiveawaysKey, input.GiveawayID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to finalize giveaway: %w", err)
	}

	return removed == 1, nil
}

// DeleteGiveaway removes the record and every index entry
func (r *redisRepository) DeleteGiveaway(ctx context.Context, input *DeleteGiveawayInput) error {
	if input == nil || input.GiveawayID == 0 {
		return errors.New("input and giveaway ID cannot be empty")
	}

	g, err := r.GetGiveaway(ctx, &GetGiveawayInput{GiveawayID: input.GiveawayID})
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, giveawayKey(g.ID))
		pipe.ZRem(ctx, allGiveawaysKey, g.ID)
		if g.GuildID != "" {
			pipe.ZRem(ctx, guildKey(g.GuildID), g.ID)
		}
		pipe.SRem(ctx, activeGiveawaysKey, g.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete giveaway: %w", err)
	}

	return nil
}

// load fetches records and active flags for ids in one pipeline, skipping missing records
func (r *redisRepository) load(ctx context.Context, ids []int64) ([]*models.Giveaway, error) {
	if len(ids) == 0 {
		return []*models.Giveaway{}, nil
	}

	pipe := r.client.Pipeline()
	gets := make([]*redis.StringCmd, len(ids))
	actives := make([]*redis.BoolCmd, len(ids))
	for i, id := range ids {
		gets[i] = pipe.Get(ctx, giveawayKey(id))
		actives[i] = pipe.SIsMember(ctx, activeGiveawaysKey, id)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to load giveaways: %w", err)
	}

	giveaways := make([]*models.Giveaway, 0, len(ids))
	for i := range ids {
		recordJSON, err := gets[i].Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load giveaway: %w", err)
		}

		var record giveawayRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal giveaway: %w", err)
		}

		giveaways = append(giveaways, record.toModel(actives[i].Val()))
	}

	return giveaways, nil
}
