package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/config"
	"github.com/KirkDiggler/giveawaybot/internal/repositories/database"
	entryRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/entry"
	giveawayRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/giveaway"
	winnerRepo "github.com/KirkDiggler/giveawaybot/internal/repositories/winner"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisPingTimeout = 5 * time.Second

// store bundles the repositories of one backend
type store struct {
	giveaways giveawayRepo.Repository
	entries   entryRepo.Repository
	winners   winnerRepo.Repository
	close     func() error
}

func openStore(cfg *config.Config, log zerolog.Logger) (*store, error) {
	if cfg.StoreDriver == config.StoreDriverRedis {
		return openRedisStore(cfg, log)
	}
	return openSQLStore(cfg, log)
}

func openSQLStore(cfg *config.Config, log zerolog.Logger) (*store, error) {
	db, err := database.Open(cfg.DatabaseConfig())
	if err != nil {
		return nil, err
	}

	s := &store{close: func() error { return database.Close(db) }}

	if s.giveaways, err = giveawayRepo.NewGorm(&giveawayRepo.GormConfig{DB: db}); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create giveaway repository: %w", err), s.close())
	}
	if s.entries, err = entryRepo.NewGorm(&entryRepo.GormConfig{DB: db}); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create entry repository: %w", err), s.close())
	}
	if s.winners, err = winnerRepo.NewGorm(&winnerRepo.GormConfig{DB: db}); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create winner repository: %w", err), s.close())
	}

	log.Info().Str("driver", cfg.StoreDriver).Msg("sql store ready")
	return s, nil
}

func openRedisStore(cfg *config.Config, log zerolog.Logger) (*store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err), client.Close())
	}

	s := &store{close: client.Close}

	var err error
	if s.giveaways, err = giveawayRepo.NewRedis(&giveawayRepo.Config{RedisClient: client}); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create giveaway repository: %w", err), s.close())
	}
	if s.entries, err = entryRepo.NewRedis(&entryRepo.Config{RedisClient: client}); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create entry repository: %w", err), s.close())
	}
	if s.winners, err = winnerRepo.NewRedis(&winnerRepo.Config{RedisClient: client}); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create winner repository: %w", err), s.close())
	}

	log.Info().Str("addr", cfg.RedisAddr).Int("db", cfg.RedisDB).Msg("redis store ready")
	return s, nil
}
