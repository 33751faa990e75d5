package redis_client

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/config"
)

// Connect returns nil without error when no address is configured
func Connect(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		log.Info().Msg("Skipping Redis setup")
		return nil, nil
	}

	var client *redis.Client
	if cfg.Password == "" {
		client = redis.NewClient(&redis.Options{
			Addr: cfg.Address,
			DB:   cfg.Database,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.Database,
		})
	}

	statusCmd := client.Ping(context.Background())
	err := statusCmd.Err()
	if err != nil {
		return nil, err
	}

	log.Info().Str("address", cfg.Address).Int("database", cfg.Database).Msg("Redis client setup")

	return client, nil
}
