package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/paycrest/bridge-wallet/config"
	"github.com/paycrest/bridge-wallet/utils/logger"
	"github.com/redis/go-redis/v9"
)

var (
	// RedisClient holds the redis connection; nil when redis is disabled
	RedisClient *redis.Client
)

// InitializeRedis connects to redis when it is enabled in the configuration
func InitializeRedis() error {
	conf := config.RedisConfig()
	if !conf.Enabled {
		logger.Infof("Redis disabled, using in-memory link cache")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	RedisClient = client
	logger.Infof("Connected to redis at %s:%s", conf.Host, conf.Port)

	return nil
}

// CloseRedis closes the redis connection if one is open
func CloseRedis() error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Close()
}
