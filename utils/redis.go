package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/moa-app/moa-backend/config"
	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedis connects the shared redis client. Redis is optional: with no
// REDIS_ADDR configured the rate limiter falls back to its in-memory store.
func InitRedis(cfg *config.Config) error {
	if cfg.RedisAddr == "" {
		log.Println("No REDIS_ADDR configured, skipping redis")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	redisClient = client
	log.Printf("Redis connected: %s", cfg.RedisAddr)
	return nil
}

// RedisClient returns the shared client, or nil when redis is not configured.
func RedisClient() *redis.Client {
	return redisClient
}
