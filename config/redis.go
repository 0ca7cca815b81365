package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/carelink/carelink_backend/pkg/logger"
)

var RedisClient *redis.Client

// ConnectRedis establishes connection to Redis. The slot-summary cache is the
// only consumer; when Redis is unreachable the API keeps working and every
// slots request hits MongoDB directly.
func ConnectRedis() *redis.Client {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     redisPassword,
		DB:           redisDB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.Log.Warnf("Redis connection failed: %v", err)
		logger.Log.Warn("Slot-summary caching will be disabled")
		return nil
	}

	logger.Log.Info("Connected to Redis")
	RedisClient = client
	return client
}

// CloseRedis closes the Redis connection
func CloseRedis() {
	if RedisClient != nil {
		RedisClient.Close()
	}
}
