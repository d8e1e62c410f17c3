package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pfplabs/croaker/config"
)

var (
	redisClient    *redis.Client
	redisOnce      sync.Once
	redisReachable bool
)

// GetRedis returns a singleton Redis client based on loaded config, or nil
// when the server is unreachable. Callers fall back to the in-process cache.
func GetRedis() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.Get()
		client := redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			if Sugar != nil {
				Sugar.Infof("redis unavailable, using in-process cache: %v", err)
			}
			_ = client.Close()
			return
		}
		redisClient = client
		redisReachable = true
	})
	if !redisReachable {
		return nil
	}
	return redisClient
}
