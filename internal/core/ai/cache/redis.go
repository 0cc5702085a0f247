package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "health-heroes:ai:"

// RedisStore 以 Redis 保存 AI 回應，TTL 由 Redis 處理
type RedisStore struct {
	client *redis.Client
	config config.CacheConfig
	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisStore 連線 Redis 並確認可用
func NewRedisStore(cfg config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return newRedisStore(client, cfg), nil
}

func newRedisStore(client *redis.Client, cfg config.CacheConfig) *RedisStore {
	return &RedisStore{client: client, config: cfg}
}

// Get 獲取緩存
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		s.misses.Add(1)
		return "", common.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	s.hits.Add(1)
	return val, nil
}

// Set 設置緩存
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Stats 回傳本程序觀察到的命中統計
func (s *RedisStore) Stats() map[string]interface{} {
	return map[string]interface{}{
		"backend": config.CacheBackendRedis,
		"addr":    s.config.RedisAddr,
		"hits":    s.hits.Load(),
		"misses":  s.misses.Load(),
	}
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
