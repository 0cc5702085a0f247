package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"health-heroes/internal/infrastructure/config"
)

// Store AI 回應快取介面，找不到時回傳 common.ErrCacheMiss
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Stats() map[string]interface{}
	Close() error
}

// Key 由多個片段計算 SHA-256 快取鍵
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "text:" + hex.EncodeToString(hash[:])
}

// New 依設定建立快取後端，停用時回傳 nil
func New(cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case config.CacheBackendRedis:
		store, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.CacheBackendMemory, "":
		return NewManager(cfg), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
