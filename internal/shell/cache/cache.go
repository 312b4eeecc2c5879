// Package cache provides an optional redis-backed cache of rendered
// document shells. Rendering is deterministic, so a cached entry keyed by
// the canonical request encoding is always valid until it expires.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iknowcss/htmlshell/internal/common/configtypes"
	"github.com/iknowcss/htmlshell/pkg/types"
)

const keyPrefix = "shell:render:"

// RenderCache stores rendered shells in redis with a TTL.
type RenderCache struct {
	client      *redis.Client
	ttl         time.Duration
	compression string
	logger      *zap.Logger
}

// New connects to redis and returns a render cache.
func New(cfg configtypes.CacheConfig, logger *zap.Logger) (*RenderCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Render cache connected",
		zap.String("addr", cfg.Redis.Addr),
		zap.Int("db", cfg.Redis.DB),
		zap.Duration("ttl", time.Duration(cfg.TTL)),
		zap.String("compression", cfg.Compression))

	return &RenderCache{
		client:      client,
		ttl:         time.Duration(cfg.TTL),
		compression: cfg.Compression,
		logger:      logger,
	}, nil
}

// Key derives the cache key for a render request: an xxhash64 of the
// canonical JSON encoding. Identical requests always produce identical
// keys because map keys serialize sorted.
func Key(req *types.RenderRequest) (string, error) {
	canonical, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request for cache key: %w", err)
	}
	return fmt.Sprintf("%s%016x", keyPrefix, xxhash.Sum64(canonical)), nil
}

// Get returns the cached rendered HTML for the key, or found=false on a
// miss. Corrupt entries are treated as misses and deleted.
func (rc *RenderCache) Get(ctx context.Context, key string) (html []byte, found bool, err error) {
	payload, err := rc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get failed: %w", err)
	}

	html, err = decodePayload(payload)
	if err != nil {
		rc.logger.Warn("Dropping corrupt cache entry",
			zap.String("key", key),
			zap.Error(err))
		rc.client.Del(ctx, key)
		return nil, false, nil
	}

	return html, true, nil
}

// Set stores rendered HTML under the key with the configured TTL.
func (rc *RenderCache) Set(ctx context.Context, key string, html []byte) error {
	payload, err := encodePayload(html, rc.compression)
	if err != nil {
		return err
	}

	if err := rc.client.Set(ctx, key, payload, rc.ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (rc *RenderCache) Close() error {
	return rc.client.Close()
}
