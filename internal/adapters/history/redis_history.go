package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisHistory is a Redis implementation of the HistoryRepository interface.
// Results are JSON values in a hash; a sorted set scored by timestamp orders them.
type RedisHistory struct {
	client    *redis.Client
	indexKey  string
	itemsKey  string
	logger    *zap.Logger
	retention time.Duration
	cleanup   *cleanupTask
}

// NewRedisHistory connects to Redis and returns a history store under keyPrefix
func NewRedisHistory(ctx context.Context, opts *redis.Options, keyPrefix string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*RedisHistory, error) {
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	h := &RedisHistory{
		client:    client,
		indexKey:  keyPrefix + ":index",
		itemsKey:  keyPrefix + ":items",
		logger:    logger,
		retention: retention,
		cleanup:   newCleanupTask(cleanupFreq, logger),
	}
	h.cleanup.start(h.Cleanup)
	return h, nil
}

// Save stores result, replacing any result with the same ID
func (h *RedisHistory) Save(ctx context.Context, result *core.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode analysis result: %w", err)
	}

	_, err = h.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, h.itemsKey, result.ID, data)
		pipe.ZAdd(ctx, h.indexKey, redis.Z{
			Score:  float64(result.Timestamp.UnixMilli()),
			Member: result.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	return nil
}

// Get retrieves a result by ID
func (h *RedisHistory) Get(ctx context.Context, id string) (*core.AnalysisResult, error) {
	data, err := h.client.HGet(ctx, h.itemsKey, id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query analysis result: %w", err)
	}

	var result core.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	return &result, nil
}

// List returns up to limit results, newest first; a non-positive limit returns all
func (h *RedisHistory) List(ctx context.Context, limit int) ([]*core.AnalysisResult, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := h.client.ZRevRange(ctx, h.indexKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis results: %w", err)
	}
	if len(ids) == 0 {
		return []*core.AnalysisResult{}, nil
	}

	values, err := h.client.HMGet(ctx, h.itemsKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis results: %w", err)
	}

	results := make([]*core.AnalysisResult, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			h.logger.Warn("History index references a missing result", zap.String("id", ids[i]))
			continue
		}
		var result core.AnalysisResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to decode analysis result: %w", err)
		}
		results = append(results, &result)
	}
	return results, nil
}

// Delete removes a result
func (h *RedisHistory) Delete(ctx context.Context, id string) error {
	var removed *redis.IntCmd
	_, err := h.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, h.itemsKey, id)
		pipe.ZRem(ctx, h.indexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete analysis result: %w", err)
	}
	if removed.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

// Cleanup removes results older than the retention period
func (h *RedisHistory) Cleanup(ctx context.Context) error {
	oldest := cutoff(h.retention)
	if oldest.IsZero() {
		return nil
	}

	ids, err := h.client.ZRangeByScore(ctx, h.indexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(oldest.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to find expired entries: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}

	_, err = h.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, h.itemsKey, ids...)
		pipe.ZRem(ctx, h.indexKey, members...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	h.logger.Debug("Cleaned up expired history entries",
		zap.String("driver", "redis"),
		zap.Int("expired_count", len(ids)))
	return nil
}

// Stop stops the background cleanup task and closes the Redis connection
func (h *RedisHistory) Stop() {
	h.cleanup.stop()
	if err := h.client.Close(); err != nil {
		h.logger.Error("Failed to close Redis connection", zap.Error(err))
	}
}
