// Package cache is the Redis-backed adapter the transport layer uses
// alongside (never inside) the interview core: an embedding cache
// (GetEmbedding/SetEmbedding, which nothing in this repository calls, so
// the evaluator embeds the ideal answer on every evaluation), and a
// live-session counter grounded on the teacher's OnlineUserCountHandler
// (SADD/SCARD over a set instead of a SCAN over key prefixes, since the
// set size here is small and bounded by concurrent interviews).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	embeddingKeyFmt  = "embedding:%s"
	liveSessionsKey  = "live_sessions"
	embeddingTTL     = 24 * time.Hour
)

// Cache wraps a redis.Client with the interview engine's two caching
// concerns: embedding vectors and live-session membership.
type Cache struct {
	rdb *redis.Client
}

// New builds a Cache.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// GetEmbedding returns a cached embedding for text's hash key, or
// (nil, false) on a cache miss. Cache errors are treated as misses:
// embedding retrieval is a performance optimization, never a correctness
// requirement (the real embedder port is always the fallback).
func (c *Cache) GetEmbedding(ctx context.Context, key string) ([]float32, bool) {
	raw, err := c.rdb.Get(ctx, fmt.Sprintf(embeddingKeyFmt, key)).Bytes()
	if err != nil {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, false
	}
	return vec, true
}

// SetEmbedding caches an embedding vector for key with a 24h TTL. Errors
// are swallowed: a failed cache write must never fail the caller.
func (c *Cache) SetEmbedding(ctx context.Context, key string, vec []float32) {
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, fmt.Sprintf(embeddingKeyFmt, key), raw, embeddingTTL)
}

// MarkSessionLive adds interviewID to the live-session set.
func (c *Cache) MarkSessionLive(ctx context.Context, interviewID string) error {
	return c.rdb.SAdd(ctx, liveSessionsKey, interviewID).Err()
}

// MarkSessionEnded removes interviewID from the live-session set.
func (c *Cache) MarkSessionEnded(ctx context.Context, interviewID string) error {
	return c.rdb.SRem(ctx, liveSessionsKey, interviewID).Err()
}

// LiveSessionCount reports how many interviews are currently active,
// mirroring the teacher's OnlineUserCountHandler capacity-reporting use.
func (c *Cache) LiveSessionCount(ctx context.Context) (int64, error) {
	return c.rdb.SCard(ctx, liveSessionsKey).Result()
}
