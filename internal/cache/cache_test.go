package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb)
}

func TestEmbeddingCache_MissThenHit(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	if _, ok := c.GetEmbedding(ctx, "go"); ok {
		t.Fatal("expected cache miss before any Set")
	}

	vec := []float32{0.1, 0.2, 0.3}
	c.SetEmbedding(ctx, "go", vec)

	got, ok := c.GetEmbedding(ctx, "go")
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if len(got) != len(vec) || got[0] != vec[0] {
		t.Errorf("got %v, want %v", got, vec)
	}
}

func TestLiveSessionTracking(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	if err := c.MarkSessionLive(ctx, "iv1"); err != nil {
		t.Fatalf("mark live: %v", err)
	}
	if err := c.MarkSessionLive(ctx, "iv2"); err != nil {
		t.Fatalf("mark live: %v", err)
	}

	count, err := c.LiveSessionCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	if err := c.MarkSessionEnded(ctx, "iv1"); err != nil {
		t.Fatalf("mark ended: %v", err)
	}
	count, err = c.LiveSessionCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count after end = %d, want 1", count)
	}
}
