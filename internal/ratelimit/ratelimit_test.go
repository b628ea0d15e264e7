package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestRedis creates an in-memory Redis server for testing
func setupTestRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to connect to test Redis: %v", err)
	}

	t.Cleanup(func() {
		redisClient.Close()
		mr.Close()
	})
	return redisClient
}

func TestTokenBucket_Take(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 5, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, err := bucket.Take(ctx, "tech-1", ActionUploads)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
		if d.Remaining != int64(4-i) {
			t.Fatalf("Expected %d remaining, got %d", 4-i, d.Remaining)
		}
	}

	d, err := bucket.Take(ctx, "tech-1", ActionUploads)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Allowed {
		t.Fatal("Expected request to be denied after limit reached")
	}
	if d.Limit != 5 {
		t.Fatalf("Expected limit 5, got %d", d.Limit)
	}
}

func TestTokenBucket_ActionsAreSeparate(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 1, 1)
	ctx := context.Background()

	if d, _ := bucket.Take(ctx, "tech-1", ActionUploads); !d.Allowed {
		t.Fatal("Expected first upload to be allowed")
	}
	if d, _ := bucket.Take(ctx, "tech-1", ActionSearch); !d.Allowed {
		t.Fatal("Expected search to use its own bucket")
	}
	if d, _ := bucket.Take(ctx, "tech-2", ActionUploads); !d.Allowed {
		t.Fatal("Expected another user to use their own bucket")
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 2, 2)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	bucket.now = func() time.Time { return now }
	ctx := context.Background()

	bucket.Take(ctx, "tech-1", ActionSearch)
	bucket.Take(ctx, "tech-1", ActionSearch)
	if d, _ := bucket.Take(ctx, "tech-1", ActionSearch); d.Allowed {
		t.Fatal("Expected bucket to be empty")
	}

	now = now.Add(30 * time.Second)
	d, err := bucket.Take(ctx, "tech-1", ActionSearch)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Fatal("Expected one token refilled after half a window")
	}
}

func TestTokenBucket_PeekDoesNotConsume(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 10, 10)
	ctx := context.Background()

	d, err := bucket.Peek(ctx, "tech-2", ActionSearch)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Remaining != 10 {
		t.Fatalf("Expected 10 remaining tokens, got %d", d.Remaining)
	}

	for i := 0; i < 3; i++ {
		bucket.Take(ctx, "tech-2", ActionSearch)
	}

	d, _ = bucket.Peek(ctx, "tech-2", ActionSearch)
	if d.Remaining != 7 {
		t.Fatalf("Expected 7 remaining tokens, got %d", d.Remaining)
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 5, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		bucket.Take(ctx, "tech-3", ActionUploads)
	}

	if err := bucket.Reset(ctx, "tech-3", ActionUploads); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	d, err := bucket.Peek(ctx, "tech-3", ActionUploads)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Remaining != 5 {
		t.Fatalf("Expected 5 remaining tokens after reset, got %d", d.Remaining)
	}
}
