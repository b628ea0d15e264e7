package lease

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestAcquire_Exclusive(t *testing.T) {
	_, client := setupTestRedis(t)
	m := NewManager(client, time.Minute, 0)
	ctx := context.Background()

	release, err := m.Acquire(ctx, "quota:lease:photos")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := m.Acquire(ctx, "quota:lease:photos"); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("Expected ErrNotAcquired, got %v", err)
	}

	if err := release(ctx); err != nil {
		t.Fatalf("Unexpected release error: %v", err)
	}

	release2, err := m.Acquire(ctx, "quota:lease:photos")
	if err != nil {
		t.Fatalf("Expected lease after release, got %v", err)
	}
	release2(ctx)
}

func TestAcquire_DifferentNamesIndependent(t *testing.T) {
	_, client := setupTestRedis(t)
	m := NewManager(client, time.Minute, 0)
	ctx := context.Background()

	if _, err := m.Acquire(ctx, "quota:lease:a"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := m.Acquire(ctx, "quota:lease:b"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestAcquire_WaitsForRelease(t *testing.T) {
	_, client := setupTestRedis(t)
	m := NewManager(client, time.Minute, 2*time.Second)
	ctx := context.Background()

	release, err := m.Acquire(ctx, "quota:lease:root")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	go func() {
		time.Sleep(200 * time.Millisecond)
		release(context.Background())
	}()

	if _, err := m.Acquire(ctx, "quota:lease:root"); err != nil {
		t.Fatalf("Expected lease once holder released, got %v", err)
	}
}

func TestRelease_DoesNotDeleteForeignLease(t *testing.T) {
	mr, client := setupTestRedis(t)
	m := NewManager(client, time.Second, 0)
	ctx := context.Background()

	release, err := m.Acquire(ctx, "quota:lease:root")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Our lease expires and someone else takes it.
	mr.FastForward(2 * time.Second)
	if _, err := m.Acquire(ctx, "quota:lease:root"); err != nil {
		t.Fatalf("Expected expired lease to be re-acquired, got %v", err)
	}

	if err := release(ctx); err != nil {
		t.Fatalf("Unexpected release error: %v", err)
	}
	if !mr.Exists("quota:lease:root") {
		t.Fatal("Stale release removed the new holder's lease")
	}
}

func TestAcquire_ContextCancelled(t *testing.T) {
	_, client := setupTestRedis(t)
	m := NewManager(client, time.Minute, 5*time.Second)

	if _, err := m.Acquire(context.Background(), "quota:lease:root"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	if _, err := m.Acquire(ctx, "quota:lease:root"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
}
