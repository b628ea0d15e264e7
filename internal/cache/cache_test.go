package cache

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gasgenie/gasgenie-service/internal/types"
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

func TestRegulationCache_SetGet(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRegulationCache(client)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "flue terminal clearance", 5); ok {
		t.Fatal("Expected miss on empty cache")
	}

	matches := []types.RegulationMatch{{Source: "BS 5440-1", Section: "4.3", Content: "Terminal positions", Relevance: 88}}
	c.Set(ctx, "flue terminal clearance", 5, matches)

	got, ok := c.Get(ctx, "  Flue   TERMINAL clearance ", 5)
	if !ok {
		t.Fatal("Expected hit for normalized query")
	}
	if len(got) != 1 || got[0].Relevance != 88 {
		t.Fatalf("Unexpected cached matches: %+v", got)
	}

	if _, ok := c.Get(ctx, "flue terminal clearance", 3); ok {
		t.Fatal("Different topK must not share an entry")
	}
}

func TestRegulationCache_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRegulationCache(client)
	ctx := context.Background()

	c.Set(ctx, "q", 5, []types.RegulationMatch{})
	mr.FastForward(RegulationCacheDuration + time.Second)

	if _, ok := c.Get(ctx, "q", 5); ok {
		t.Fatal("Expected entry to expire")
	}
}

func TestRegulationCache_Invalidate(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRegulationCache(client)
	ctx := context.Background()

	c.Set(ctx, "a", 5, nil)
	c.Set(ctx, "b", 5, nil)
	mr.Set("rate_limit:u1:uploads", "keep")

	n, err := c.Invalidate(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("Expected 2 keys removed, got %d", n)
	}
	if !mr.Exists("rate_limit:u1:uploads") {
		t.Fatal("Invalidate removed an unrelated key")
	}
}

func TestGetCacheStats(t *testing.T) {
	_, client := setupTestRedis(t)
	NewRegulationCache(client).Set(context.Background(), "a", 5, nil)

	rec := httptest.NewRecorder()
	GetCacheStats(client)(rec, httptest.NewRequest(http.MethodGet, "/cache/stats", nil))

	var body struct {
		Data CacheStats `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !body.Data.RedisConnected || body.Data.KeyCount != 1 {
		t.Fatalf("Unexpected stats: %+v", body.Data)
	}
}

func TestInvalidateRegulations(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRegulationCache(client)
	c.Set(context.Background(), "flue terminal distance", 5, nil)

	rec := httptest.NewRecorder()
	InvalidateRegulations(c)(rec, httptest.NewRequest(http.MethodDelete, "/cache/regulations", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Data map[string]int `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Data["removed"] != 1 {
		t.Fatalf("Expected 1 removed, got %v", body.Data)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("Expected empty cache, got keys %v", mr.Keys())
	}

	mr.Close()
	rec = httptest.NewRecorder()
	InvalidateRegulations(c)(rec, httptest.NewRequest(http.MethodDelete, "/cache/regulations", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502 with Redis down, got %d", rec.Code)
	}
}
