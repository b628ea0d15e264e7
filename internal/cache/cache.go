package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/types"
	"github.com/go-redis/redis/v8"
)

const (
	// regsearch:<topK>:<sha256 of normalized query>
	RegulationSearchKey  = "regsearch:%d:%s"
	RegulationKeyPattern = "regsearch:*"

	RegulationCacheDuration = 10 * time.Minute
)

// RegulationCache keeps recent regulation search results so repeated questions from the
// voice assistant and the app skip the embedding and vector round trips.
type RegulationCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRegulationCache(redisClient *redis.Client) *RegulationCache {
	return &RegulationCache{
		redis: redisClient,
		ttl:   RegulationCacheDuration,
	}
}

// Get reports a hit only for a readable cached entry. Redis errors count as a miss.
func (c *RegulationCache) Get(ctx context.Context, query string, topK int) ([]types.RegulationMatch, bool) {
	cached, err := c.redis.Get(ctx, regulationKey(query, topK)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Regulation cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var matches []types.RegulationMatch
	if err := json.Unmarshal(cached, &matches); err != nil {
		return nil, false
	}
	return matches, true
}

func (c *RegulationCache) Set(ctx context.Context, query string, topK int, matches []types.RegulationMatch) {
	data, err := json.Marshal(matches)
	if err != nil {
		return
	}

	if err := c.redis.Set(ctx, regulationKey(query, topK), data, c.ttl).Err(); err != nil {
		slog.Warn("Regulation cache write failed", slog.String("error", err.Error()))
	}
}

// Invalidate drops every cached search, for use after the regulation index is reloaded.
func (c *RegulationCache) Invalidate(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		removed int
	)

	for {
		keys, next, err := c.redis.Scan(ctx, cursor, RegulationKeyPattern, 100).Result()
		if err != nil {
			return removed, fmt.Errorf("scan regulation cache: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.redis.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("delete regulation cache keys: %w", err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// NormalizeQuery lowercases and collapses whitespace so trivially different phrasings share
// an entry.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func regulationKey(query string, topK int) string {
	sum := sha256.Sum256([]byte(NormalizeQuery(query)))
	return fmt.Sprintf(RegulationSearchKey, topK, hex.EncodeToString(sum[:]))
}
