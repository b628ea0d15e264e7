package cache

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gasgenie/gasgenie-service/internal/utils/response"
	"github.com/go-redis/redis/v8"
)

// CacheStats is a snapshot of the regulation search cache.
type CacheStats struct {
	RedisConnected bool     `json:"redis_connected"`
	KeyCount       int      `json:"total_keys"`
	CacheKeys      []string `json:"cache_keys_sample"`
}

const sampleSize = 10

// GetCacheStats reports whether Redis is reachable and how many regulation searches are cached.
// @Summary Regulation cache statistics
// @Tags system
// @Produce json
// @Success 200 {object} response.Response "Cache stats"
// @Router /cache/stats [get]
func GetCacheStats(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stats := CacheStats{CacheKeys: []string{}}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
			return
		}
		stats.RedisConnected = true

		iter := redisClient.Scan(ctx, 0, RegulationKeyPattern, 100).Iterator()
		for iter.Next(ctx) {
			stats.KeyCount++
			if len(stats.CacheKeys) < sampleSize {
				stats.CacheKeys = append(stats.CacheKeys, iter.Val())
			}
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
	}
}

// InvalidateRegulations drops every cached regulation search so the next query reads the
// reloaded index.
// @Summary Clear the regulation search cache
// @Tags system
// @Produce json
// @Success 200 {object} response.Response "Number of cached searches removed"
// @Failure 502 {object} response.Response "Redis unavailable"
// @Router /cache/regulations [delete]
func InvalidateRegulations(c *RegulationCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := c.Invalidate(r.Context())
		if err != nil {
			slog.Error("Failed to clear regulation cache",
				slog.Int("removed", removed),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusBadGateway, response.GeneralError(errors.New("failed to clear regulation cache")))
			return
		}

		slog.Info("Regulation cache cleared", slog.Int("removed", removed))
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Regulation cache cleared", map[string]int{"removed": removed}))
	}
}
