package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gasgenie/gasgenie-service/internal/config"
	"github.com/gasgenie/gasgenie-service/internal/ratelimit"
	"github.com/gasgenie/gasgenie-service/internal/utils/response"
	"github.com/go-redis/redis/v8"
)

type RateLimitConfig struct {
	limiters map[string]*ratelimit.TokenBucket
}

// NewRateLimitConfig builds one token bucket per limited action. A zero limit leaves the
// action unlimited.
func NewRateLimitConfig(redisClient *redis.Client, cfg config.RateLimit) *RateLimitConfig {
	rlc := &RateLimitConfig{limiters: make(map[string]*ratelimit.TokenBucket)}

	if cfg.UploadsPerMinute > 0 {
		rlc.limiters[ratelimit.ActionUploads] = ratelimit.NewTokenBucket(redisClient, cfg.UploadsPerMinute, cfg.UploadsPerMinute)
	}
	if cfg.SearchPerMinute > 0 {
		rlc.limiters[ratelimit.ActionSearch] = ratelimit.NewTokenBucket(redisClient, cfg.SearchPerMinute, cfg.SearchPerMinute)
	}

	return rlc
}

// RateLimitMiddleware must run after AuthMiddleware. If Redis is unreachable the request is
// let through.
func (rlc *RateLimitConfig) RateLimitMiddleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(
					errors.New("user not authenticated")))
				return
			}

			limiter, exists := rlc.limiters[action]
			if !exists {
				next.ServeHTTP(w, r)
				return
			}

			decision, err := limiter.Take(r.Context(), userID, action)
			if err != nil {
				slog.Warn("Rate limit check failed, allowing request",
					slog.String("action", action),
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(decision.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", "60")

			if !decision.Allowed {
				response.WriteJSON(w, http.StatusTooManyRequests, response.GeneralError(
					errors.New("rate limit exceeded")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rlc *RateLimitConfig) RateLimitedHandler(action string, handler http.HandlerFunc) http.Handler {
	return rlc.RateLimitMiddleware(action)(handler)
}

// LimitStatus is one action's bucket as the caller sees it.
type LimitStatus struct {
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
}

// Status reports the caller's remaining requests per limited action without consuming any.
// Actions whose bucket cannot be read are left out.
// @Summary Remaining rate-limited requests
// @Tags system
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Limits per action"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /rate-limits [get]
func (rlc *RateLimitConfig) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(
				errors.New("user not authenticated")))
			return
		}

		status := make(map[string]LimitStatus, len(rlc.limiters))
		for action, limiter := range rlc.limiters {
			decision, err := limiter.Peek(r.Context(), userID, action)
			if err != nil {
				slog.Warn("Rate limit status unavailable",
					slog.String("action", action),
					slog.String("error", err.Error()))
				continue
			}
			status[action] = LimitStatus{Limit: decision.Limit, Remaining: decision.Remaining}
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Rate limits retrieved", status))
	}
}
