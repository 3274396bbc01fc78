package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/chatcore/internal/apperr"
	"github.com/HammerMeetNail/chatcore/internal/logging"
)

// RateLimiter counts requests per key in fixed redis windows.
type RateLimiter struct {
	redis    *redis.Client
	limit    int64
	window   time.Duration
	prefix   string
	keyFunc  func(r *http.Request) string
	failOpen bool
	logger   *logging.Logger
}

// NewRateLimiter builds a limiter. keyFunc picks the bucket for a request;
// an empty key skips limiting. With failOpen set, requests pass when redis is
// unavailable; otherwise they are rejected with 503.
func NewRateLimiter(redisClient *redis.Client, limit int64, window time.Duration, prefix string, keyFunc func(r *http.Request) string, failOpen bool) *RateLimiter {
	if keyFunc == nil {
		keyFunc = GetClientIP
	}
	return &RateLimiter{
		redis:    redisClient,
		limit:    limit,
		window:   window,
		prefix:   prefix,
		keyFunc:  keyFunc,
		failOpen: failOpen,
		logger:   logging.Default.WithField("component", "ratelimit"),
	}
}

// NewLoginRateLimiter limits auth endpoints per client IP per minute.
func NewLoginRateLimiter(redisClient *redis.Client, limit int64) *RateLimiter {
	return NewRateLimiter(redisClient, limit, time.Minute, "ratelimit:auth:", GetClientIP, true)
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.keyFunc(r)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		if rl.redis == nil {
			rl.unavailable(w, r, next)
			return
		}

		allowed, remaining, resetTime, err := rl.isAllowed(r.Context(), rl.prefix+key)
		if err != nil {
			rl.logger.Warn("rate limiter unavailable", map[string]interface{}{
				"path":  r.URL.Path,
				"error": err.Error(),
			})
			rl.unavailable(w, r, next)
			return
		}

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime))

		if !allowed {
			retryAfter := resetTime - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			writeError(w, http.StatusTooManyRequests, apperr.CodeRateLimited, "Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) unavailable(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if rl.failOpen {
		next.ServeHTTP(w, r)
		return
	}
	writeError(w, http.StatusServiceUnavailable, apperr.CodeInternal, "Service temporarily unavailable")
}

func (rl *RateLimiter) isAllowed(ctx context.Context, key string) (allowed bool, remaining int64, resetTime int64, err error) {
	now := time.Now()
	windowEnd := now.Truncate(rl.window).Add(rl.window)

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, rl.window)
	if _, err = pipe.Exec(ctx); err != nil {
		return true, rl.limit, windowEnd.Unix(), err
	}

	count := incrCmd.Val()
	remaining = rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.limit, remaining, windowEnd.Unix(), nil
}

// GetClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then
// the connection's remote address.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if host, _, err := net.SplitHostPort(first); err == nil {
			return host
		}
		return first
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  apperr.Code `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code apperr.Code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: code})
}
