package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimiter counts requests per client in fixed Redis windows
type RateLimiter struct {
	rdb      redis.Cmdable
	resource string
	limit    int
	window   time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window for resource
func NewRateLimiter(rdb redis.Cmdable, resource string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		resource: resource,
		limit:    limit,
		window:   window,
	}
}

// Allow records one request by id and reports whether it is within the limit
func (l *RateLimiter) Allow(ctx context.Context, id string) (bool, error) {
	if l.rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", l.resource, id)

	// INCR and set EXPIRE if new
	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(l.limit), nil
}

// Handler enforces the limit keyed by client IP. Redis failures let the request through.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, err := l.Allow(r.Context(), clientIP(r))
		if err != nil {
			rateLimitErrors.WithLabelValues(l.resource).Inc()
			log.Warn().Err(err).Str("resource", l.resource).Msg("Rate limit check failed, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			rateLimitedTotal.WithLabelValues(l.resource).Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			respondError(w, "Too many requests, please try again later.", "RATE_LIMITED", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
