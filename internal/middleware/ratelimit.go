package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimiter limits requests per minute per IP+path using Redis INCR with TTL.
// Redis failures let the request through.
func RateLimiter(rdb redis.Cmdable, requestsPerMinute int, logger zerolog.Logger) func(http.Handler) http.Handler {
	limit := int64(requestsPerMinute)
	if limit <= 0 {
		limit = 60
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, _ := net.SplitHostPort(r.RemoteAddr)
			if ip == "" {
				ip = r.RemoteAddr
			}
			key := "primepass:rl:" + r.URL.Path + ":" + ip
			pipe := rdb.TxPipeline()
			incr := pipe.Incr(r.Context(), key)
			pipe.Expire(r.Context(), key, time.Minute)
			if _, err := pipe.Exec(r.Context()); err != nil {
				logger.Warn().Err(err).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			remaining := limit - incr.Val()
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(max(remaining, 0), 10))
			if remaining < 0 {
				w.Header().Set("Retry-After", strconv.Itoa(60))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
