package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"clicker_webapp/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, redisClient remains nil
// and the limiters fall back to per-process counters.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Info("redis not configured, using in-memory rate limits")
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory rate limits", "addr", addr, "error", err)
		_ = client.Close()
		return
	}
	redisClient = client
	logger.Info("redis connected", "addr", addr)
}

// RedisPing reports Redis health for readiness checks; nil when not configured.
func RedisPing(ctx context.Context) error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Ping(ctx).Err()
}

// hit increments a fixed-window counter. ok is false when Redis failed.
func hit(ctx context.Context, key string, window time.Duration) (count int64, ok bool) {
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	if val == 1 {
		// first increment, set expiry
		redisClient.Expire(ctx, key, window)
	}
	return val, true
}

// RedisRateLimit implements a simple fixed-window rate limiter per client IP
// using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	fallback := newMemoryLimiter(maxRequests, window)
	return func(c *gin.Context) {
		ident := c.ClientIP()

		allowed := true
		if redisClient == nil {
			allowed = fallback.allow(ident, time.Now())
		} else {
			key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
			val, ok := hit(c.Request.Context(), key, window)
			if !ok {
				// on Redis error, fail-open (allow) but set header
				c.Header("X-RateLimit-Error", "redis-error")
			}
			allowed = val <= int64(maxRequests)
		}

		if !allowed {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited", "message": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// ActionRateLimit limits game actions per user (not per IP). Requires JWT to
// run before it.
func ActionRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	fallback := newMemoryLimiter(maxActions, window)
	return func(c *gin.Context) {
		userID := c.GetInt64(ContextUserID)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_credential", "message": "unauthorized"})
			return
		}
		ident := strconv.FormatInt(userID, 10)

		var count int64
		if redisClient == nil {
			if !fallback.allow(ident, time.Now()) {
				count = int64(maxActions) + 1
			}
		} else {
			key := "action_rl:" + ident + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
			val, ok := hit(c.Request.Context(), key, window)
			if !ok {
				c.Header("X-ActionRateLimit-Error", "redis-error")
			}
			count = val
			c.Header("X-ActionRateLimit-Limit", strconv.Itoa(maxActions))
			c.Header("X-ActionRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxActions)-val), 10))
		}

		if count > int64(maxActions) {
			RLBlocked.WithLabelValues("action:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limited",
				"message":     "too many actions",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("action:" + c.FullPath()).Inc()
		c.Next()
	}
}
