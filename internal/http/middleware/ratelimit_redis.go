package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"cryptofarm/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter shares a Redis client with the middleware. If the
// ping fails the client is dropped and limits fall back to in-process.
func InitRedisRateLimiter(client *redis.Client) {
	if client == nil {
		redisClient = nil
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis rate limiter disabled", "error", err)
		redisClient = nil
		return
	}
	redisClient = client
}

// RedisRateLimit implements a fixed-window limiter using INCR/EXPIRE,
// keyed by client IP. key format: rl:<window_seconds>:<identifier>.
// Without Redis it uses the in-process limiter.
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	local := LocalRateLimit(maxRequests, window)
	return func(c *gin.Context) {
		if redisClient == nil {
			local(c)
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		ctx := c.Request.Context()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// fail-open
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
