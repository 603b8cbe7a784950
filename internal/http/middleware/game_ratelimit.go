package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ActionRateLimit limits game actions per player (not per IP) using Redis,
// falling back to the in-process limiter. Requires JWT to run before it.
func ActionRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	local := newLocalLimiter(maxActions, window)
	return func(c *gin.Context) {
		playerID, ok := PlayerID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if redisClient == nil {
			if !local.allow(playerID, time.Now()) {
				blockAction(c, window)
				return
			}
			RLRequests.WithLabelValues("action:" + c.FullPath()).Inc()
			c.Next()
			return
		}

		key := "action_rl:" + playerID + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		ctx := c.Request.Context()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			c.Header("X-ActionRateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		c.Header("X-ActionRateLimit-Limit", strconv.Itoa(maxActions))
		c.Header("X-ActionRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxActions)-val), 10))

		if val > int64(maxActions) {
			blockAction(c, window)
			return
		}

		RLRequests.WithLabelValues("action:" + c.FullPath()).Inc()
		c.Next()
	}
}

func blockAction(c *gin.Context, window time.Duration) {
	RLBlocked.WithLabelValues("action:" + c.FullPath()).Inc()
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       "action rate limit exceeded",
		"retry_after": int(window.Seconds()),
	})
}
