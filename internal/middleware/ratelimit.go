package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/estateflow/backend/pkg/response"
)

// LoginRateLimit throttles credential attempts per client IP using a Redis
// counter with a fixed window. Redis failures log and let the request
// through so an outage cannot lock everyone out of login.
func LoginRateLimit(rdb *redis.Client, maxAttempts int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:login:%s", c.ClientIP())
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("login rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				logger.Warn("login rate limit expire", zap.Error(err))
			}
		}
		if count > int64(maxAttempts) {
			response.TooManyRequests(c, "too many login attempts, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
