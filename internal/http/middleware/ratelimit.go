package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"truco_server/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

// InitRedisRateLimiter подключает redis для лимитера; пустой addr
// оставляет лимитер выключенным (все запросы проходят)
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Info("rate limiter disabled: no redis address")
		return
	}

	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("rate limiter disabled: redis ping failed", "error", err)
		rdb = nil
		return
	}
	logger.Info("rate limiter enabled", "addr", addr)
}

// RateLimit - фиксированное окно по ip+path через INCR/EXPIRE
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rl:%s:%s", c.ClientIP(), c.FullPath())
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// redis недоступен - не роняем запросы из-за лимитера
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
