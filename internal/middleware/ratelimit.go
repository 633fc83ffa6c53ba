package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jbest-eyes/core/internal/pkg/response"
	"go.uber.org/zap"
)

// WindowCounter counts hits on key within a fixed window.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit returns a middleware that allows max requests per client IP per
// window. Counter failures let the request through.
func RateLimit(counter WindowCounter, max int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	if counter == nil || max <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	retryAfter := strconv.Itoa(int(math.Ceil(window.Seconds())))

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		bucket := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("jbest:rate_limit:%s:%d", ip, bucket)

		count, err := counter.IncrWindow(c.Request.Context(), key, window+time.Second)
		if err != nil {
			log.Warn("rate limit counter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > int64(max) {
			c.Header("Retry-After", retryAfter)
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
