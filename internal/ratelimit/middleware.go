package ratelimit

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gojobs/internal/logger"
)

// Limit describes one fixed window: at most Max requests per Window.
type Limit struct {
	Window time.Duration
	Max    int
}

// Middleware returns a Gin middleware enforcing the limit per client IP.
// The group name keeps counters for different route groups independent, so
// a client exhausting one group's budget still has the others. Store errors
// fail open: an unreachable backend degrades limiting, not the API.
func Middleware(store Store, group string, limit Limit, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := group + ":" + c.ClientIP()

		count, err := store.Incr(c.Request.Context(), key, limit.Window)
		if err != nil {
			log.Warn("rate limit store unavailable, allowing request",
				logger.String("group", group),
				logger.Error(err),
			)
			c.Next()
			return
		}

		if count > int64(limit.Max) {
			log.Debug("rate limit exceeded",
				logger.String("group", group),
				logger.String("client_ip", c.ClientIP()),
				logger.Int64("count", count),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests, please try again later.",
			})
			return
		}

		c.Next()
	}
}
