package middleware

import (
	"context"
	"strconv"
	"time"

	apperrors "github.com/NomadCrew/vacation-recommender/errors"
	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/gin-gonic/gin"
)

// RateLimiter counts requests per key within a fixed window.
type RateLimiter interface {
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, retryAfter time.Duration, err error)
}

// GenerateRateLimiter bounds how often one client may start a generation run,
// since every run costs up to three completion calls. It fails open when the
// limiter backend is unavailable.
func GenerateRateLimiter(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	log := logger.GetLogger().Named("rate-limit")

	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := "generate:" + c.ClientIP()
		allowed, remaining, retryAfter, err := limiter.CheckLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			log.Warnw("Rate limit check failed, allowing request", "key", key, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			seconds := int(retryAfter.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(retryAfter).Unix(), 10))
			c.Header("Retry-After", strconv.Itoa(seconds))

			_ = c.Error(apperrors.RateLimitExceeded("Too many requests. Please try again later.", seconds))
			c.Abort()
			return
		}

		c.Next()
	}
}
