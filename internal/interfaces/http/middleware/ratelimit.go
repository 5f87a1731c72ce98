package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"adpilot/internal/infrastructure/ratelimit"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
)

// RateLimiter throttles a route per client IP over a sliding window shared
// by every instance through Redis.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	limit   ratelimit.Limit
	scope   string
	logger  logger.Interface
}

// NewRateLimiter returns nil when limiter is nil, which Limit treats as
// "no throttling".
func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, limit ratelimit.Limit, logger logger.Interface) *RateLimiter {
	if limiter == nil {
		return nil
	}
	return &RateLimiter{
		limiter: limiter,
		limit:   limit,
		scope:   scope,
		logger:  logger,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:ip:%s", rl.scope, c.ClientIP())

		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.limit)
		if err != nil {
			// Fail open: an unavailable Redis must not block logins.
			rl.logger.Warnw("rate limiter unavailable", "scope", rl.scope, "error", err)
			c.Next()
			return
		}

		if !allowed {
			rl.logger.Warnw("rate limit exceeded", "scope", rl.scope, "client_ip", c.ClientIP())
			abortWithError(c, errors.NewTooManyRequestsError("rate limit exceeded, please try again later"))
			return
		}

		c.Next()
	}
}
