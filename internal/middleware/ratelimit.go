package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mouwaficbdr/my-facebook/internal/logger"
	"github.com/mouwaficbdr/my-facebook/internal/ratelimit"
	"github.com/mouwaficbdr/my-facebook/pkg/apperrors"
)

// RateLimit bounds attempts per client IP for one action. It runs before
// binding and validation, so over-budget clients cost one counter lookup
// and nothing else.
func RateLimit(limiter *ratelimit.Limiter, action string, policy ratelimit.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(action, c.ClientIP(), policy) {
			logger.CtxWarn(c.Request.Context(), "rate limit exceeded",
				"action", action,
				"ip", c.ClientIP(),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Success: false,
				Message: apperrors.ErrRateLimited.Message,
			})
			return
		}
		c.Next()
	}
}
