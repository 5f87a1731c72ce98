package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"adpilot/internal/shared/constants"
	"adpilot/internal/shared/logger"
)

// CustomLogger writes one structured line per request. Authorization
// failures log at warn level with the caller's identity so denied access
// can be traced per tenant.
func CustomLogger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		}

		if requestID := c.GetString(constants.ContextKeyRequestID); requestID != "" {
			args = append(args, "request_id", requestID)
		}
		if userID, ok := GetUserID(c); ok {
			args = append(args, "user_id", userID)
		}
		if home := GetHomeTenant(c); home != nil {
			args = append(args, "home_tenant", *home)
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", args...)
		case status == 401 || status == 403:
			log.Warnw("request rejected by access control", args...)
		case status >= 400:
			log.Infow("request completed with client error", args...)
		default:
			log.Debugw("request completed", args...)
		}
	}
}
