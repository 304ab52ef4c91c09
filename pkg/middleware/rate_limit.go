package middleware

import (
	"bitwise74/contacts-api/pkg/ratelimit"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiterMiddleware limits every route separately per client IP.
// A nil limiter disables the check. Limiter failures let the request
// through.
func RateLimiterMiddleware(l ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		ok, err := l.Allow(c.Request.Context(), c.Request.Method+" "+route+"|"+c.ClientIP())
		if err != nil {
			zap.L().Warn("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many requests",
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Next()
	}
}
