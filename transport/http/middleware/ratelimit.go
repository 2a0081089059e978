package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/ciphertrace/core/rate"
)

// RateLimit rejects requests with 429 once the client's bucket is
// empty. Clients are keyed by IP.
func RateLimit(limiter rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many requests",
			})
			return
		}
		c.Next()
	}
}
