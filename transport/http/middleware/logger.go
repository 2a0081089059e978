package middleware

import (
	"slices"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggerConfig controls what the request logger records.
type LoggerConfig struct {
	HeaderEnabled bool
	SkipPaths     []string
	Filter        func(c *gin.Context) bool
}

// DefaultLoggerConfig skips the operational endpoints.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		SkipPaths: []string{"/health", "/metrics"},
	}
}

// Logger creates a request logger with the default configuration.
func Logger() gin.HandlerFunc {
	return LoggerWithConfig(DefaultLoggerConfig())
}

// LoggerWithConfig creates a structured request logger.
func LoggerWithConfig(config LoggerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if shouldSkip(c, config) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		event := log.Info().
			Int("status", c.Writer.Status()).
			Str("method", c.Request.Method).
			Str("uri", c.Request.RequestURI).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP())

		if config.HeaderEnabled {
			event = event.Any("headers", c.Request.Header)
		}

		if requestID := c.Request.Header.Get("X-Request-Id"); requestID != "" {
			event = event.Str("request_id", requestID)
		}

		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.ByType(gin.ErrorTypePrivate).String())
		}

		event.Send()
	}
}

func shouldSkip(c *gin.Context, config LoggerConfig) bool {
	if config.Filter != nil {
		return config.Filter(c)
	}
	return slices.Contains(config.SkipPaths, c.Request.URL.Path)
}
