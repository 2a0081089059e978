package http

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabx/ciphertrace/core/rate"
	"github.com/kochabx/ciphertrace/transport/http/middleware"
)

type routerOptions struct {
	limiter rate.Limiter
}

type RouterOption func(*routerOptions)

// WithRateLimiter replaces the default per-IP limiter. A nil limiter
// disables rate limiting.
func WithRateLimiter(l rate.Limiter) RouterOption {
	return func(o *routerOptions) {
		o.limiter = l
	}
}

// NewRouter builds the gin engine with the standard middleware chain
// and the trace API mounted under /api/v1.
func NewRouter(h *Handler, opts ...RouterOption) *gin.Engine {
	options := routerOptions{
		limiter: rate.NewTokenBucket(20, 40),
	}
	for _, opt := range opts {
		opt(&options)
	}

	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logger(), middleware.Cors())

	v1 := r.Group("/api/v1")
	if options.limiter != nil {
		v1.Use(middleware.RateLimit(options.limiter))
	}
	{
		tr := v1.Group("/trace")
		tr.POST("/caesar", h.TraceCaesar)
		tr.POST("/aes", h.TraceAES)
		tr.POST("/rsa", h.TraceRSA)
		tr.GET("/:id/qr", h.ShareQR)
	}

	return r
}
