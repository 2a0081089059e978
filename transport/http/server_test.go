package http

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestOperationalEndpoints(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	NewServer(":0", r,
		WithMetricsOptions(MetricsOption{Enabled: true}),
		WithHealthOptions(HealthOption{Enabled: true}),
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, stdhttp.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, stdhttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ciphertrace_active_sessions")
}

func TestServerRunAndShutdown(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	s := NewServer("127.0.0.1:18472", gin.New())

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, stdhttp.ErrServerClosed)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}
