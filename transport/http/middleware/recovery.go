package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	klog "github.com/kochabx/ciphertrace/log"
)

// RecoveryConfig controls panic handling.
type RecoveryConfig struct {
	StackTrace bool
	Logger     *klog.Logger
}

// Recovery turns handler panics into 500 responses. Broken-pipe
// panics are logged at warn level and not answered, since the client
// is gone.
func Recovery(cfgs ...RecoveryConfig) gin.HandlerFunc {
	cfg := RecoveryConfig{StackTrace: true}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = klog.G
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				request, _ := httputil.DumpRequest(c.Request, false)

				if isBrokenPipe(err) {
					cfg.Logger.Warn().
						Str("error", fmt.Sprintf("%v", err)).
						Bytes("request", request).
						Msg("broken pipe")
					_ = c.Error(fmt.Errorf("%v", err))
					c.Abort()
					return
				}

				event := cfg.Logger.Error().
					Str("error", fmt.Sprintf("%v", err)).
					Bytes("request", request)
				if cfg.StackTrace {
					event = event.Bytes("stack", debug.Stack())
				}
				event.Msg("panic recovered")

				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

func isBrokenPipe(err any) bool {
	ne, ok := err.(*net.OpError)
	if !ok {
		return false
	}
	se, ok := ne.Err.(*os.SyscallError)
	if !ok {
		return false
	}
	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
