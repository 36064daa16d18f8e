package middlewares

import (
	"fmt"
	"net/http"

	"github.com/strada-dev/strada"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// LogFunc is an optional callback invoked with the request and the
	// recovered value when a panic occurs. When nil, no logging is performed.
	LogFunc func(r *http.Request, err any)
}

// Recovery returns a middleware that recovers from panics in downstream
// handlers. A recovered panic becomes a chain error and reaches the
// router's error boundary like any other handler failure.
func Recovery(cfg RecoveryConfig) strada.HandlerFunc {
	return func(c *strada.Context) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				if cfg.LogFunc != nil {
					cfg.LogFunc(c.Request(), rec)
				}
				err = fmt.Errorf("recovered from panic: %v", rec)
			}
		}()

		return c.Next()
	}
}
