package middlewares

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/strada-dev/strada"
)

// ErrInvalidTimeout is returned when TimeoutConfig.Duration is not
// greater than zero.
var ErrInvalidTimeout = errors.New("timeout: duration must be greater than zero")

// TimeoutConfig configures the Timeout middleware behaviour.
type TimeoutConfig struct {
	// Duration is the maximum time allowed for the rest of the chain to
	// complete. Must be greater than zero.
	Duration time.Duration

	// Message is the response body returned when the chain times out.
	// When empty, the 504 status text is used.
	Message string
}

// Timeout returns a middleware that attaches a deadline to the request
// context. Downstream handlers observe the deadline through the usual
// context plumbing; when the chain fails with DeadlineExceeded the
// middleware converts the failure into a 504 response.
//
// It returns ErrInvalidTimeout if Duration is not greater than zero.
func Timeout(cfg TimeoutConfig) (strada.HandlerFunc, error) {
	if cfg.Duration <= 0 {
		return nil, ErrInvalidTimeout
	}

	message := cfg.Message
	if message == "" {
		message = http.StatusText(http.StatusGatewayTimeout)
	}

	return func(c *strada.Context) error {
		req := c.Request()
		ctx, cancel := context.WithTimeout(req.Context(), cfg.Duration)
		defer cancel()
		c.SetRequest(req.WithContext(ctx))

		err := c.Next()
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Text(http.StatusGatewayTimeout, message)
		}
		return err
	}, nil
}
