package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/strada-dev/strada"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeout(t *testing.T) {
	t.Run("rejects a non-positive duration", func(t *testing.T) {
		_, err := Timeout(TimeoutConfig{})
		assert.ErrorIs(t, err, ErrInvalidTimeout)

		_, err = Timeout(TimeoutConfig{Duration: -time.Second})
		assert.ErrorIs(t, err, ErrInvalidTimeout)
	})

	t.Run("fast chains are unaffected", func(t *testing.T) {
		mw, err := Timeout(TimeoutConfig{Duration: time.Second})
		require.NoError(t, err)

		r := strada.New()
		require.NoError(t, r.Use(mw))
		require.NoError(t, r.Get("/x", func(c *strada.Context) error {
			return c.Text(http.StatusOK, "done")
		}))

		rec := serve(t, r, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("expired deadline becomes 504", func(t *testing.T) {
		mw, err := Timeout(TimeoutConfig{Duration: 5 * time.Millisecond})
		require.NoError(t, err)

		r := strada.New()
		require.NoError(t, r.Use(mw))
		require.NoError(t, r.Get("/slow", func(c *strada.Context) error {
			select {
			case <-c.Request().Context().Done():
				return c.Request().Context().Err()
			case <-time.After(time.Second):
				return c.NoContent(http.StatusOK)
			}
		}))

		rec := serve(t, r, httptest.NewRequest(http.MethodGet, "/slow", nil))
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})

	t.Run("custom message", func(t *testing.T) {
		mw, err := Timeout(TimeoutConfig{Duration: 5 * time.Millisecond, Message: "too slow"})
		require.NoError(t, err)

		r := strada.New()
		require.NoError(t, r.Use(mw))
		require.NoError(t, r.Get("/slow", func(c *strada.Context) error {
			<-c.Request().Context().Done()
			return c.Request().Context().Err()
		}))

		rec := serve(t, r, httptest.NewRequest(http.MethodGet, "/slow", nil))
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.Equal(t, "too slow", rec.Body.String())
	})
}
