package strada

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainContext(t *testing.T, handlers ...HandlerFunc) *Context {
	t.Helper()
	c := newContext(httptest.NewRequest(http.MethodGet, "/x", nil))
	c.chain = handlers
	return c
}

func TestContextNext(t *testing.T) {
	t.Run("runs the chain in order", func(t *testing.T) {
		var order []int
		c := chainContext(t,
			func(c *Context) error { order = append(order, 0); return c.Next() },
			func(c *Context) error { order = append(order, 1); return nil },
			func(c *Context) error { order = append(order, 2); return c.NoContent(http.StatusOK) },
		)

		require.NoError(t, c.Next())
		assert.Equal(t, []int{0, 1, 2}, order)
		require.NotNil(t, c.resp)
	})

	t.Run("response short-circuits the remainder", func(t *testing.T) {
		ran := 0
		c := chainContext(t,
			func(c *Context) error { ran++; return c.Text(http.StatusOK, "early") },
			func(c *Context) error { ran++; return nil },
		)

		require.NoError(t, c.Next())
		assert.Equal(t, 1, ran)
	})

	t.Run("error stops the chain and propagates", func(t *testing.T) {
		ran := 0
		c := chainContext(t,
			func(c *Context) error { ran++; return assert.AnError },
			func(c *Context) error { ran++; return nil },
		)

		err := c.Next()
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, ran)
	})

	t.Run("error surfaces through every upstream Next", func(t *testing.T) {
		var seen []error
		c := chainContext(t,
			func(c *Context) error {
				err := c.Next()
				seen = append(seen, err)
				return err
			},
			func(c *Context) error { return assert.AnError },
		)

		err := c.Next()
		assert.ErrorIs(t, err, assert.AnError)
		require.Len(t, seen, 1)
		assert.ErrorIs(t, seen[0], assert.AnError)
	})

	t.Run("cancelled request aborts before the next handler", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/x", nil).WithContext(ctx)

		ran := 0
		c := newContext(req)
		c.chain = []HandlerFunc{
			func(c *Context) error {
				ran++
				cancel()
				return nil
			},
			func(c *Context) error { ran++; return nil },
		}

		err := c.Next()
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, ran)
	})

	t.Run("empty chain completes without a response", func(t *testing.T) {
		c := chainContext(t)
		require.NoError(t, c.Next())
		assert.Nil(t, c.resp)
	})
}

func TestContextAccessors(t *testing.T) {
	t.Run("params", func(t *testing.T) {
		c := chainContext(t)
		c.setMatch([]Param{{Name: "id", Value: "7"}}, "/users/:id")

		assert.Equal(t, "7", c.Param("id"))
		assert.Equal(t, "", c.Param("missing"))
		assert.Equal(t, "/users/:id", c.MatchedPattern())
	})

	t.Run("store", func(t *testing.T) {
		c := chainContext(t)

		_, ok := c.Get("k")
		assert.False(t, ok)

		c.Set("k", 42)
		v, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("query", func(t *testing.T) {
		c := newContext(httptest.NewRequest(http.MethodGet, "/x?q=go&page=2", nil))
		assert.Equal(t, "go", c.Query("q"))
		assert.Equal(t, "2", c.Query("page"))
		assert.Equal(t, "", c.Query("none"))
	})

	t.Run("request swap", func(t *testing.T) {
		c := chainContext(t)
		next := httptest.NewRequest(http.MethodPost, "/y", nil)
		c.SetRequest(next)
		assert.Equal(t, http.MethodPost, c.Method())
		assert.Equal(t, "/y", c.Path())
	})
}
