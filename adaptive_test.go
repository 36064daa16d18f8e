package strada

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptiveRouter(t *testing.T) {
	t.Run("first accepting strategy serves the pattern", func(t *testing.T) {
		a := newAdaptiveRouter([]StrategyKind{StrategyRegexp, StrategyTrie})
		require.NoError(t, a.register(http.MethodGet, testEntry(t, 0, "/users/:id")))

		// Wildcards fall through the combined expression to the trie.
		require.NoError(t, a.register(http.MethodGet, testEntry(t, 1, "/files/*path")))

		c, ok := a.lookup(http.MethodGet, "/users/9")
		require.True(t, ok)
		assert.Equal(t, 0, c.entry.index)

		c, ok = a.lookup(http.MethodGet, "/files/a/b")
		require.True(t, ok)
		assert.Equal(t, 1, c.entry.index)
		assert.Equal(t, []Param{{Name: "path", Value: "a/b"}}, c.params)
	})

	t.Run("smallest registration index wins across instances", func(t *testing.T) {
		a := newAdaptiveRouter([]StrategyKind{StrategyRegexp, StrategyTrie})
		// The param lands in the combined expression, the wildcard in the
		// trie; both match /v/one and the earlier registration wins.
		require.NoError(t, a.register(http.MethodGet, testEntry(t, 0, "/v/:x")))
		require.NoError(t, a.register(http.MethodGet, testEntry(t, 1, "/v/*rest")))

		c, ok := a.lookup(http.MethodGet, "/v/one")
		require.True(t, ok)
		assert.Equal(t, 0, c.entry.index)
	})

	t.Run("every strategy rejecting is a registration error", func(t *testing.T) {
		a := newAdaptiveRouter([]StrategyKind{StrategySimple})
		err := a.register(http.MethodGet, testEntry(t, 0, "/a/:x{[0-9]+}"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedPattern)
	})

	t.Run("linear fallback accepts everything", func(t *testing.T) {
		a := newAdaptiveRouter([]StrategyKind{StrategySimple, StrategyLinear})
		require.NoError(t, a.register(http.MethodGet, testEntry(t, 0, `/d/:p{[a-z]+/[a-z]+}`)))

		c, ok := a.lookup(http.MethodGet, "/d/x/y")
		require.True(t, ok)
		assert.Equal(t, []Param{{Name: "p", Value: "x/y"}}, c.params)
	})

	t.Run("no match", func(t *testing.T) {
		a := newAdaptiveRouter([]StrategyKind{StrategyRegexp, StrategyTrie})
		require.NoError(t, a.register(http.MethodGet, testEntry(t, 0, "/a")))

		_, ok := a.lookup(http.MethodGet, "/b")
		assert.False(t, ok)
	})
}
