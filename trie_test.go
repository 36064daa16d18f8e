package strada

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrieMatcher(t *testing.T) {
	t.Run("literal lookup", func(t *testing.T) {
		m := newTrieMatcher()
		require.NoError(t, m.add(http.MethodGet, testEntry(t, 0, "/users/me")))

		c, ok := m.lookup(http.MethodGet, "/users/me")
		require.True(t, ok)
		assert.Equal(t, 0, c.entry.index)

		_, ok = m.lookup(http.MethodGet, "/users/other")
		assert.False(t, ok)
	})

	t.Run("param capture", func(t *testing.T) {
		m := newTrieMatcher()
		require.NoError(t, m.add(http.MethodGet, testEntry(t, 0, "/users/:id/posts/:post")))

		c, ok := m.lookup(http.MethodGet, "/users/7/posts/9")
		require.True(t, ok)
		assert.Equal(t, []Param{{Name: "id", Value: "7"}, {Name: "post", Value: "9"}}, c.params)
	})

	t.Run("optional param terminates at both depths", func(t *testing.T) {
		m := newTrieMatcher()
		require.NoError(t, m.add(http.MethodGet, testEntry(t, 0, "/animal/:type?")))

		c, ok := m.lookup(http.MethodGet, "/animal")
		require.True(t, ok)
		assert.Empty(t, c.params)

		c, ok = m.lookup(http.MethodGet, "/animal/dog")
		require.True(t, ok)
		assert.Equal(t, []Param{{Name: "type", Value: "dog"}}, c.params)

		_, ok = m.lookup(http.MethodGet, "/animal/dog/extra")
		assert.False(t, ok)
	})

	t.Run("constrained edges tried before params", func(t *testing.T) {
		m := newTrieMatcher()
		require.NoError(t, m.add(http.MethodGet, testEntry(t, 0, "/u/:name")))
		require.NoError(t, m.add(http.MethodGet, testEntry(t, 1, "/u/:id{[0-9]+}")))

		c, ok := m.lookup(http.MethodGet, "/u/42")
		require.True(t, ok)
		assert.Equal(t, 1, c.entry.index)
		assert.Equal(t, []Param{{Name: "id", Value: "42"}}, c.params)

		c, ok = m.lookup(http.MethodGet, "/u/bob")
		require.True(t, ok)
		assert.Equal(t, 0, c.entry.index)
	})

	t.Run("wildcard consumes the remainder", func(t *testing.T) {
		m := newTrieMatcher()
		require.NoError(t, m.add(http.MethodGet, testEntry(t, 0, "/files/*path")))

		c, ok := m.lookup(http.MethodGet, "/files/a/b/c")
		require.True(t, ok)
		assert.Equal(t, []Param{{Name: "path", Value: "a/b/c"}}, c.params)

		_, ok = m.lookup(http.MethodGet, "/files")
		assert.False(t, ok)
	})

	t.Run("backtracks from a dead literal branch", func(t *testing.T) {
		m := newTrieMatcher()
		require.NoError(t, m.add(http.MethodGet, testEntry(t, 0, "/a/b/c")))
		require.NoError(t, m.add(http.MethodGet, testEntry(t, 1, "/a/:x/d")))

		c, ok := m.lookup(http.MethodGet, "/a/b/d")
		require.True(t, ok)
		assert.Equal(t, 1, c.entry.index)
		assert.Equal(t, []Param{{Name: "x", Value: "b"}}, c.params)
	})

	t.Run("spanning constraint in the tree", func(t *testing.T) {
		m := newTrieMatcher()
		require.NoError(t, m.add(http.MethodGet, testEntry(t, 0, `/docs/:path{[a-z]+/[a-z]+}/raw`)))

		c, ok := m.lookup(http.MethodGet, "/docs/guide/intro/raw")
		require.True(t, ok)
		assert.Equal(t, []Param{{Name: "path", Value: "guide/intro"}}, c.params)
	})
}

// TestTrieLiteralPrecedence pins the trie's documented exception to the
// registration-order tie-break: literal edges beat parameter edges at
// the same depth even when the parameter route registered first.
func TestTrieLiteralPrecedence(t *testing.T) {
	m := newTrieMatcher()
	require.NoError(t, m.add(http.MethodGet, testEntry(t, 0, "/users/:id")))
	require.NoError(t, m.add(http.MethodGet, testEntry(t, 1, "/users/me")))

	c, ok := m.lookup(http.MethodGet, "/users/me")
	require.True(t, ok)
	assert.Equal(t, "/users/me", c.entry.pattern.template)
	assert.Empty(t, c.params)

	c, ok = m.lookup(http.MethodGet, "/users/42")
	require.True(t, ok)
	assert.Equal(t, "/users/:id", c.entry.pattern.template)
}
