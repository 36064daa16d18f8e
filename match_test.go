package strada

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPattern(t *testing.T, tpl string) *Pattern {
	t.Helper()
	p, err := parsePattern(tpl)
	require.NoError(t, err)
	return p
}

func TestMatchSegments(t *testing.T) {
	t.Run("literal match is exact and case sensitive", func(t *testing.T) {
		p := mustPattern(t, "/users/me")
		_, ok := matchSegments(p.segs, splitPath("/users/me"))
		assert.True(t, ok)

		_, ok = matchSegments(p.segs, splitPath("/users/Me"))
		assert.False(t, ok)

		_, ok = matchSegments(p.segs, splitPath("/users/me/extra"))
		assert.False(t, ok)
	})

	t.Run("param captures one segment", func(t *testing.T) {
		p := mustPattern(t, "/users/:id")
		params, ok := matchSegments(p.segs, splitPath("/users/42"))
		require.True(t, ok)
		assert.Equal(t, []Param{{Name: "id", Value: "42"}}, params)
	})

	t.Run("param rejects empty segment", func(t *testing.T) {
		p := mustPattern(t, "/users/:id")
		_, ok := matchSegments(p.segs, splitPath("/users/"))
		assert.False(t, ok)
	})

	t.Run("optional matches zero or one segment", func(t *testing.T) {
		p := mustPattern(t, "/animal/:type?")

		params, ok := matchSegments(p.segs, splitPath("/animal"))
		require.True(t, ok)
		assert.Empty(t, params)

		params, ok = matchSegments(p.segs, splitPath("/animal/dog"))
		require.True(t, ok)
		assert.Equal(t, []Param{{Name: "type", Value: "dog"}}, params)

		_, ok = matchSegments(p.segs, splitPath("/animal/dog/extra"))
		assert.False(t, ok)
	})

	t.Run("constrained param validates the segment", func(t *testing.T) {
		p := mustPattern(t, "/user/:id{[0-9]+}")

		params, ok := matchSegments(p.segs, splitPath("/user/42"))
		require.True(t, ok)
		assert.Equal(t, []Param{{Name: "id", Value: "42"}}, params)

		_, ok = matchSegments(p.segs, splitPath("/user/abc"))
		assert.False(t, ok)
	})

	t.Run("spanning constraint consumes whole segments", func(t *testing.T) {
		p := mustPattern(t, `/docs/:path{[a-z]+/[a-z]+}/raw`)

		params, ok := matchSegments(p.segs, splitPath("/docs/guide/intro/raw"))
		require.True(t, ok)
		assert.Equal(t, []Param{{Name: "path", Value: "guide/intro"}}, params)

		_, ok = matchSegments(p.segs, splitPath("/docs/guide/raw"))
		assert.False(t, ok)
	})

	t.Run("wildcard requires at least one segment", func(t *testing.T) {
		p := mustPattern(t, "/files/*")

		_, ok := matchSegments(p.segs, splitPath("/files"))
		assert.False(t, ok)

		params, ok := matchSegments(p.segs, splitPath("/files/a/b/c"))
		require.True(t, ok)
		assert.Empty(t, params)
	})

	t.Run("named wildcard captures the remainder", func(t *testing.T) {
		p := mustPattern(t, "/files/*path")
		params, ok := matchSegments(p.segs, splitPath("/files/a/b/c"))
		require.True(t, ok)
		assert.Equal(t, []Param{{Name: "path", Value: "a/b/c"}}, params)
	})

	t.Run("params preserve pattern order", func(t *testing.T) {
		p := mustPattern(t, "/:a/:b/:c")
		params, ok := matchSegments(p.segs, splitPath("/1/2/3"))
		require.True(t, ok)
		require.Len(t, params, 3)
		assert.Equal(t, "a", params[0].Name)
		assert.Equal(t, "b", params[1].Name)
		assert.Equal(t, "c", params[2].Name)
	})
}

func TestHelpers(t *testing.T) {
	t.Run("cleanPath removes dot segments", func(t *testing.T) {
		assert.Equal(t, "/a/c", cleanPath("/a/b/../c"))
		assert.Equal(t, "/", cleanPath(""))
		assert.Equal(t, "/a/", cleanPath("/a/"))
	})

	t.Run("splitPath", func(t *testing.T) {
		assert.Nil(t, splitPath("/"))
		assert.Equal(t, []string{"a", "b"}, splitPath("/a/b"))
		assert.Equal(t, []string{"a", ""}, splitPath("/a/"))
	})

	t.Run("trimTrailingSlash keeps root", func(t *testing.T) {
		assert.Equal(t, "/", trimTrailingSlash("/"))
		assert.Equal(t, "/a", trimTrailingSlash("/a/"))
		assert.Equal(t, "/a", trimTrailingSlash("/a"))
	})
}
