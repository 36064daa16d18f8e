package strada

import "fmt"

// simpleMatcher is the fallback of last resort: a linear matcher
// restricted to literal, param and optional-param segments. It never
// evaluates a regular expression, so it is the cheapest strategy to
// build and run for the shapes it accepts.
type simpleMatcher struct {
	entries map[string][]*routeEntry
}

func newSimpleMatcher() *simpleMatcher {
	return &simpleMatcher{entries: make(map[string][]*routeEntry)}
}

func (m *simpleMatcher) add(method string, ent *routeEntry) error {
	for _, seg := range ent.pattern.segs {
		switch seg.kind {
		case segConstrained, segWildcard:
			return fmt.Errorf("%s segment in %q: %w", seg.kind, ent.pattern.template, ErrUnsupportedPattern)
		}
	}
	m.entries[method] = append(m.entries[method], ent)
	return nil
}

func (m *simpleMatcher) lookup(method, path string) (candidate, bool) {
	parts := splitPath(path)
	for _, ent := range m.entries[method] {
		if params, ok := matchSegments(ent.pattern.segs, parts); ok {
			return candidate{entry: ent, params: params}, true
		}
	}
	return candidate{}, false
}
