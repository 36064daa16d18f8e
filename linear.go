package strada

// linearMatcher stores entries per method in registration order and
// tests each pattern segment by segment. O(entries × segments) per
// lookup, but it supports every pattern shape and has no compile step,
// so entries may be appended at any time.
type linearMatcher struct {
	entries map[string][]*routeEntry
}

func newLinearMatcher() *linearMatcher {
	return &linearMatcher{entries: make(map[string][]*routeEntry)}
}

func (m *linearMatcher) add(method string, ent *routeEntry) error {
	m.entries[method] = append(m.entries[method], ent)
	return nil
}

func (m *linearMatcher) lookup(method, path string) (candidate, bool) {
	parts := splitPath(path)
	for _, ent := range m.entries[method] {
		if params, ok := matchSegments(ent.pattern.segs, parts); ok {
			return candidate{entry: ent, params: params}, true
		}
	}
	return candidate{}, false
}
