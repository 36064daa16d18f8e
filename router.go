package strada

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// methodAny marks middleware entries, which match every request method.
const methodAny = "ANY"

// httpMethods is the probe set used by Any and by the Allow-header
// computation on 405 responses.
var httpMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// routeEntry is one registered route. Entries live in the route table's
// append-only arena; matcher strategies reference them by pointer and
// never copy them. The registration index is assigned monotonically,
// never reused, and is the tie-break when two entries match the same
// request.
type routeEntry struct {
	methods  []string
	pattern  *Pattern
	handlers []HandlerFunc
	index    int
}

// mountLink composes a child route table into this one under a path
// prefix. The link holds a reference to the child, not a snapshot; its
// registration index represents the whole subtree when competing with
// the parent's own entries.
type mountLink struct {
	prefix *Pattern
	child  *Router
	index  int
}

// Router is the route table: an append-only arena of route entries, an
// adaptive matcher over them, ANY-method middleware, mounts, and the
// per-table not-found, method-not-allowed and error-boundary handlers.
//
// Register every route before the first request touches the table.
// Registration mutates shared matcher state and is not synchronized
// against concurrent lookups; late registration is only safe with
// external locking.
type Router struct {
	entries    []*routeEntry
	adaptive   *adaptiveRouter
	middleware []*routeEntry
	mounts     []*mountLink

	nextIndex int

	notFound         HandlerFunc
	methodNotAllowed HandlerFunc
	errorHandler     ErrorHandler

	strictSlash bool
	kinds       []StrategyKind
}

// New builds an empty route table. The default strategy order is
// [StrategyRegexp, StrategyTrie] and trailing slashes are significant.
func New(opts ...Option) *Router {
	r := &Router{
		strictSlash: true,
		kinds:       []StrategyKind{StrategyRegexp, StrategyTrie},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.adaptive = newAdaptiveRouter(r.kinds)
	return r
}

// Handle compiles the pattern, assigns the next registration index and
// offers the entry to the configured strategies. It fails when the
// pattern is malformed or no strategy accepts it; both are
// configuration errors reported here, never at request time.
func (r *Router) Handle(method, pattern string, handlers ...HandlerFunc) error {
	return r.On([]string{method}, pattern, handlers...)
}

// On registers one entry, under one registration index, for several
// methods at once.
func (r *Router) On(methods []string, pattern string, handlers ...HandlerFunc) error {
	if len(methods) == 0 {
		return fmt.Errorf("strada: no methods for pattern %q", pattern)
	}
	if len(handlers) == 0 {
		return fmt.Errorf("strada: no handlers for pattern %q", pattern)
	}

	pat, err := r.compile(pattern)
	if err != nil {
		return err
	}

	ent := &routeEntry{methods: methods, pattern: pat, handlers: handlers, index: r.nextIndex}
	r.nextIndex++

	for _, method := range methods {
		if err := r.adaptive.register(method, ent); err != nil {
			return err
		}
	}
	r.entries = append(r.entries, ent)
	return nil
}

// Get registers a GET route.
func (r *Router) Get(pattern string, handlers ...HandlerFunc) error {
	return r.Handle(http.MethodGet, pattern, handlers...)
}

// Post registers a POST route.
func (r *Router) Post(pattern string, handlers ...HandlerFunc) error {
	return r.Handle(http.MethodPost, pattern, handlers...)
}

// Put registers a PUT route.
func (r *Router) Put(pattern string, handlers ...HandlerFunc) error {
	return r.Handle(http.MethodPut, pattern, handlers...)
}

// Delete registers a DELETE route.
func (r *Router) Delete(pattern string, handlers ...HandlerFunc) error {
	return r.Handle(http.MethodDelete, pattern, handlers...)
}

// Patch registers a PATCH route.
func (r *Router) Patch(pattern string, handlers ...HandlerFunc) error {
	return r.Handle(http.MethodPatch, pattern, handlers...)
}

// Head registers a HEAD route.
func (r *Router) Head(pattern string, handlers ...HandlerFunc) error {
	return r.Handle(http.MethodHead, pattern, handlers...)
}

// Options registers an OPTIONS route.
func (r *Router) Options(pattern string, handlers ...HandlerFunc) error {
	return r.Handle(http.MethodOptions, pattern, handlers...)
}

// Any registers one entry matching every probe method.
func (r *Router) Any(pattern string, handlers ...HandlerFunc) error {
	return r.On(httpMethods, pattern, handlers...)
}

// Use registers middleware applied to every request, including the
// implicit not-found and method-not-allowed chains. Matching middleware
// merges ahead of the terminal handlers in its own registration order.
func (r *Router) Use(handlers ...HandlerFunc) error {
	if len(handlers) == 0 {
		return fmt.Errorf("strada: no middleware handlers")
	}
	ent := &routeEntry{methods: []string{methodAny}, handlers: handlers, index: r.nextIndex}
	r.nextIndex++
	r.middleware = append(r.middleware, ent)
	return nil
}

// UseAt registers middleware that only applies when its pattern matches
// the full request path.
func (r *Router) UseAt(pattern string, handlers ...HandlerFunc) error {
	if len(handlers) == 0 {
		return fmt.Errorf("strada: no middleware handlers for pattern %q", pattern)
	}
	pat, err := r.compile(pattern)
	if err != nil {
		return err
	}
	ent := &routeEntry{methods: []string{methodAny}, pattern: pat, handlers: handlers, index: r.nextIndex}
	r.nextIndex++
	r.middleware = append(r.middleware, ent)
	return nil
}

// Mount links child under prefix. The prefix may carry parameters;
// prefix captures merge with the child's own parameters, the child
// winning on name collision. The child's middleware keeps applying to
// requests routed through the mount. The link references the child
// table, it does not snapshot it.
func (r *Router) Mount(prefix string, child *Router) error {
	if child == nil {
		return fmt.Errorf("strada: nil child router for prefix %q", prefix)
	}
	pat, err := r.compile(prefix)
	if err != nil {
		return err
	}
	for _, seg := range pat.segs {
		if seg.kind == segOptional || seg.kind == segWildcard {
			return &PatternError{Pattern: prefix, Err: errMountPrefix}
		}
	}
	r.mounts = append(r.mounts, &mountLink{prefix: pat, child: child, index: r.nextIndex})
	r.nextIndex++
	return nil
}

// NotFound replaces the reserved not-found handler. It runs as the
// terminal handler of an implicit chain of matching middleware.
func (r *Router) NotFound(h HandlerFunc) { r.notFound = h }

// MethodNotAllowed replaces the method-not-allowed handler. The Allow
// header is set on the settled response regardless of the handler.
func (r *Router) MethodNotAllowed(h HandlerFunc) { r.methodNotAllowed = h }

// OnError installs the error boundary for this table. Boundaries are
// per-table state, never package globals, so independent tables do not
// interfere.
func (r *Router) OnError(h ErrorHandler) { r.errorHandler = h }

// compile parses a pattern string, applying the table's trailing-slash
// policy first.
func (r *Router) compile(pattern string) (*Pattern, error) {
	if !r.strictSlash {
		pattern = trimTrailingSlash(pattern)
	}
	return parsePattern(pattern)
}

// normalize canonicalizes a request path for matching.
func (r *Router) normalize(path string) string {
	path = cleanPath(path)
	if !r.strictSlash {
		path = trimTrailingSlash(path)
	}
	return path
}

// Match is the result of a successful lookup: the full handler chain
// (matching middleware ahead of the route handlers), the captured
// parameters in pattern order and the matched route template.
type Match struct {
	Handlers []HandlerFunc
	Params   []Param
	Pattern  string

	index int
}

// Lookup resolves a method and path against the table without
// dispatching anything. Two identical lookups against an unchanged
// table return identical results.
func (r *Router) Lookup(method, path string) (*Match, bool) {
	return r.lookupPath(method, r.normalize(path))
}

// lookupPath finds the earliest-registered candidate among the table's
// own entries and its mounts, then merges matching middleware ahead of
// the route handlers.
func (r *Router) lookupPath(method, path string) (*Match, bool) {
	best, ok := r.routeCandidate(method, path)
	if !ok {
		return nil, false
	}
	chain := append(r.matchingMiddleware(path), best.Handlers...)
	return &Match{Handlers: chain, Params: best.Params, Pattern: best.Pattern, index: best.index}, true
}

// routeCandidate resolves routes only, without middleware. Shared by
// lookups and the Allow-header probe.
func (r *Router) routeCandidate(method, path string) (*Match, bool) {
	var best *Match

	if c, ok := r.adaptive.lookup(method, path); ok {
		best = &Match{
			Handlers: c.entry.handlers,
			Params:   c.params,
			Pattern:  c.entry.pattern.template,
			index:    c.entry.index,
		}
	}

	for _, link := range r.mounts {
		if best != nil && best.index < link.index {
			continue
		}
		prefixParams, remainder, ok := link.matchPrefix(path)
		if !ok {
			continue
		}
		childMatch, ok := link.child.Lookup(method, remainder)
		if !ok {
			continue
		}
		m := &Match{
			Handlers: childMatch.Handlers,
			Params:   mergeParams(prefixParams, childMatch.Params),
			Pattern:  joinPattern(link.prefix.template, childMatch.Pattern),
			index:    link.index,
		}
		if best == nil || m.index < best.index {
			best = m
		}
	}

	if best == nil {
		return nil, false
	}
	return best, true
}

// matchPrefix consumes the leading path segments the prefix pattern
// covers, returning its captures and the remaining sub-path.
func (l *mountLink) matchPrefix(path string) ([]Param, string, bool) {
	parts := splitPath(path)
	var params []Param

	for _, seg := range l.prefix.segs {
		switch seg.kind {
		case segLiteral:
			if len(parts) == 0 || parts[0] != seg.literal {
				return nil, "", false
			}
			parts = parts[1:]
		case segParam:
			if len(parts) == 0 || parts[0] == "" {
				return nil, "", false
			}
			params = append(params, Param{Name: seg.name, Value: parts[0]})
			parts = parts[1:]
		case segConstrained:
			rest, value, ok := matchConstraint(seg, parts)
			if !ok {
				return nil, "", false
			}
			params = append(params, Param{Name: seg.name, Value: value})
			parts = rest
		}
	}

	return params, "/" + strings.Join(parts, "/"), true
}

// mergeParams appends child params after prefix params, a child value
// replacing a prefix capture of the same name in place.
func mergeParams(prefix, child []Param) []Param {
	merged := make([]Param, len(prefix), len(prefix)+len(child))
	copy(merged, prefix)
outer:
	for _, cp := range child {
		for i := range merged {
			if merged[i].Name == cp.Name {
				merged[i].Value = cp.Value
				continue outer
			}
		}
		merged = append(merged, cp)
	}
	return merged
}

func joinPattern(prefix, child string) string {
	if prefix == "/" {
		return child
	}
	if child == "/" {
		return prefix
	}
	return prefix + child
}

// matchingMiddleware returns the handlers of every ANY-method
// middleware entry whose pattern matches the path, in registration
// order. Entries registered with Use carry no pattern and match every
// path.
func (r *Router) matchingMiddleware(path string) []HandlerFunc {
	if len(r.middleware) == 0 {
		return nil
	}
	parts := splitPath(path)
	var hs []HandlerFunc
	for _, ent := range r.middleware {
		if ent.pattern != nil {
			if _, ok := matchSegments(ent.pattern.segs, parts); !ok {
				continue
			}
		}
		hs = append(hs, ent.handlers...)
	}
	return hs
}

// allowedMethods probes which other methods would match the path, for
// the Allow header on 405 responses. Sorted alphabetically per
// RFC 9110 Section 10.2.1.
func (r *Router) allowedMethods(method, path string) []string {
	var allowed []string
	for _, m := range httpMethods {
		if m == method {
			continue
		}
		if _, ok := r.routeCandidate(m, path); ok {
			allowed = append(allowed, m)
		}
	}
	sort.Strings(allowed)
	return allowed
}

// ServeHTTP is the platform entry point: it builds the per-request
// Context, resolves the chain, dispatches it and writes the deferred
// response. Implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := r.normalize(req.URL.Path)

	c := newContext(req)
	var allow []string

	if m, ok := r.lookupPath(req.Method, path); ok {
		c.setMatch(m.Params, m.Pattern)
		c.chain = m.Handlers
	} else {
		mw := r.matchingMiddleware(path)
		if allow = r.allowedMethods(req.Method, path); len(allow) > 0 {
			terminal := r.methodNotAllowed
			if terminal == nil {
				terminal = defaultMethodNotAllowed
			}
			c.chain = append(mw, terminal)
		} else {
			terminal := r.notFound
			if terminal == nil {
				terminal = defaultNotFound
			}
			c.chain = append(mw, terminal)
		}
	}

	r.dispatch(c)

	resp := c.resp
	if resp == nil {
		// The error boundary itself failed to produce a response; this
		// is the one place the core gives up.
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if len(allow) > 0 {
		resp.Header().Set("Allow", strings.Join(allow, ", "))
	}
	resp.write(w)
}

// RouteInfo describes one registered route for introspection.
type RouteInfo struct {
	Methods []string
	Pattern string
}

// Routes returns the table's routes, mounted subtrees flattened under
// their prefix.
func (r *Router) Routes() []RouteInfo {
	var infos []RouteInfo
	for _, ent := range r.entries {
		infos = append(infos, RouteInfo{Methods: ent.methods, Pattern: ent.pattern.template})
	}
	for _, link := range r.mounts {
		for _, ri := range link.child.Routes() {
			infos = append(infos, RouteInfo{
				Methods: ri.Methods,
				Pattern: joinPattern(link.prefix.template, ri.Pattern),
			})
		}
	}
	return infos
}

// Group returns a registration view that prepends prefix to every
// pattern at compile time. Unlike Mount it creates no composition link:
// grouped routes are ordinary entries of this table.
type Group struct {
	router *Router
	prefix string
}

// Group starts a base-path group under prefix.
func (r *Router) Group(prefix string) *Group {
	return &Group{router: r, prefix: strings.TrimSuffix(prefix, "/")}
}

// Group nests a further base-path group.
func (g *Group) Group(prefix string) *Group {
	return &Group{router: g.router, prefix: g.prefix + strings.TrimSuffix(prefix, "/")}
}

func (g *Group) join(pattern string) string {
	if pattern == "/" {
		if g.prefix == "" {
			return "/"
		}
		return g.prefix
	}
	return g.prefix + pattern
}

// Handle registers a route under the group's prefix.
func (g *Group) Handle(method, pattern string, handlers ...HandlerFunc) error {
	return g.router.Handle(method, g.join(pattern), handlers...)
}

// On registers one multi-method entry under the group's prefix.
func (g *Group) On(methods []string, pattern string, handlers ...HandlerFunc) error {
	return g.router.On(methods, g.join(pattern), handlers...)
}

// Get registers a GET route under the group's prefix.
func (g *Group) Get(pattern string, handlers ...HandlerFunc) error {
	return g.Handle(http.MethodGet, pattern, handlers...)
}

// Post registers a POST route under the group's prefix.
func (g *Group) Post(pattern string, handlers ...HandlerFunc) error {
	return g.Handle(http.MethodPost, pattern, handlers...)
}

// Put registers a PUT route under the group's prefix.
func (g *Group) Put(pattern string, handlers ...HandlerFunc) error {
	return g.Handle(http.MethodPut, pattern, handlers...)
}

// Delete registers a DELETE route under the group's prefix.
func (g *Group) Delete(pattern string, handlers ...HandlerFunc) error {
	return g.Handle(http.MethodDelete, pattern, handlers...)
}

// Patch registers a PATCH route under the group's prefix.
func (g *Group) Patch(pattern string, handlers ...HandlerFunc) error {
	return g.Handle(http.MethodPatch, pattern, handlers...)
}
