package strada

import (
	"net/http"
	"net/url"
)

// HandlerFunc is the signature of every handler and middleware in a
// chain. Calling c.Next runs the remainder of the chain; returning a
// non-nil error fails the chain and hands the error to the router's
// error boundary.
type HandlerFunc func(c *Context) error

// ErrorHandler is the single error boundary of a route table. It must
// produce a response on the context; when it does not, ServeHTTP
// substitutes a generic 500.
type ErrorHandler func(c *Context, err error)

// Context carries the per-request state of one dispatch: the matched
// parameters, the handler chain iterator, the deferred response and a
// request-scoped key/value store. A Context belongs to exactly one
// request and must not be shared with goroutines serving other
// requests.
type Context struct {
	req     *http.Request
	params  []Param
	pattern string
	chain   []HandlerFunc
	index   int
	resp    *Response
	store   map[string]any
	query   url.Values
}

func newContext(req *http.Request) *Context {
	return &Context{req: req, index: -1}
}

// Request returns the underlying HTTP request.
func (c *Context) Request() *http.Request { return c.req }

// SetRequest replaces the request, typically after deriving a new
// context from it (tracing spans, deadlines).
func (c *Context) SetRequest(req *http.Request) { c.req = req }

// Method returns the request method.
func (c *Context) Method() string { return c.req.Method }

// Path returns the request URL path.
func (c *Context) Path() string { return c.req.URL.Path }

// Header returns the request headers.
func (c *Context) Header() http.Header { return c.req.Header }

// setMatch records the lookup result before handler 0 runs.
func (c *Context) setMatch(params []Param, pattern string) {
	c.params = params
	c.pattern = pattern
}

// Param returns a captured path parameter by name, or "".
func (c *Context) Param(name string) string {
	for _, p := range c.params {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// Params returns the captured parameters in pattern order.
func (c *Context) Params() []Param { return c.params }

// MatchedPattern returns the route template the request matched, or ""
// for not-found and method-not-allowed dispatches.
func (c *Context) MatchedPattern() string { return c.pattern }

// Query returns the first query value for name, parsing the query
// string at most once per request.
func (c *Context) Query(name string) string {
	if c.query == nil {
		c.query = c.req.URL.Query()
	}
	return c.query.Get(name)
}

// Set stores a request-scoped value.
func (c *Context) Set(key string, value any) {
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = value
}

// Get returns a request-scoped value stored with Set.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.store[key]
	return v, ok
}

// Next runs the remainder of the chain: the handlers after the current
// one, in order. It returns early when a handler produces a response
// (short-circuit), when a handler returns an error (propagation), or
// when the request context is cancelled (abort). A handler may do work
// after Next returns to post-process the response.
func (c *Context) Next() error {
	c.index++
	for c.index < len(c.chain) {
		if err := c.req.Context().Err(); err != nil {
			return err
		}
		if err := c.chain[c.index](c); err != nil {
			return err
		}
		if c.resp != nil {
			return nil
		}
		c.index++
	}
	return nil
}

// Response returns the response built so far, or nil. Middleware that
// resumes after Next may still mutate its status and headers before the
// router writes it out.
func (c *Context) Response() *Response { return c.resp }
