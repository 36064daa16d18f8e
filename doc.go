// Package strada implements an adaptive request router and middleware
// dispatch engine: given an HTTP method and path, it selects a
// registered handler chain, extracts path parameters, and executes the
// handlers in order with short-circuit and error-propagation semantics.
//
// # Router
//
// Create a route table, register routes, serve:
//
//	r := strada.New()
//	r.Get("/users/:id{int}", showUser)
//	r.Post("/users", createUser)
//	http.ListenAndServe(":8080", r)
//
// # Patterns
//
// Route strings compile into ordered segment descriptors:
//
//	/users/me          literal segments, matched byte-for-byte
//	/users/:id         one non-empty segment, captured as "id"
//	/animal/:type?     optional trailing segment
//	/user/:id{[0-9]+}  segment constrained by a regular expression
//	/files/*           one or more remaining segments, uncaptured
//	/files/*path       remaining segments captured as "path"
//
// Constraint bodies may name a pre-compiled macro instead of a raw
// expression: uuid, int, float, slug, alpha, alphanum, date, hex.
//
//	r.Get("/articles/:id{uuid}", showArticle)
//
// # Matcher strategies
//
// Four interchangeable strategies share one registration and lookup
// contract: a combined regular expression (StrategyRegexp), a prefix
// tree (StrategyTrie), a sequential scan (StrategyLinear), and a
// regexp-free scan over simple shapes (StrategySimple). The router
// offers each new pattern to the configured strategies in order and the
// first to accept it serves that pattern's lookups; a pattern the
// combined expression cannot represent, such as a wildcard, silently
// falls back to the next strategy:
//
//	r := strada.New(strada.WithStrategies(strada.StrategyRegexp, strada.StrategyTrie))
//
// Across strategies the earliest-registered matching route wins. The
// trie is the documented exception: at each depth literal edges beat
// parameter edges regardless of registration order.
//
// # Handlers and middleware
//
// A handler receives the per-request Context and returns an error.
// Calling c.Next runs the remainder of the chain; producing a response
// without calling it short-circuits the chain; returning an error
// aborts it and hands the error to the table's error boundary:
//
//	r.Use(func(c *strada.Context) error {
//	    err := c.Next()                  // run downstream handlers
//	    if resp := c.Response(); resp != nil {
//	        resp.Header().Set("X-Served-By", "strada")
//	    }
//	    return err
//	})
//
// Responses are deferred values: nothing is written to the network
// until the chain settles, so middleware resuming after Next can still
// change the status and headers.
//
// # Composition
//
// Mount links a child table under a prefix, preserving the child's own
// middleware and merging prefix captures with the child's parameters:
//
//	admin := strada.New()
//	admin.Get("/stats", adminStats)
//	r.Mount("/admin", admin)
//
// Group prepends a base path at compile time without a composition
// link:
//
//	api := r.Group("/api/v1")
//	api.Get("/items", listItems)
//
// # Errors
//
// Malformed patterns (*PatternError) and patterns every strategy
// rejects (ErrUnsupportedPattern) fail at registration time, never
// while serving. Handler errors and silent chains (ErrNoResponse) go to
// the table's error boundary, which maps *HTTPError values to their
// status code and everything else to a bare 500.
package strada
