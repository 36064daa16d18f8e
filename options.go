package strada

// Option configures a Router at construction time.
type Option func(*Router)

// WithStrategies sets the ordered strategy preference offered each new
// pattern. Defaults to [StrategyRegexp, StrategyTrie].
func WithStrategies(kinds ...StrategyKind) Option {
	return func(r *Router) {
		if len(kinds) > 0 {
			r.kinds = kinds
		}
	}
}

// WithStrictSlash controls whether trailing slashes are significant.
// When false, "/p" and "/p/" are the same route at both registration
// and lookup. Defaults to true: the two paths stay distinct.
func WithStrictSlash(v bool) Option {
	return func(r *Router) { r.strictSlash = v }
}

// WithNotFound installs the reserved not-found handler.
func WithNotFound(h HandlerFunc) Option {
	return func(r *Router) { r.notFound = h }
}

// WithMethodNotAllowed installs the method-not-allowed handler.
func WithMethodNotAllowed(h HandlerFunc) Option {
	return func(r *Router) { r.methodNotAllowed = h }
}

// WithErrorHandler installs the error boundary.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Router) { r.errorHandler = h }
}
