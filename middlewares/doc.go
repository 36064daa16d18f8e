// Package middlewares provides ready-made handlers for the strada
// dispatch chain. Each middleware is an ordinary strada.HandlerFunc
// built from a config struct; register them with Use or UseAt.
//
// # Request ID Middleware
//
// RequestID generates or propagates an X-Request-ID header, stores the
// ID on the context for downstream handlers and stamps it on the
// settled response.
//
//	r.Use(middlewares.RequestID(middlewares.RequestIDConfig{}))
//
// # Recovery Middleware
//
// Recovery converts panics in downstream handlers into chain errors, so
// they reach the router's error boundary instead of crashing the
// process.
//
//	r.Use(middlewares.Recovery(middlewares.RecoveryConfig{}))
//
// # Logging Middleware
//
// Logging writes one structured log line per request via log/slog,
// including the matched route pattern and the settled status.
//
//	r.Use(middlewares.Logging(middlewares.LoggingConfig{}))
//
// # Metrics Middleware
//
// Metrics records Prometheus counters and histograms labeled by method,
// matched route pattern and status. Labels use the pattern template,
// never the raw path, keeping cardinality bounded by the route table.
//
//	mw, err := middlewares.Metrics(middlewares.MetricsConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Use(mw)
//
// # CORS Middleware
//
// CORS implements the CORS protocol per the Fetch Standard. Preflight
// OPTIONS requests short-circuit the chain; actual requests get their
// origin headers stamped on the settled response.
//
//	mw, err := middlewares.CORS(middlewares.CORSConfig{
//	    AllowedOrigins:   []string{"https://example.com"},
//	    AllowCredentials: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Use(mw)
//
// # Hosts Switch
//
// Hosts is not chain middleware but a virtual-host switch above route
// tables: it selects an http.Handler by the normalized Host header,
// with exact and "*.domain" wildcard patterns.
//
//	http.ListenAndServe(":8080", middlewares.Hosts(middlewares.HostsConfig{
//	    Routes: middlewares.HostRoutes{
//	        "api.example.com": apiRouter,
//	        "*.example.com":   tenantRouter,
//	    },
//	    Fallback: publicRouter,
//	}))
package middlewares
