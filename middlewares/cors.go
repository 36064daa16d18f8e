package middlewares

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/strada-dev/strada"
)

// ErrWildcardCredentials is returned when AllowedOrigins contains "*"
// and AllowCredentials is true. Use AllowOriginFunc for dynamic origin
// checks with credentials.
var ErrWildcardCredentials = errors.New("wildcard origin \"*\" cannot be used with AllowCredentials; use AllowOriginFunc instead")

// CORSConfig configures the CORS middleware behaviour.
//
// Spec references:
//   - CORS protocol: https://fetch.spec.whatwg.org/#http-cors-protocol
//   - Web Origin:    https://www.rfc-editor.org/rfc/rfc6454
type CORSConfig struct {
	// AllowedOrigins is a list of exact origin strings, "*" for
	// wildcard, or subdomain wildcard patterns like
	// "https://*.example.com".
	AllowedOrigins []string

	// AllowOriginFunc is an optional dynamic callback invoked when the
	// origin does not match any entry in AllowedOrigins. Return true to
	// allow.
	AllowOriginFunc func(origin string) bool

	// AllowedMethods lists the methods advertised in preflight
	// responses. Defaults to GET, POST, PUT, PATCH, DELETE when empty.
	AllowedMethods []string

	// AllowedHeaders lists the headers the client may send in the
	// actual request. When empty the middleware reflects the
	// Access-Control-Request-Headers value from the preflight request.
	// Use "*" to reflect all requested headers.
	AllowedHeaders []string

	// ExposeHeaders lists the headers the browser may expose to client
	// code.
	ExposeHeaders []string

	// AllowCredentials sets Access-Control-Allow-Credentials: true.
	// Per the Fetch Standard, "*" cannot be used as Allow-Origin when
	// credentials are enabled.
	AllowCredentials bool

	// MaxAge is the duration in seconds a preflight result may be
	// cached. Positive values are sent as-is, negative values emit "0",
	// zero omits the header.
	MaxAge int
}

// wildcardPattern represents a subdomain wildcard pattern split at the "*".
type wildcardPattern struct {
	prefix string
	suffix string
}

func (c *CORSConfig) hasWildcardOrigin() bool {
	return slices.Contains(c.AllowedOrigins, "*")
}

// parseOrigins normalizes AllowedOrigins to lowercase and splits them
// into exact matches and wildcard patterns. Returns an error if a
// pattern contains multiple wildcards.
func parseOrigins(origins []string) ([]string, []wildcardPattern, error) {
	var exact []string
	var patterns []wildcardPattern

	for _, o := range origins {
		if o == "*" {
			exact = append(exact, o)
			continue
		}

		lower := strings.ToLower(o)

		if strings.Contains(lower, "*") {
			parts := strings.SplitN(lower, "*", 2)
			if strings.Contains(parts[1], "*") {
				return nil, nil, errors.New("origin pattern contains multiple wildcards: " + o)
			}
			patterns = append(patterns, wildcardPattern{prefix: parts[0], suffix: parts[1]})
		} else {
			exact = append(exact, lower)
		}
	}

	return exact, patterns, nil
}

// matchOrigin reports whether originLower matches any exact origin or
// wildcard pattern.
func matchOrigin(originLower string, exactOrigins []string, patterns []wildcardPattern) bool {
	for _, o := range exactOrigins {
		if o == "*" || o == originLower {
			return true
		}
	}

	for _, wp := range patterns {
		if len(originLower) >= len(wp.prefix)+len(wp.suffix) &&
			strings.HasPrefix(originLower, wp.prefix) &&
			strings.HasSuffix(originLower, wp.suffix) {
			return true
		}
	}

	return false
}

// CORS returns a middleware implementing the CORS protocol per the
// Fetch Standard. Preflight OPTIONS requests short-circuit the chain
// with 204 and the preflight headers; actual requests run the chain and
// stamp the origin headers on the settled response.
//
// It returns an error if the configuration is invalid, such as a
// wildcard origin combined with AllowCredentials.
func CORS(cfg CORSConfig) (strada.HandlerFunc, error) {
	if cfg.hasWildcardOrigin() && cfg.AllowCredentials {
		return nil, ErrWildcardCredentials
	}

	exactOrigins, wildcardPatterns, err := parseOrigins(cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	isAllowed := func(originLower, rawOrigin string) bool {
		if matchOrigin(originLower, exactOrigins, wildcardPatterns) {
			return true
		}
		if cfg.AllowOriginFunc != nil {
			return cfg.AllowOriginFunc(rawOrigin)
		}
		return false
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete,
		}
	}
	allowMethods := strings.Join(methods, ",")

	headersWildcard := slices.Contains(cfg.AllowedHeaders, "*")
	allowHeaders := strings.Join(cfg.AllowedHeaders, ",")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ",")

	setOriginHeaders := func(h http.Header, origin string) {
		if cfg.hasWildcardOrigin() && !cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Origin", "*")
		} else {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		}
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
	}

	return func(c *strada.Context) error {
		rawOrigin := c.Header().Get("Origin")
		if rawOrigin == "" {
			return c.Next()
		}

		originLower := strings.ToLower(rawOrigin)
		if !isAllowed(originLower, rawOrigin) {
			return c.Next()
		}

		// Preflight terminates the chain before any route handler.
		if c.Method() == http.MethodOptions && c.Header().Get("Access-Control-Request-Method") != "" {
			if err := c.NoContent(http.StatusNoContent); err != nil {
				return err
			}
			h := c.Response().Header()
			setOriginHeaders(h, rawOrigin)
			h.Set("Access-Control-Allow-Methods", allowMethods)

			if headersWildcard || len(cfg.AllowedHeaders) == 0 {
				if reqHeaders := c.Header().Get("Access-Control-Request-Headers"); reqHeaders != "" {
					h.Set("Access-Control-Allow-Headers", reqHeaders)
				}
			} else {
				h.Set("Access-Control-Allow-Headers", allowHeaders)
			}

			if cfg.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
			} else if cfg.MaxAge < 0 {
				h.Set("Access-Control-Max-Age", "0")
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			return nil
		}

		err := c.Next()

		if resp := c.Response(); resp != nil {
			setOriginHeaders(resp.Header(), rawOrigin)
			if exposeHeaders != "" {
				resp.Header().Set("Access-Control-Expose-Headers", exposeHeaders)
			}
		}
		return err
	}, nil
}
