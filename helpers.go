package strada

import (
	"path"
	"strings"
)

// cleanPath returns the canonical path for p, eliminating . and ..
// elements per RFC 3986 Section 5.2.4 (remove dot segments).
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}

// splitPath splits a request path into its segments. The root path has
// no segments; a trailing slash yields a final empty segment so that
// strict-slash matching distinguishes "/p" from "/p/".
func splitPath(p string) []string {
	if p == "" || p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

// trimTrailingSlash drops a single trailing slash, keeping the root
// path intact. Used when strict-slash matching is disabled.
func trimTrailingSlash(p string) string {
	if len(p) > 1 && p[len(p)-1] == '/' {
		return p[:len(p)-1]
	}
	return p
}
