package middlewares

import (
	"net/http"
	"strings"

	"golang.org/x/net/idna"
)

// HostRoutes maps host patterns to HTTP handlers.
// Exact: "api.example.com"
// Wildcard: "*.example.com"
type HostRoutes map[string]http.Handler

// HostsConfig configures the Hosts switch behaviour.
type HostsConfig struct {
	// Routes maps host patterns to handlers, typically strada routers.
	Routes HostRoutes

	// Fallback serves requests whose host matches no pattern. When nil,
	// unmatched hosts receive 404.
	Fallback http.Handler
}

// Hosts returns a virtual-host switch that selects a handler by the
// Host header before any route table runs. Internationalized host names
// are normalized to their ASCII (punycode) form, so "bücher.example"
// and "xn--bcher-kva.example" select the same handler.
func Hosts(cfg HostsConfig) http.Handler {
	h := &hostSwitch{
		exact:    make(map[string]http.Handler),
		wildcard: make(map[string]http.Handler),
		fallback: cfg.Fallback,
	}

	for pattern, handler := range cfg.Routes {
		pattern = normalizeHost(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(pattern, "*."); ok {
			h.wildcard[rest] = handler
		} else {
			h.exact[pattern] = handler
		}
	}

	return h
}

type hostSwitch struct {
	exact    map[string]http.Handler
	wildcard map[string]http.Handler
	fallback http.Handler
}

func (h *hostSwitch) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	host := normalizeHost(req.Host)

	if handler, ok := h.exact[host]; ok {
		handler.ServeHTTP(w, req)
		return
	}

	// *.example.com matches foo.example.com but not example.com itself.
	if _, domain, ok := strings.Cut(host, "."); ok {
		if handler, ok := h.wildcard[domain]; ok {
			handler.ServeHTTP(w, req)
			return
		}
	}

	if h.fallback != nil {
		h.fallback.ServeHTTP(w, req)
		return
	}
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

// normalizeHost strips any port, lowercases the host and converts
// internationalized names to their ASCII form.
func normalizeHost(host string) string {
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		if !strings.Contains(host[idx:], "]") {
			host = host[:idx]
		}
	}
	host = strings.ToLower(host)

	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}
