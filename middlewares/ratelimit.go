package middlewares

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/strada-dev/strada"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the RateLimit middleware behaviour.
type RateLimitConfig struct {
	// Rate is the sustained number of requests per second allowed per
	// client. Defaults to 5 when zero.
	Rate rate.Limit

	// Burst is the maximum burst size per client. Defaults to 20 when
	// zero.
	Burst int

	// KeyFunc derives the client key from the request. Defaults to the
	// remote IP address.
	KeyFunc func(r *http.Request) string

	// IdleTTL is how long an idle client's bucket is kept before
	// eviction. Defaults to one hour when zero.
	IdleTTL time.Duration
}

// visitor tracks one client's token bucket and last activity.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors is the per-client bucket table with idle eviction.
type visitors struct {
	mu      sync.Mutex
	val     map[string]*visitor
	rate    rate.Limit
	burst   int
	idleTTL time.Duration
}

// fetch retrieves the bucket for key, creating one for unseen clients,
// and opportunistically evicts idle entries.
func (vs *visitors) fetch(key string) *rate.Limiter {
	now := time.Now()

	vs.mu.Lock()
	defer vs.mu.Unlock()

	v, ok := vs.val[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(vs.rate, vs.burst)}
		vs.val[key] = v
	}
	v.lastSeen = now

	for k, other := range vs.val {
		if now.Sub(other.lastSeen) > vs.idleTTL {
			delete(vs.val, k)
		}
	}
	return v.limiter
}

// RateLimit returns a middleware enforcing a per-client token bucket.
// Requests over the limit short-circuit the chain with 429 before any
// downstream handler runs.
func RateLimit(cfg RateLimitConfig) strada.HandlerFunc {
	if cfg.Rate == 0 {
		cfg.Rate = 5
	}
	if cfg.Burst == 0 {
		cfg.Burst = 20
	}
	if cfg.IdleTTL == 0 {
		cfg.IdleTTL = time.Hour
	}

	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = remoteIP
	}

	vs := &visitors{
		val:     make(map[string]*visitor),
		rate:    cfg.Rate,
		burst:   cfg.Burst,
		idleTTL: cfg.IdleTTL,
	}

	return func(c *strada.Context) error {
		if !vs.fetch(keyFunc(c.Request())).Allow() {
			return c.Text(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		}
		return c.Next()
	}
}

// remoteIP strips the port from the request's remote address.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
