package strada

import "fmt"

// StrategyKind identifies one of the four matcher strategies. The set
// is closed: the factory switches over it exhaustively, and lookup
// never pays a virtual call it doesn't need.
type StrategyKind int

const (
	// StrategyRegexp compiles every pattern registered for a method
	// into one combined regular expression.
	StrategyRegexp StrategyKind = iota

	// StrategyTrie stores patterns in a per-method prefix tree. Literal
	// edges are matched before parameter edges at each depth.
	StrategyTrie

	// StrategyLinear tests entries sequentially in registration order.
	// Supports every pattern shape; no compile step.
	StrategyLinear

	// StrategySimple is a linear matcher restricted to literal, param
	// and optional-param segments. Fallback of last resort.
	StrategySimple
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyRegexp:
		return "regexp"
	case StrategyTrie:
		return "trie"
	case StrategyLinear:
		return "linear"
	case StrategySimple:
		return "simple"
	default:
		return fmt.Sprintf("StrategyKind(%d)", int(k))
	}
}

// matcher is the common strategy contract: register an entry for a
// method, and look a path up. add returns ErrUnsupportedPattern when
// the strategy cannot represent the entry's pattern.
type matcher interface {
	add(method string, ent *routeEntry) error
	lookup(method, path string) (candidate, bool)
}

// candidate is a successful lookup inside one strategy instance. The
// adaptive router compares candidates from different instances by the
// entry's registration index.
type candidate struct {
	entry  *routeEntry
	params []Param
}

// newMatcher builds a fresh strategy instance of the given kind.
func newMatcher(kind StrategyKind) matcher {
	switch kind {
	case StrategyRegexp:
		return newRegexpMatcher()
	case StrategyTrie:
		return newTrieMatcher()
	case StrategyLinear:
		return newLinearMatcher()
	case StrategySimple:
		return newSimpleMatcher()
	default:
		panic(fmt.Sprintf("strada: unknown strategy kind %d", int(kind)))
	}
}
