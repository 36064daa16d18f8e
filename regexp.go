package strada

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// regexpMatcher concatenates every pattern registered for a method into
// one combined anchored expression with a marker group per entry and a
// capture group per named parameter. Alternation in Go's regexp engine
// is leftmost-first, so the earliest-registered matching alternative
// wins, preserving the registration-order tie-break.
//
// The combined program cannot be updated incrementally: registering
// into a method that has already been compiled marks the program dirty,
// and the whole program for that method is rebuilt before the next
// lookup.
type regexpMatcher struct {
	mu      sync.Mutex
	methods map[string]*regexpProgram
}

type regexpProgram struct {
	entries []*routeEntry
	re      *regexp.Regexp
	marks   []programMark
	built   bool
}

// programMark records the submatch layout of one alternation branch.
type programMark struct {
	entry  *routeEntry
	group  int      // marker group index
	names  []string // parameter names in pattern order
	groups []int    // capture group index per name
}

func newRegexpMatcher() *regexpMatcher {
	return &regexpMatcher{methods: make(map[string]*regexpProgram)}
}

func (m *regexpMatcher) add(method string, ent *routeEntry) error {
	if err := checkExpressible(ent.pattern); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prog := m.methods[method]
	if prog == nil {
		prog = &regexpProgram{}
		m.methods[method] = prog
	}
	prog.entries = append(prog.entries, ent)
	prog.built = false
	prog.re = nil
	return nil
}

// checkExpressible rejects the shapes that break a combined program:
// wildcards and spanning constraints consume a variable number of
// segments, and constraints carrying their own capture groups break the
// static group accounting.
func checkExpressible(pat *Pattern) error {
	for _, seg := range pat.segs {
		switch seg.kind {
		case segWildcard:
			return fmt.Errorf("wildcard segment in %q: %w", pat.template, ErrUnsupportedPattern)
		case segConstrained:
			if seg.spanning {
				return fmt.Errorf("spanning constraint in %q: %w", pat.template, ErrUnsupportedPattern)
			}
			if seg.re.NumSubexp() > 0 {
				return fmt.Errorf("capture group in constraint of %q: %w", pat.template, ErrUnsupportedPattern)
			}
		}
	}
	return nil
}

func (m *regexpMatcher) lookup(method, path string) (candidate, bool) {
	m.mu.Lock()
	prog := m.methods[method]
	if prog == nil {
		m.mu.Unlock()
		return candidate{}, false
	}
	if !prog.built {
		if err := prog.build(); err != nil {
			m.mu.Unlock()
			// Every accepted pattern already compiled segment-wise, so a
			// combined build failure is a translation defect, not input.
			panic(fmt.Sprintf("strada: combined expression build failed: %v", err))
		}
	}
	re, marks := prog.re, prog.marks
	m.mu.Unlock()

	sub := re.FindStringSubmatch(path)
	if sub == nil {
		return candidate{}, false
	}

	for i := range marks {
		mk := &marks[i]
		if sub[mk.group] == "" {
			continue
		}
		var params []Param
		for j, name := range mk.names {
			// A parameter group matches at least one byte; an empty
			// submatch means an absent optional parameter.
			if v := sub[mk.groups[j]]; v != "" {
				params = append(params, Param{Name: name, Value: v})
			}
		}
		return candidate{entry: mk.entry, params: params}, true
	}
	return candidate{}, false
}

// build translates every entry into one alternation branch and compiles
// the combined anchored expression.
func (p *regexpProgram) build() error {
	var b strings.Builder
	b.WriteString("^(?:")

	group := 0
	p.marks = p.marks[:0]

	for i, ent := range p.entries {
		if i > 0 {
			b.WriteByte('|')
		}
		group++
		mark := programMark{entry: ent, group: group}
		b.WriteByte('(')

		if len(ent.pattern.segs) == 0 {
			b.WriteByte('/')
		}
		for si, seg := range ent.pattern.segs {
			switch seg.kind {
			case segLiteral:
				b.WriteByte('/')
				b.WriteString(regexp.QuoteMeta(seg.literal))
			case segParam:
				b.WriteString("/([^/]+)")
				group++
				mark.names = append(mark.names, seg.name)
				mark.groups = append(mark.groups, group)
			case segOptional:
				// A leading optional still has to consume the root "/".
				if si == 0 {
					b.WriteString("/(?:([^/]+))?")
				} else {
					b.WriteString("(?:/([^/]+))?")
				}
				group++
				mark.names = append(mark.names, seg.name)
				mark.groups = append(mark.groups, group)
			case segConstrained:
				b.WriteString("/((?:")
				b.WriteString(seg.expr)
				b.WriteString("))")
				group++
				mark.names = append(mark.names, seg.name)
				mark.groups = append(mark.groups, group)
			}
		}

		b.WriteByte(')')
		p.marks = append(p.marks, mark)
	}

	b.WriteString(")$")

	re, err := compileRegexp(b.String())
	if err != nil {
		return err
	}
	p.re = re
	p.built = true
	return nil
}
