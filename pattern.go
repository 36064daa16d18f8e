package strada

import (
	"fmt"
	"regexp"
	"strings"
)

// segKind enumerates the descriptor kinds a route pattern compiles into.
// The set is closed; matching code switches over it exhaustively.
type segKind int

const (
	segLiteral segKind = iota
	segParam
	segOptional
	segConstrained
	segWildcard
)

func (k segKind) String() string {
	switch k {
	case segLiteral:
		return "literal"
	case segParam:
		return "param"
	case segOptional:
		return "optional"
	case segConstrained:
		return "constrained"
	case segWildcard:
		return "wildcard"
	default:
		return fmt.Sprintf("segKind(%d)", int(k))
	}
}

// segment is one compiled descriptor of a route pattern.
type segment struct {
	kind segKind

	// literal is the exact text for segLiteral, matched byte-for-byte.
	literal string

	// name is the capture name for parameter kinds. Empty for an
	// unnamed wildcard, which matches without capturing.
	name string

	// expr is the raw regexp body of a constrained parameter, after
	// macro expansion.
	expr string

	// re is expr compiled anchored to the whole candidate text.
	re *regexp.Regexp

	// spanning marks a constrained parameter whose expr contains an
	// unescaped "/". It matches against the remaining path tail rather
	// than a single slash-delimited segment.
	spanning bool
}

// Pattern is the compiled form of a route string: an ordered sequence of
// segment descriptors. A pattern has one method-independent shape; the
// same pattern may be registered under several methods.
type Pattern struct {
	template string
	segs     []segment
	names    []string
}

// Template returns the route string the pattern was compiled from.
func (p *Pattern) Template() string { return p.template }

// parsePattern compiles a route string into a Pattern.
//
// Segment syntax:
//
//	literal        exact text, case-sensitive
//	:name          one non-empty segment, captured
//	:name?         zero or one trailing segment, captured when present
//	:name{expr}    one segment matching expr; expr may be a macro name
//	*              one or more remaining segments, uncaptured
//	*name          one or more remaining segments, captured under name
//
// Optional and wildcard descriptors are only legal as the final
// descriptor. Parameter names must be unique within one pattern.
func parsePattern(tpl string) (*Pattern, error) {
	if tpl == "" || tpl[0] != '/' {
		return nil, &PatternError{Pattern: tpl, Err: errMissingSlash}
	}

	p := &Pattern{template: tpl}
	seen := make(map[string]bool)

	for _, raw := range splitPatternSegments(tpl[1:]) {
		if n := len(p.segs); n > 0 {
			if last := p.segs[n-1].kind; last == segOptional || last == segWildcard {
				return nil, &PatternError{Pattern: tpl, Err: errNotLast}
			}
		}

		seg, err := parseSegment(raw)
		if err != nil {
			return nil, &PatternError{Pattern: tpl, Err: err}
		}

		if seg.name != "" {
			if seen[seg.name] {
				return nil, &PatternError{Pattern: tpl, Err: fmt.Errorf("%w: %q", errDuplicateName, seg.name)}
			}
			seen[seg.name] = true
			p.names = append(p.names, seg.name)
		}

		p.segs = append(p.segs, seg)
	}

	return p, nil
}

// parseSegment compiles one slash-delimited piece of a route string.
func parseSegment(s string) (segment, error) {
	switch {
	case s == "*":
		return segment{kind: segWildcard}, nil

	case strings.HasPrefix(s, "*"):
		return segment{kind: segWildcard, name: s[1:]}, nil

	case strings.HasPrefix(s, ":"):
		rest := s[1:]

		if i := strings.IndexByte(rest, '{'); i >= 0 {
			if !strings.HasSuffix(rest, "}") {
				return segment{}, errUnbalanced
			}
			name := rest[:i]
			if name == "" {
				return segment{}, errEmptyName
			}
			expr := expandMacro(rest[i+1 : len(rest)-1])
			re, err := compileRegexp("^(?:" + expr + ")$")
			if err != nil {
				return segment{}, fmt.Errorf("constraint %q: %w", expr, err)
			}
			return segment{
				kind:     segConstrained,
				name:     name,
				expr:     expr,
				re:       re,
				spanning: hasUnescapedSlash(expr),
			}, nil
		}

		if strings.HasSuffix(rest, "?") {
			name := rest[:len(rest)-1]
			if name == "" {
				return segment{}, errEmptyName
			}
			return segment{kind: segOptional, name: name}, nil
		}

		if rest == "" {
			return segment{}, errEmptyName
		}
		return segment{kind: segParam, name: rest}, nil

	default:
		return segment{kind: segLiteral, literal: s}, nil
	}
}

// splitPatternSegments splits a route string on "/" without splitting
// inside {...} constraint bodies, which may legitimately contain slashes.
func splitPatternSegments(s string) []string {
	if s == "" {
		return nil
	}

	var segs []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '/':
			if depth == 0 {
				segs = append(segs, s[start:i])
				start = i + 1
			}
		}
	}
	return append(segs, s[start:])
}

// hasUnescapedSlash reports whether a regexp body contains a "/" not
// preceded by a backslash.
func hasUnescapedSlash(expr string) bool {
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '\\':
			i++
		case '/':
			return true
		}
	}
	return false
}
