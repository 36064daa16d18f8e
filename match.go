package strada

import "strings"

// Param is one captured path parameter. Parameters are kept as an
// ordered slice rather than a map so they preserve pattern order.
type Param struct {
	Name  string
	Value string
}

// matchSegments tests a compiled pattern against the path segments,
// returning captured parameters in pattern order. Shared by the linear,
// simple and trie strategies so that constraint semantics agree across
// them.
func matchSegments(segs []segment, parts []string) ([]Param, bool) {
	var params []Param

	for _, seg := range segs {
		switch seg.kind {
		case segLiteral:
			if len(parts) == 0 || parts[0] != seg.literal {
				return nil, false
			}
			parts = parts[1:]

		case segParam:
			if len(parts) == 0 || parts[0] == "" {
				return nil, false
			}
			params = append(params, Param{Name: seg.name, Value: parts[0]})
			parts = parts[1:]

		case segOptional:
			// Final descriptor: zero or one remaining segment.
			switch {
			case len(parts) == 0:
				return params, true
			case len(parts) == 1 && parts[0] != "":
				return append(params, Param{Name: seg.name, Value: parts[0]}), true
			default:
				return nil, false
			}

		case segConstrained:
			rest, value, ok := matchConstraint(seg, parts)
			if !ok {
				return nil, false
			}
			params = append(params, Param{Name: seg.name, Value: value})
			parts = rest

		case segWildcard:
			if len(parts) == 0 {
				return nil, false
			}
			if seg.name != "" {
				params = append(params, Param{Name: seg.name, Value: strings.Join(parts, "/")})
			}
			return params, true
		}
	}

	if len(parts) != 0 {
		return nil, false
	}
	return params, true
}

// matchConstraint applies a constrained parameter to the unconsumed
// path. A single-segment constraint consumes exactly one segment. A
// spanning constraint (expr contains an unescaped "/") consumes the
// longest run of whole segments whose joined text matches the
// expression, so the match always ends on a segment boundary.
func matchConstraint(seg segment, parts []string) (rest []string, value string, ok bool) {
	if len(parts) == 0 {
		return nil, "", false
	}

	if !seg.spanning {
		if parts[0] == "" || !seg.re.MatchString(parts[0]) {
			return nil, "", false
		}
		return parts[1:], parts[0], true
	}

	for n := len(parts); n >= 1; n-- {
		tail := strings.Join(parts[:n], "/")
		if seg.re.MatchString(tail) {
			return parts[n:], tail, true
		}
	}
	return nil, "", false
}
