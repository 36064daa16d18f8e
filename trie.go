package strada

import "strings"

// trieMatcher keys patterns by their literal segments in a per-method
// prefix tree. At each depth, literal children are tried before
// constrained, param and wildcard edges, so a literal match beats a
// parameter match regardless of registration order. This is the one
// documented exception to the registration-index tie-break; see
// TestTrieLiteralPrecedence.
type trieMatcher struct {
	roots map[string]*trieNode
}

type trieNode struct {
	literals    map[string]*trieNode
	constrained []*trieEdge
	params      []*trieEdge
	wildcards   []*trieEdge
	entry       *routeEntry
}

// trieEdge is a non-literal child: the segment descriptor it matches
// and the node it leads to.
type trieEdge struct {
	seg  segment
	node *trieNode
}

func newTrieMatcher() *trieMatcher {
	return &trieMatcher{roots: make(map[string]*trieNode)}
}

func (m *trieMatcher) add(method string, ent *routeEntry) error {
	root := m.roots[method]
	if root == nil {
		root = &trieNode{}
		m.roots[method] = root
	}

	n := root
	for _, seg := range ent.pattern.segs {
		switch seg.kind {
		case segLiteral:
			if n.literals == nil {
				n.literals = make(map[string]*trieNode)
			}
			child := n.literals[seg.literal]
			if child == nil {
				child = &trieNode{}
				n.literals[seg.literal] = child
			}
			n = child
		case segParam:
			n = n.edge(&n.params, seg)
		case segOptional:
			// The zero-segment form terminates at the current node; the
			// one-segment form continues through a param-like edge.
			n.setEntry(ent)
			n = n.edge(&n.params, seg)
		case segConstrained:
			n = n.edge(&n.constrained, seg)
		case segWildcard:
			n = n.edge(&n.wildcards, seg)
		}
	}
	n.setEntry(ent)
	return nil
}

// edge finds an existing edge with an identical descriptor or appends a
// new one, preserving insertion order.
func (n *trieNode) edge(list *[]*trieEdge, seg segment) *trieNode {
	for _, e := range *list {
		if e.seg.kind == seg.kind && e.seg.name == seg.name && e.seg.expr == seg.expr {
			return e.node
		}
	}
	e := &trieEdge{seg: seg, node: &trieNode{}}
	*list = append(*list, e)
	return e.node
}

// setEntry keeps the earliest-registered entry when two patterns share
// a terminal node.
func (n *trieNode) setEntry(ent *routeEntry) {
	if n.entry == nil || ent.index < n.entry.index {
		n.entry = ent
	}
}

func (m *trieMatcher) lookup(method, path string) (candidate, bool) {
	root := m.roots[method]
	if root == nil {
		return candidate{}, false
	}
	if ent, params, ok := root.match(splitPath(path), nil); ok {
		return candidate{entry: ent, params: params}, true
	}
	return candidate{}, false
}

// match walks the tree depth first, backtracking on failure: literal
// children, then constrained, param and wildcard edges.
func (n *trieNode) match(parts []string, params []Param) (*routeEntry, []Param, bool) {
	if len(parts) == 0 {
		if n.entry != nil {
			return n.entry, params, true
		}
		return nil, nil, false
	}

	head := parts[0]

	if child := n.literals[head]; child != nil {
		if ent, ps, ok := child.match(parts[1:], params); ok {
			return ent, ps, true
		}
	}

	for _, e := range n.constrained {
		rest, value, ok := matchConstraint(e.seg, parts)
		if !ok {
			continue
		}
		if ent, ps, ok := e.node.match(rest, append(params, Param{Name: e.seg.name, Value: value})); ok {
			return ent, ps, true
		}
	}

	if head != "" {
		for _, e := range n.params {
			if ent, ps, ok := e.node.match(parts[1:], append(params, Param{Name: e.seg.name, Value: head})); ok {
				return ent, ps, true
			}
		}
	}

	for _, e := range n.wildcards {
		if e.node.entry == nil {
			continue
		}
		ps := params
		if e.seg.name != "" {
			ps = append(ps, Param{Name: e.seg.name, Value: strings.Join(parts, "/")})
		}
		return e.node.entry, ps, true
	}

	return nil, nil, false
}
