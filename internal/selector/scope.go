package selector

// Scoped is the result of ScopeNested: the printed selector and its tree.
type Scoped struct {
	Selector string
	AST      List
}

// ScopeNested combines every scope selector with every nested selector.
//
// An empty nested selector, or one that starts with "&" or :global(...), is
// used as is; otherwise the scope is prepended with a descendant combinator.
// With rootLevel set, a nested selector already starting with the scope nodes is
// not prefixed again. Every "&" is then replaced by the scope.
func ScopeNested(scope, nested List, rootLevel bool) Scoped {
	out := make(List, 0, len(nested)*len(scope))
	for _, target := range nested {
		for _, sc := range scope {
			sel := target.Clone()
			first := firstPart(sel)
			skip := first == nil || first.Kind == KindNesting || IsPseudoClass(first, "global") ||
				rootLevel && startsWith(sel.Nodes, sc.Nodes)
			if !skip {
				prefix := append(CloneNodes(sc.Nodes), NewCombinator(Descendant))
				sel.Nodes = append(prefix, sel.Nodes...)
			}
			replaceNesting(sel.Nodes, sc.Nodes)
			out = append(out, sel)
		}
	}
	return Scoped{Selector: Stringify(out), AST: out}
}

// firstPart returns the first node that is not a selector wrapper.
func firstPart(sel *Node) *Node {
	var first *Node
	WalkParts([]*Node{sel}, func(n *Node, _ int, _ []*Node, _ []*Node) Action {
		first = n
		return StopAll
	})
	return first
}

func startsWith(nodes, prefix []*Node) bool {
	if len(prefix) == 0 || len(prefix) > len(nodes) {
		return false
	}
	for i, p := range prefix {
		if !IsNodeMatch(p, nodes[i]) {
			return false
		}
	}
	return true
}

func replaceNesting(nodes []*Node, scope []*Node) {
	for i, n := range nodes {
		if n.Kind == KindNesting {
			nodes[i] = &Node{Kind: KindSelector, Nodes: CloneNodes(scope)}
			continue
		}
		replaceNesting(n.Nodes, scope)
	}
}
