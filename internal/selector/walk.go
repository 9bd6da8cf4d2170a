package selector

import (
	"slices"
)

// Action steers Walk.
type Action uint8

const (
	// Continue descends into the node's children.
	Continue Action = iota
	// SkipNested keeps walking siblings but not the node's children.
	SkipNested
	// SkipCurrentSelector abandons the rest of the innermost enclosing selector.
	SkipCurrentSelector
	// StopAll ends the walk.
	StopAll
)

// WalkFunc receives the node, its index inside nodes and the chain of
// ancestors (outermost first).
type WalkFunc func(n *Node, index int, nodes []*Node, parents []*Node) Action

// Walk visits nodes in pre-order, including KindSelector wrappers and the
// selector arguments of functional pseudo-classes.
func Walk(nodes []*Node, fn WalkFunc) {
	walk(nodes, fn, nil, false)
}

// WalkParts is Walk without callbacks for KindSelector wrappers.
func WalkParts(nodes []*Node, fn WalkFunc) {
	walk(nodes, fn, nil, true)
}

func walk(nodes []*Node, fn WalkFunc, parents []*Node, skipSelectors bool) Action {
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		act := Continue
		if !(skipSelectors && n.Kind == KindSelector) {
			act = fn(n, i, nodes, parents)
		}
		switch act {
		case StopAll:
			return StopAll
		case SkipNested:
			continue
		case SkipCurrentSelector:
			if n.Kind == KindSelector {
				continue
			}
			return SkipCurrentSelector
		}
		if len(n.Nodes) == 0 {
			continue
		}
		switch walk(n.Nodes, fn, append(slices.Clip(parents), n), skipSelectors) {
		case StopAll:
			return StopAll
		case SkipCurrentSelector:
			if n.Kind != KindSelector {
				return SkipCurrentSelector
			}
		}
	}
	return Continue
}

// InPseudoClassContext reports whether any ancestor is a pseudo-class.
func InPseudoClassContext(parents []*Node) bool {
	for _, p := range parents {
		if p.Kind == KindPseudoClass {
			return true
		}
	}
	return false
}
