// Package selector parses CSS selectors into a small mutable tree and
// implements the scoping algorithms that combine scope and nested selectors.
package selector

import (
	"strings"
)

type Kind uint8

const (
	KindSelector Kind = iota
	KindClass
	KindID
	KindType
	KindUniversal
	KindAttribute
	KindPseudoClass
	KindPseudoElement
	KindCombinator
	KindNesting
	KindInvalid
)

var kindNames = [...]string{
	KindSelector:      "selector",
	KindClass:         "class",
	KindID:            "id",
	KindType:          "type",
	KindUniversal:     "universal",
	KindAttribute:     "attribute",
	KindPseudoClass:   "pseudo_class",
	KindPseudoElement: "pseudo_element",
	KindCombinator:    "combinator",
	KindNesting:       "nesting",
	KindInvalid:       "invalid",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is one selector part. Value holds the name (class, id, type, pseudo),
// the combinator character, the attribute body or the raw invalid text.
// Functional nodes (Func) keep either parsed selector arguments in Nodes or
// raw argument text in Args. KindSelector nodes hold a compound sequence in Nodes.
type Node struct {
	Kind  Kind
	Value string
	Nodes []*Node
	Args  string
	Func  bool
}

// List is a comma separated selector list; every item is a KindSelector node.
type List []*Node

const (
	Descendant = " "
	Child      = ">"
	Adjacent   = "+"
	Sibling    = "~"
)

// Clone deep-copies n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Nodes = CloneNodes(n.Nodes)
	return &cp
}

// CloneNodes deep-copies a node slice, keeping nil as nil.
func CloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func (l List) Clone() List {
	return List(CloneNodes(l))
}

// IsNodeMatch compares kind and value, ignoring arguments.
func IsNodeMatch(a, b *Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Kind == b.Kind && a.Value == b.Value
}

// HasSelectorArgs reports whether the functional node carries a parsed selector list.
func (n *Node) HasSelectorArgs() bool {
	return n.Func && n.Nodes != nil
}

func NewClass(name string) *Node { return &Node{Kind: KindClass, Value: name} }

func NewType(name string) *Node { return &Node{Kind: KindType, Value: name} }

func NewCombinator(value string) *Node { return &Node{Kind: KindCombinator, Value: value} }

func NewSelector(nodes ...*Node) *Node { return &Node{Kind: KindSelector, Nodes: nodes} }

// IsCompRoot reports whether name follows the component (capitalised) convention.
func IsCompRoot(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// IsSimple reports whether the selector is a single class or type with no
// other parts, which is where -st-* definitions are allowed.
func IsSimple(l List) bool {
	if len(l) != 1 || len(l[0].Nodes) != 1 {
		return false
	}
	n := l[0].Nodes[0]
	return (n.Kind == KindClass || n.Kind == KindType) && !n.Func
}

// IsPseudoClass reports whether n is the pseudo-class name (case insensitive).
func IsPseudoClass(n *Node, name string) bool {
	return n != nil && n.Kind == KindPseudoClass && strings.EqualFold(n.Value, name)
}
