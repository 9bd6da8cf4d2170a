package cssast

import (
	"stylc/internal/source"
)

// NodeID is a 1-based handle into a Tree. Handles stay valid across Clone,
// which is what lets symbols and diagnostics point at nodes of either the
// source tree or the output tree.
type NodeID uint32

const NoNode NodeID = 0

type Kind uint8

const (
	KindInvalid Kind = iota
	KindRoot
	KindRule
	KindAtRule
	KindDecl
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindRule:
		return "rule"
	case KindAtRule:
		return "atrule"
	case KindDecl:
		return "decl"
	case KindComment:
		return "comment"
	}
	return "invalid"
}

// Node is one CSS statement. Which fields are meaningful depends on Kind:
// rules use Selector; at-rules use Name, Params and HasBlock; declarations
// use Prop, Value and Important; comments use Text (without delimiters).
type Node struct {
	Kind     Kind
	Parent   NodeID
	Children []NodeID

	Selector string
	Name     string
	Params   string
	HasBlock bool

	Prop      string
	Value     string
	Important bool

	Text string

	Span source.Span
}

// IsContainer reports whether the node may hold children.
func (n *Node) IsContainer() bool {
	switch n.Kind {
	case KindRoot, KindRule:
		return true
	case KindAtRule:
		return n.HasBlock
	}
	return false
}
