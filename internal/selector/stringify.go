package selector

import (
	"strings"
)

// Stringify prints a selector list in canonical form: list items are joined
// with ", " and combinators other than descendant are surrounded by spaces.
func Stringify(nodes []*Node) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		writeNode(&b, n)
	}
	return b.String()
}

// StringifyNode prints one node.
func StringifyNode(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func (l List) String() string { return Stringify(l) }

func writeNode(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindSelector:
		writeCompound(b, n.Nodes)
		return
	case KindClass:
		b.WriteByte('.')
		b.WriteString(n.Value)
	case KindID:
		b.WriteByte('#')
		b.WriteString(n.Value)
	case KindAttribute:
		b.WriteByte('[')
		b.WriteString(n.Value)
		b.WriteByte(']')
	case KindPseudoClass:
		b.WriteByte(':')
		b.WriteString(n.Value)
	case KindPseudoElement:
		b.WriteString("::")
		b.WriteString(n.Value)
	case KindCombinator:
		if n.Value == Descendant {
			b.WriteByte(' ')
		} else {
			b.WriteString(" " + n.Value + " ")
		}
		return
	default:
		b.WriteString(n.Value)
	}
	if n.Func {
		b.WriteByte('(')
		if n.Nodes != nil {
			b.WriteString(Stringify(n.Nodes))
		} else {
			b.WriteString(n.Args)
		}
		b.WriteByte(')')
	}
}

// writeCompound drops the outer padding of leading and trailing combinators.
func writeCompound(b *strings.Builder, nodes []*Node) {
	for i, n := range nodes {
		if n.Kind != KindCombinator {
			writeNode(b, n)
			continue
		}
		s := StringifyNode(n)
		if i == 0 {
			s = strings.TrimLeft(s, " ")
		}
		if i == len(nodes)-1 {
			s = strings.TrimRight(s, " ")
		}
		b.WriteString(s)
	}
}
