package cssast

import (
	"strings"
)

const indentUnit = "    "

// Print serialises the attached part of the tree in canonical form: one
// statement per line, blocks indented by four spaces, empty blocks as "{}".
func Print(t *Tree) string {
	var b strings.Builder
	for _, c := range t.Node(t.Root()).Children {
		printNode(&b, t, c, 0)
	}
	return b.String()
}

// PrintNode serialises a single subtree without a trailing newline.
func PrintNode(t *Tree, id NodeID) string {
	var b strings.Builder
	printNode(&b, t, id, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func printNode(b *strings.Builder, t *Tree, id NodeID, depth int) {
	n := t.Node(id)
	indent := strings.Repeat(indentUnit, depth)
	b.WriteString(indent)
	switch n.Kind {
	case KindDecl:
		b.WriteString(n.Prop)
		b.WriteString(": ")
		b.WriteString(n.Value)
		if n.Important {
			b.WriteString(" !important")
		}
		b.WriteString(";\n")
	case KindComment:
		b.WriteString("/*")
		b.WriteString(n.Text)
		b.WriteString("*/\n")
	case KindRule:
		b.WriteString(n.Selector)
		printBlock(b, t, n.Children, depth, indent)
	case KindAtRule:
		b.WriteByte('@')
		b.WriteString(n.Name)
		if n.Params != "" {
			b.WriteByte(' ')
			b.WriteString(n.Params)
		}
		if !n.HasBlock {
			b.WriteString(";\n")
			return
		}
		printBlock(b, t, n.Children, depth, indent)
	}
}

func printBlock(b *strings.Builder, t *Tree, children []NodeID, depth int, indent string) {
	if len(children) == 0 {
		b.WriteString(" {}\n")
		return
	}
	b.WriteString(" {\n")
	for _, c := range children {
		printNode(b, t, c, depth+1)
	}
	b.WriteString(indent)
	b.WriteString("}\n")
}
