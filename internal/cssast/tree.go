package cssast

import (
	"slices"

	"stylc/internal/source"
)

// Tree is an arena-backed CSS syntax tree. Node pointers returned by Node are
// invalidated by any call that allocates; hold NodeIDs across mutations.
type Tree struct {
	File  source.FileID
	nodes *Arena[Node]
	root  NodeID
}

// NewTree creates a tree holding only its root.
func NewTree(file source.FileID) *Tree {
	t := &Tree{File: file, nodes: NewArena[Node](64)}
	t.root = NodeID(t.nodes.Allocate(Node{Kind: KindRoot, Span: source.Span{File: file}}))
	return t
}

func (t *Tree) Root() NodeID { return t.root }

// Node returns the node for id or nil for NoNode / out of range handles.
func (t *Tree) Node(id NodeID) *Node {
	if t == nil {
		return nil
	}
	return t.nodes.Get(uint32(id))
}

// Len reports how many nodes were ever allocated, attached or not.
func (t *Tree) Len() int { return int(t.nodes.Len()) }

func (t *Tree) alloc(n Node) NodeID {
	return NodeID(t.nodes.Allocate(n))
}

// NewRule allocates a detached rule.
func (t *Tree) NewRule(selector string) NodeID {
	return t.alloc(Node{Kind: KindRule, Selector: selector})
}

// NewAtRule allocates a detached at-rule.
func (t *Tree) NewAtRule(name, params string, hasBlock bool) NodeID {
	return t.alloc(Node{Kind: KindAtRule, Name: name, Params: params, HasBlock: hasBlock})
}

// NewDecl allocates a detached declaration.
func (t *Tree) NewDecl(prop, value string) NodeID {
	return t.alloc(Node{Kind: KindDecl, Prop: prop, Value: value})
}

// NewComment allocates a detached comment.
func (t *Tree) NewComment(text string) NodeID {
	return t.alloc(Node{Kind: KindComment, Text: text})
}

// Children returns a copy of id's child list, safe to iterate while mutating.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	return slices.Clone(n.Children)
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNode
}

// Index returns child's position inside its parent or -1.
func (t *Tree) Index(child NodeID) int {
	p := t.Node(t.Parent(child))
	if p == nil {
		return -1
	}
	return slices.Index(p.Children, child)
}

// Append attaches child as the last child of parent, detaching it first.
func (t *Tree) Append(parent, child NodeID) {
	t.Remove(child)
	p := t.Node(parent)
	p.Children = append(p.Children, child)
	t.Node(child).Parent = parent
}

// Prepend attaches child as the first child of parent.
func (t *Tree) Prepend(parent, child NodeID) {
	t.Remove(child)
	p := t.Node(parent)
	p.Children = slices.Insert(p.Children, 0, child)
	t.Node(child).Parent = parent
}

// InsertBefore attaches nodes, in order, right before ref.
func (t *Tree) InsertBefore(ref NodeID, nodes ...NodeID) {
	t.insertAt(ref, 0, nodes)
}

// InsertAfter attaches nodes, in order, right after ref.
func (t *Tree) InsertAfter(ref NodeID, nodes ...NodeID) {
	t.insertAt(ref, 1, nodes)
}

func (t *Tree) insertAt(ref NodeID, shift int, nodes []NodeID) {
	parent := t.Parent(ref)
	if parent == NoNode {
		return
	}
	for _, n := range nodes {
		t.Remove(n)
	}
	p := t.Node(parent)
	at := slices.Index(p.Children, ref) + shift
	p.Children = slices.Insert(p.Children, at, nodes...)
	for _, n := range nodes {
		t.Node(n).Parent = parent
	}
}

// Remove detaches id from its parent. The node and its subtree stay allocated
// so handles held elsewhere remain readable.
func (t *Tree) Remove(id NodeID) {
	n := t.Node(id)
	if n == nil || n.Parent == NoNode {
		return
	}
	p := t.Node(n.Parent)
	if i := slices.Index(p.Children, id); i >= 0 {
		p.Children = slices.Delete(p.Children, i, i+1)
	}
	n.Parent = NoNode
}

// ReplaceWith puts nodes where id was and detaches id.
func (t *Tree) ReplaceWith(id NodeID, nodes ...NodeID) {
	t.InsertBefore(id, nodes...)
	t.Remove(id)
}

// Attached reports whether id is reachable from the root.
func (t *Tree) Attached(id NodeID) bool {
	for id != NoNode {
		if id == t.root {
			return true
		}
		id = t.Parent(id)
	}
	return false
}

// Walk visits the subtree of from in pre-order. Returning false from fn skips
// the children of the visited node. Children lists are snapshotted, so fn may
// mutate the tree; nodes detached during the walk are not visited.
func (t *Tree) Walk(from NodeID, fn func(id NodeID) bool) {
	var visit func(id NodeID)
	visit = func(id NodeID) {
		for _, c := range t.Children(id) {
			if t.Parent(c) != id {
				continue
			}
			if fn(c) {
				visit(c)
			}
		}
	}
	visit(from)
}

// Collect returns, in document order, every attached node of the given kind.
func (t *Tree) Collect(kind Kind) []NodeID {
	var out []NodeID
	t.Walk(t.root, func(id NodeID) bool {
		if t.Node(id).Kind == kind {
			out = append(out, id)
		}
		return true
	})
	return out
}

// ClosestAtRule returns the nearest ancestor at-rule with the given name.
func (t *Tree) ClosestAtRule(id NodeID, name string) NodeID {
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		n := t.Node(p)
		if n.Kind == KindAtRule && n.Name == name {
			return p
		}
	}
	return NoNode
}

// IsChildOfAtRule reports whether id has an ancestor at-rule named name.
func (t *Tree) IsChildOfAtRule(id NodeID, name string) bool {
	return t.ClosestAtRule(id, name) != NoNode
}

// Clone deep-copies the tree. Every NodeID valid in t is valid in the clone
// and refers to the copy of the same node.
func (t *Tree) Clone() *Tree {
	data := t.nodes.Slice()
	arena := NewArena[Node](uint(len(data)))
	for i := range data {
		n := data[i]
		n.Children = slices.Clone(n.Children)
		arena.Allocate(n)
	}
	return &Tree{File: t.File, nodes: arena, root: t.root}
}

// Import deep-copies the subtree id of src into t and returns the detached copy.
func (t *Tree) Import(src *Tree, id NodeID) NodeID {
	n := src.Node(id)
	if n == nil || n.Kind == KindRoot {
		return NoNode
	}
	cp := *n
	kids := slices.Clone(n.Children)
	cp.Parent = NoNode
	cp.Children = nil
	out := t.alloc(cp)
	for _, c := range kids {
		child := t.Import(src, c)
		t.Node(out).Children = append(t.Node(out).Children, child)
		t.Node(child).Parent = out
	}
	return out
}

// Detach copies subtree id into a fresh tree whose root holds the copy's
// children when id is a root, or the copy itself otherwise.
func Detach(src *Tree, id NodeID) *Tree {
	out := NewTree(src.File)
	if src.Node(id).Kind == KindRoot {
		for _, c := range src.Children(id) {
			out.Append(out.root, out.Import(src, c))
		}
		return out
	}
	out.Append(out.root, out.Import(src, id))
	return out
}
