package selector

// Chunk is a run of compound nodes; every chunk after the first starts with
// the combinator that introduced it.
type Chunk []*Node

// SeparateChunks splits each selector of the list into chunks at combinators.
func SeparateChunks(list []*Node) [][]Chunk {
	out := make([][]Chunk, 0, len(list))
	for _, sel := range list {
		chunks := []Chunk{{}}
		for _, n := range sel.Nodes {
			if n.Kind == KindCombinator {
				chunks = append(chunks, Chunk{n})
				continue
			}
			last := len(chunks) - 1
			chunks[last] = append(chunks[last], n)
		}
		out = append(out, chunks)
	}
	return out
}

// MergeChunks is the inverse of SeparateChunks.
func MergeChunks(chunked [][]Chunk) List {
	out := make(List, 0, len(chunked))
	for _, chunks := range chunked {
		sel := &Node{Kind: KindSelector, Nodes: []*Node{}}
		for _, c := range chunks {
			sel.Nodes = append(sel.Nodes, c...)
		}
		out = append(out, sel)
	}
	return out
}

// IsRootValid reports whether every occurrence of the root class in the list
// sits at the start of its selector, allowing only :global(...) scopes
// before it.
func IsRootValid(list []*Node) bool {
	for _, sel := range list {
		if sel.Kind != KindSelector {
			continue
		}
		for i, n := range sel.Nodes {
			if n.Kind == KindClass && n.Value == "root" && !rootPrefixValid(sel.Nodes[:i]) {
				return false
			}
		}
	}
	return true
}

func rootPrefixValid(prefix []*Node) bool {
	lastGlobal := false
	for _, n := range prefix {
		switch {
		case IsPseudoClass(n, "global"):
			lastGlobal = true
		case n.Kind == KindCombinator:
			if !lastGlobal {
				return false
			}
		case n.Kind == KindType, n.Kind == KindClass && n.Value != "root":
			lastGlobal = false
		}
	}
	return true
}

type targetPart struct {
	node   *Node
	pseudo []*Node
}

// lastTargets groups the class / type parts of the last chunk with the
// pseudo-elements that follow them. Repeated plain parts are dropped.
func lastTargets(chunks []Chunk) []targetPart {
	var parts []targetPart
	for _, n := range chunks[len(chunks)-1] {
		switch n.Kind {
		case KindClass, KindType:
			parts = append(parts, targetPart{node: n})
		case KindPseudoElement:
			if len(parts) > 0 {
				parts[len(parts)-1].pseudo = append(parts[len(parts)-1].pseudo, n)
			}
		}
	}
	out := parts[:0:0]
	for i, p := range parts {
		dup := false
		for j, o := range parts {
			if i != j && IsNodeMatch(p.node, o.node) {
				dup = true
				break
			}
		}
		if len(p.pseudo) > 0 || !dup {
			out = append(out, p)
		}
	}
	return out
}

func samePseudo(a, b targetPart) bool {
	if len(a.pseudo) != len(b.pseudo) {
		return false
	}
	for i := range a.pseudo {
		if !IsNodeMatch(a.pseudo[i], b.pseudo[i]) {
			return false
		}
	}
	return true
}

// MatchTarget reports whether target styles the same element as request:
// the last compound of request must end with the parts of the last compound
// of some selector in target, pseudo-elements included.
func MatchTarget(request, target string) bool {
	a := SeparateChunks(Parse(request))
	if len(a) == 0 {
		return false
	}
	want := lastTargets(a[0])
	for _, chunks := range SeparateChunks(Parse(target)) {
		var got []targetPart
		for _, p := range lastTargets(chunks) {
			for _, w := range want {
				if IsNodeMatch(w.node, p.node) {
					got = append(got, p)
					break
				}
			}
		}
		if endsWith(want, got) {
			return true
		}
	}
	return false
}

func endsWith(all, tail []targetPart) bool {
	offset := len(all) - len(tail)
	if offset < 0 || len(tail) == 0 {
		return false
	}
	for i, b := range tail {
		a := all[i+offset]
		if !IsNodeMatch(a.node, b.node) || !samePseudo(a, b) {
			return false
		}
	}
	return true
}
