package features

import (
	"sort"
	"strings"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/meta"
	"stylc/internal/selector"
)

// CustomSelector handles @custom-selector :--name <selector-list>.
var CustomSelector = &Feature{
	Name: "custom-selector",
	AnalyzeAtRule: func(ctx *Context, id cssast.NodeID) {
		m := ctx.Meta
		n := atRule(m, id, "custom-selector")
		if n == nil {
			return
		}
		m.Remove(id)
		params := strings.TrimSpace(n.Params)
		cut := strings.IndexFunc(params, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' })
		if !strings.HasPrefix(params, ":--") || cut < 0 {
			m.Error(diag.SelParse, id, "", "invalid @custom-selector %q", params)
			return
		}
		name := params[len(":--"):cut]
		list := selector.Parse(strings.TrimSpace(params[cut:]))
		if ctx.AnalyzeSelector != nil {
			ctx.AnalyzeSelector(list, id, false)
		}
		m.Data.CustomSelectors[name] = &meta.CustomSelector{Name: name, List: list, Node: id}
	},
	AnalyzeDone: func(ctx *Context) {
		m := ctx.Meta
		names := make([]string, 0, len(m.Data.CustomSelectors))
		for name := range m.Data.CustomSelectors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			expandDefinition(m, name, nil)
		}
	},
	TransformSelectorNode: func(tc *TransformContext, sc *SelectorContext, n *selector.Node) ([]*selector.Node, bool) {
		if n.Kind != selector.KindPseudoClass || !strings.HasPrefix(n.Value, "--") {
			return nil, false
		}
		tc.warn(diag.SelUnknownCustomSelector, sc.Rule, ":"+n.Value, "unknown custom selector %q", ":"+n.Value)
		return []*selector.Node{n}, true
	},
}

// expandDefinition substitutes nested custom selectors inside the definition
// of name. A definition that reaches itself is reported and left as is.
func expandDefinition(m *meta.Meta, name string, stack []string) selector.List {
	def := m.Data.CustomSelectors[name]
	if def == nil {
		return nil
	}
	if def.Expanded {
		return def.List
	}
	for _, s := range stack {
		if s == name {
			m.Error(diag.SelCircularCustomSelector, def.Node, "", "circular custom selector: %s",
				":--"+strings.Join(append(stack, name), " -> :--"))
			return nil
		}
	}
	stack = append(stack[:len(stack):len(stack)], name)
	def.List = ExpandCustomSelectors(def.List, func(ref string) selector.List {
		return expandDefinition(m, ref, stack)
	})
	def.Expanded = true
	return def.List
}

// CustomSelectorLookup returns the expanded definitions of m.
func CustomSelectorLookup(m *meta.Meta) func(name string) selector.List {
	return func(name string) selector.List {
		if def := m.Data.CustomSelectors[name]; def != nil {
			return def.List
		}
		return nil
	}
}

// ExpandCustomSelectors replaces every :--name reference with its
// definition. A compound that holds a reference with several alternatives
// yields one selector per alternative. Unknown references stay in place.
func ExpandCustomSelectors(list selector.List, lookup func(name string) selector.List) selector.List {
	out := make(selector.List, 0, len(list))
	for _, sel := range list {
		out = append(out, expandSelector(sel, lookup)...)
	}
	return out
}

func expandSelector(sel *selector.Node, lookup func(name string) selector.List) []*selector.Node {
	results := []*selector.Node{selector.NewSelector()}
	for _, n := range sel.Nodes {
		if n.Kind == selector.KindPseudoClass && !n.Func && strings.HasPrefix(n.Value, "--") {
			if def := lookup(n.Value[2:]); len(def) > 0 {
				next := make([]*selector.Node, 0, len(results)*len(def))
				for _, r := range results {
					for _, alt := range def {
						cp := r.Clone()
						cp.Nodes = append(cp.Nodes, selector.CloneNodes(alt.Nodes)...)
						next = append(next, cp)
					}
				}
				results = next
				continue
			}
		}
		if n.HasSelectorArgs() {
			n = n.Clone()
			n.Nodes = ExpandCustomSelectors(n.Nodes, lookup)
		}
		for _, r := range results {
			r.Nodes = append(r.Nodes, n.Clone())
		}
	}
	return results
}

// CustomSelectorScoped reports whether every alternative of :--name holds a
// local class, which scopes the selector using it.
func CustomSelectorScoped(m *meta.Meta, name string) bool {
	def := m.Data.CustomSelectors[name]
	if def == nil || len(def.List) == 0 {
		return false
	}
	for _, sel := range def.List {
		local := false
		for _, n := range sel.Nodes {
			if n.Kind != selector.KindClass {
				continue
			}
			if c := m.Class(n.Value); c != nil && c.Alias == nil {
				local = true
				break
			}
		}
		if !local {
			return false
		}
	}
	return true
}
