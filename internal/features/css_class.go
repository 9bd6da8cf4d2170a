package features

import (
	"slices"
	"strings"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/meta"
	"stylc/internal/namespace"
	"stylc/internal/selector"
	"stylc/internal/symbols"
)

// CSSClass registers classes, reads -st-extends / -st-states / -st-global and
// rewrites classes, pseudo-states and custom pseudo-elements.
var CSSClass = &Feature{
	Name: "css-class",
	AnalyzeSelectorNode: func(ctx *Context, sn SelectorNode) selector.Action {
		if sn.Node.Kind != selector.KindClass {
			return selector.Continue
		}
		m := ctx.Meta
		AddClass(m, sn.Node.Value, sn.Rule)
		if sn.Node.Value == meta.RootClass && len(sn.Parents) <= 1 {
			if list := m.Selector(sn.Rule); list != nil && !selector.IsRootValid(list) {
				m.Error(diag.SelRootAfterSpacing, sn.Rule, ".root",
					"\".root\" class cannot be used after native elements or selectors external to the stylesheet")
			}
		}
		return selector.Continue
	},
	AnalyzeDeclaration: func(ctx *Context, id cssast.NodeID) {
		m := ctx.Meta
		d := m.AST.Node(id)
		switch d.Prop {
		case "-st-extends", "-st-states", "-st-global":
		default:
			return
		}
		m.Remove(id)
		rule := m.AST.Parent(id)
		list := m.Selector(rule)
		if !selector.IsSimple(list) {
			m.Error(diag.SelDefInComplex, id, d.Prop, "cannot define %q inside a complex selector", d.Prop)
			return
		}
		target := list[0].Nodes[0]
		if target.Kind == selector.KindType {
			m.Error(diag.SelInvalidStateDef, id, d.Prop, "cannot define %q on a type selector", d.Prop)
			return
		}
		sym := m.Class(target.Value)
		if sym == nil {
			sym = AddClass(m, target.Value, rule)
		}
		if sym.Alias != nil && d.Prop != "-st-global" {
			m.Error(diag.SelOverrideImportedClass, id, d.Prop, "cannot define %q on imported class %q", d.Prop, target.Value)
			return
		}
		switch d.Prop {
		case "-st-extends":
			extendClass(m, id, sym, strings.TrimSpace(d.Value))
		case "-st-states":
			states, errs := parseStates(d.Value)
			for _, err := range errs {
				m.Error(diag.SelInvalidStateDef, id, "", "%s", err.Error())
			}
			for _, st := range states {
				sym.States = setState(sym.States, st)
			}
		case "-st-global":
			value := strings.TrimSpace(d.Value)
			global := strings.TrimSpace(namespace.StripQuotes(value))
			if global == value || global == "" || len(selector.Parse(global)) != 1 {
				m.Error(diag.SelInvalidGlobalDecl, id, d.Prop, "-st-global must be a quoted single selector")
				return
			}
			sym.GlobalSelector = global
		}
	},
	TransformSelectorNode: func(tc *TransformContext, sc *SelectorContext, n *selector.Node) ([]*selector.Node, bool) {
		switch n.Kind {
		case selector.KindClass:
			return tc.transformClass(sc, n), true
		case selector.KindPseudoClass:
			return tc.transformState(sc, n)
		case selector.KindPseudoElement:
			return tc.transformPseudoElement(sc, n)
		}
		return nil, false
	},
}

// AddClass returns the class symbol for name, creating it when missing. A
// class named after an import binding becomes an alias of that import.
func AddClass(m *meta.Meta, name string, node cssast.NodeID) *symbols.Symbol {
	existing := m.Symbols.Lookup(name)
	if existing != nil && existing.Kind == symbols.KindClass {
		return existing
	}
	var alias *symbols.Symbol
	if existing != nil {
		alias = existing.ImportOf()
	}
	return m.AddSymbol(name, &symbols.Symbol{Kind: symbols.KindClass, Alias: alias}, node, alias != nil)
}

func setState(states []symbols.State, st symbols.State) []symbols.State {
	for i := range states {
		if states[i].Name == st.Name {
			states[i] = st
			return states
		}
	}
	return append(states, st)
}

func extendClass(m *meta.Meta, decl cssast.NodeID, sym *symbols.Symbol, name string) {
	target := m.Symbols.Lookup(name)
	if target == nil || (target.Kind != symbols.KindClass && target.Kind != symbols.KindElement && target.Kind != symbols.KindImport) {
		m.Error(diag.SelCannotResolveExtend, decl, name, "cannot resolve '-st-extends' type for %q", name)
		return
	}
	if target == sym {
		m.Error(diag.SelCircularExtends, decl, name, "circular extends of %q", name)
		return
	}
	sym.Extends = target
}

// ValidateClassScoping reports whether the class at sn scopes its selector.
// Imported classes only do when followed by a local class in the same compound.
func ValidateClassScoping(m *meta.Meta, sn SelectorNode, locallyScoped, reportUnscoped bool) bool {
	sym := m.Class(sn.Node.Value)
	switch {
	case sym == nil:
		return locallyScoped
	case sym.Alias == nil:
		return true
	case locallyScoped:
		return true
	}
	if scopedAfter(m, sn) {
		return true
	}
	if reportUnscoped {
		m.Warn(diag.SelUnscopedClass, sn.Rule, sn.Node.Value,
			"unscoped class %q will affect all elements of the same type in the document", sn.Node.Value)
	}
	return false
}

// scopedAfter looks for a local class later in the same compound selector.
func scopedAfter(m *meta.Meta, sn SelectorNode) bool {
	for _, n := range sn.Nodes[sn.Index+1:] {
		if n.Kind == selector.KindCombinator {
			break
		}
		if n.Kind != selector.KindClass {
			continue
		}
		sym := AddClass(m, n.Value, sn.Rule)
		if sym.Alias == nil {
			return true
		}
	}
	return false
}

func (tc *TransformContext) transformClass(sc *SelectorContext, n *selector.Node) []*selector.Node {
	m := tc.Meta
	sym := m.Symbols.Lookup(n.Value)
	if sym == nil || sym.Kind == symbols.KindClass && sym.Alias == nil {
		if sym == nil {
			sym = &symbols.Symbol{Kind: symbols.KindClass, Name: n.Value}
		}
		chain, cycle := tc.Resolver.ResolveExtends(m, n.Value)
		if cycle {
			tc.error(diag.SelCircularExtends, sc.Rule, n.Value, "circular extends of %q", n.Value)
		}
		sc.Anchor = chain
		return classOutput(m, sym)
	}
	origin := tc.Resolver.DeepResolve(m, sym)
	if origin == nil || (origin.Symbol.Kind != symbols.KindClass && origin.Symbol.Kind != symbols.KindElement) {
		sc.Anchor = nil
		return []*selector.Node{n}
	}
	sc.Anchor, _ = tc.Resolver.ResolveExtends(origin.Meta, origin.Symbol.Name)
	return classOutput(origin.Meta, origin.Symbol)
}

// classOutput is the output of a class defined in m: its -st-global
// selector or the namespaced class.
func classOutput(m *meta.Meta, sym *symbols.Symbol) []*selector.Node {
	if sym.GlobalSelector != "" {
		if list := selector.Parse(sym.GlobalSelector); len(list) > 0 {
			return selector.CloneNodes(list[0].Nodes)
		}
	}
	return []*selector.Node{selector.NewClass(ClassName(m.Namespace, sym.Name))}
}

func (tc *TransformContext) transformState(sc *SelectorContext, n *selector.Node) ([]*selector.Node, bool) {
	if strings.HasPrefix(n.Value, "--") || n.HasSelectorArgs() {
		return nil, false
	}
	switch strings.ToLower(n.Value) {
	case "global", "import", "vars":
		return nil, false
	}
	for _, link := range sc.Anchor {
		st, ok := link.Symbol.State(n.Value)
		if !ok {
			continue
		}
		return tc.stateOutput(sc, link.Meta, st, n), true
	}
	if !selector.IsNativePseudoClass(n.Value) {
		tc.warn(diag.SelUnknownPseudoClass, sc.Rule, ":"+n.Value, "unknown pseudo-state %q", n.Value)
	}
	return nil, false
}

func (tc *TransformContext) stateOutput(sc *SelectorContext, m *meta.Meta, st symbols.State, n *selector.Node) []*selector.Node {
	if st.Mapped != "" {
		if list := selector.Parse(st.Mapped); len(list) > 0 {
			return selector.CloneNodes(list[0].Nodes)
		}
	}
	if st.Param == "" {
		return []*selector.Node{selector.NewClass(StateClass(m.Namespace, st.Name))}
	}
	arg := strings.TrimSpace(n.Args)
	if arg != "" && strings.Contains(arg, "value(") {
		arg = tc.substituteVars(tc.Meta, arg, sc.Rule)
	}
	if arg == "" {
		arg = st.Default
	}
	if arg == "" {
		tc.warn(diag.SelStateParamMissing, sc.Rule, ":"+n.Value, "pseudo-state %q expects a parameter", n.Value)
	} else if st.Param == "enum" && !slices.Contains(st.Options, arg) {
		tc.warn(diag.SelInvalidStateDef, sc.Rule, arg, "pseudo-state %q value %q is not one of %s",
			n.Value, arg, strings.Join(st.Options, ", "))
	}
	return []*selector.Node{selector.NewClass(StateParamClass(m.Namespace, st.Name, arg))}
}

func (tc *TransformContext) transformPseudoElement(sc *SelectorContext, n *selector.Node) ([]*selector.Node, bool) {
	for _, link := range sc.Anchor {
		part := link.Meta.Symbols.Lookup(n.Value)
		if part == nil || part.Kind != symbols.KindClass || part.IsRoot {
			continue
		}
		out := []*selector.Node{selector.NewCombinator(selector.Descendant)}
		partMeta, partSym := link.Meta, part
		if part.Alias != nil {
			origin := tc.Resolver.DeepResolve(link.Meta, part)
			if origin == nil {
				break
			}
			partMeta, partSym = origin.Meta, origin.Symbol
		}
		sc.Anchor, _ = tc.Resolver.ResolveExtends(partMeta, partSym.Name)
		return append(out, classOutput(partMeta, partSym)...), true
	}
	if !selector.IsNativePseudoElement(n.Value) {
		tc.warn(diag.SelUnknownPseudoElement, sc.Rule, "::"+n.Value, "unknown pseudo-element %q", n.Value)
	}
	sc.Anchor = nil
	return nil, false
}
