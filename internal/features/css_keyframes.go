package features

import (
	"slices"
	"strings"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/meta"
	"stylc/internal/symbols"
)

var reservedKeyframes = []string{"none", "initial", "inherit", "unset", "revert", "revert-layer", "default"}

// CSSKeyframes namespaces @keyframes names and their uses in animation
// declarations.
var CSSKeyframes = &Feature{
	Name: "css-keyframes",
	AnalyzeAtRule: func(ctx *Context, id cssast.NodeID) {
		m := ctx.Meta
		n := atRule(m, id, "keyframes")
		if n == nil {
			return
		}
		name, global := globalName(n.Params)
		if name == "" {
			m.Error(diag.AtrKeyframesMissingName, id, "", "@keyframes missing name")
			return
		}
		if slices.Contains(reservedKeyframes, strings.ToLower(name)) {
			m.Error(diag.AtrKeyframesIllegalName, id, name, "illegal keyframes name %q", name)
			return
		}
		if inRule(m.AST, id) || m.AST.IsChildOfAtRule(id, "st-scope") {
			m.Error(diag.AtrKeyframesInScope, id, "", "cannot use @keyframes inside of a rule or @st-scope")
		}
		addTyped(m, symbols.KindKeyframes, name, global, id)
	},
	TransformAtRule: func(tc *TransformContext, id cssast.NodeID) {
		n := outAtRule(tc, id, "keyframes")
		if n == nil {
			return
		}
		name, global := globalName(n.Params)
		if !global {
			name = tc.typedName(symbols.KindKeyframes, name, id)
		}
		tc.Tree.Node(id).Params = name
	},
	TransformDeclaration: func(tc *TransformContext, id cssast.NodeID) {
		n := tc.Tree.Node(id)
		switch strings.ToLower(n.Prop) {
		case "animation", "animation-name", "-webkit-animation", "-webkit-animation-name":
		default:
			return
		}
		value := mapIdents(n.Value, func(ident string) string {
			if tc.Meta.Symbols.Get(symbols.NSKeyframes, ident) == nil {
				return ident
			}
			return tc.typedName(symbols.KindKeyframes, ident, id)
		})
		tc.Tree.Node(id).Value = value
	},
}

func inRule(t *cssast.Tree, id cssast.NodeID) bool {
	for p := t.Parent(id); p != cssast.NoNode; p = t.Parent(p) {
		if t.Node(p).Kind == cssast.KindRule {
			return true
		}
	}
	return false
}

// addTyped declares a keyframes, layer or container name. Repeated local
// declarations are allowed; an st-global() one marks the name global.
func addTyped(m *meta.Meta, kind symbols.Kind, name string, global bool, node cssast.NodeID) {
	existing := m.Symbols.Get(kind.Namespace(), name)
	if existing != nil && existing.Alias == nil {
		existing.Global = existing.Global || global
		return
	}
	m.AddSymbol(name, &symbols.Symbol{Kind: kind, Global: global}, node, existing == nil)
}

// typedName maps a keyframes, layer or container name of tc.Meta to its
// output name. Unknown names are scoped to tc.Meta.
func (tc *TransformContext) typedName(kind symbols.Kind, name string, node cssast.NodeID) string {
	m := tc.Meta
	sym := m.Symbols.Get(kind.Namespace(), name)
	if sym == nil {
		return ClassName(m.Namespace, name)
	}
	if sym.Alias != nil {
		origin := tc.Resolver.DeepResolve(m, sym)
		if origin == nil {
			return name
		}
		m, sym = origin.Meta, origin.Symbol
	}
	if sym.Global {
		return sym.Name
	}
	return ClassName(m.Namespace, sym.Name)
}
