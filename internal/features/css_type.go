package features

import (
	"stylc/internal/diag"
	"stylc/internal/meta"
	"stylc/internal/selector"
	"stylc/internal/symbols"
)

// CSSType registers capitalised component elements and maps imported ones
// to the root class of their stylesheet.
var CSSType = &Feature{
	Name: "css-type",
	AnalyzeSelectorNode: func(ctx *Context, sn SelectorNode) selector.Action {
		if sn.Node.Kind != selector.KindType || !selector.IsCompRoot(sn.Node.Value) {
			return selector.Continue
		}
		m := ctx.Meta
		name := sn.Node.Value
		existing := m.Symbols.Lookup(name)
		if existing != nil && (existing.Kind == symbols.KindElement || existing.Kind == symbols.KindClass && existing.Alias != nil) {
			return selector.Continue
		}
		var alias *symbols.Symbol
		if existing != nil {
			alias = existing.ImportOf()
		}
		m.AddSymbol(name, &symbols.Symbol{Kind: symbols.KindElement, Alias: alias}, sn.Rule, alias != nil)
		return selector.Continue
	},
	TransformSelectorNode: func(tc *TransformContext, sc *SelectorContext, n *selector.Node) ([]*selector.Node, bool) {
		if n.Kind != selector.KindType {
			return nil, false
		}
		sc.Anchor = nil
		sym := tc.Meta.Symbols.Lookup(n.Value)
		if !selector.IsCompRoot(n.Value) || sym == nil || sym.ImportOf() == nil {
			return []*selector.Node{n}, true
		}
		origin := tc.Resolver.DeepResolve(tc.Meta, sym)
		if origin == nil || (origin.Symbol.Kind != symbols.KindClass && origin.Symbol.Kind != symbols.KindElement) {
			return []*selector.Node{n}, true
		}
		sc.Anchor, _ = tc.Resolver.ResolveExtends(origin.Meta, origin.Symbol.Name)
		return classOutput(origin.Meta, origin.Symbol), true
	},
}

// ValidateTypeScoping reports whether the type selector at sn is scoped.
// Only imported component elements are reported when they are not.
func ValidateTypeScoping(m *meta.Meta, sn SelectorNode, locallyScoped, reportUnscoped bool) bool {
	if locallyScoped || scopedAfter(m, sn) {
		return true
	}
	if reportUnscoped {
		if sym := m.Symbols.Lookup(sn.Node.Value); sym != nil && sym.ImportOf() != nil {
			m.Warn(diag.SelUnscopedType, sn.Rule, sn.Node.Value,
				"unscoped type selector %q will affect all elements of the same type in the document", sn.Node.Value)
		}
	}
	return false
}
