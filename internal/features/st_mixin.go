package features

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/meta"
	"stylc/internal/mixin"
	"stylc/internal/resolver"
	"stylc/internal/symbols"
)

// STMixin applies -st-mixin / -st-partial-mixin declarations once every
// other transform is done.
var STMixin = &Feature{
	Name: "st-mixin",
	AnalyzeDeclaration: func(ctx *Context, id cssast.NodeID) {
		m := ctx.Meta
		d := m.AST.Node(id)
		partial, ok := isMixinProp(d.Prop)
		if !ok {
			return
		}
		rule := m.AST.Parent(id)
		if n := m.AST.Node(rule); n == nil || n.Kind != cssast.KindRule {
			return
		}
		for _, ref := range ParseMixins(d.Value) {
			ref.Decl = id
			ref.Partial = partial
			m.Data.Mixins[rule] = append(m.Data.Mixins[rule], ref)
		}
	},
	TransformLastPass: func(tc *TransformContext) {
		for _, rule := range tc.Tree.Collect(cssast.KindRule) {
			for _, c := range tc.Tree.Children(rule) {
				d := tc.Tree.Node(c)
				if d.Kind != cssast.KindDecl {
					continue
				}
				partial, ok := isMixinProp(d.Prop)
				if !ok {
					continue
				}
				after := rule
				for _, ref := range ParseMixins(d.Value) {
					ref.Partial = partial
					after = tc.applyMixin(rule, c, after, ref)
				}
				tc.Tree.Remove(c)
			}
		}
	},
}

func isMixinProp(prop string) (partial, ok bool) {
	switch prop {
	case "-st-mixin":
		return false, true
	case "-st-partial-mixin":
		return true, true
	}
	return false, false
}

// IsMixinProp reports whether prop applies mixins.
func IsMixinProp(prop string) bool {
	_, ok := isMixinProp(prop)
	return ok
}

// ParseMixins reads "A, B(name value, other value)".
func ParseMixins(value string) []meta.MixinRef {
	var refs []meta.MixinRef
	for _, item := range splitArgs(value) {
		open := strings.IndexByte(item, '(')
		if open < 0 {
			if item != "" {
				refs = append(refs, meta.MixinRef{Name: item})
			}
			continue
		}
		ref := meta.MixinRef{Name: strings.TrimSpace(item[:open])}
		end := matchParen(item, open)
		if end < 0 {
			end = len(item)
		}
		for _, arg := range splitArgs(item[open+1 : end]) {
			name, val, _ := strings.Cut(arg, " ")
			if name == "" {
				continue
			}
			ref.Overrides = append(ref.Overrides, meta.VarOverride{Name: name, Value: strings.TrimSpace(val)})
		}
		refs = append(refs, ref)
	}
	return refs
}

func (tc *TransformContext) applyMixin(rule, decl, after cssast.NodeID, ref meta.MixinRef) cssast.NodeID {
	m := tc.Meta
	sym := m.Symbols.Lookup(ref.Name)
	if sym == nil {
		tc.warn(diag.MixUnknown, decl, ref.Name, "unknown mixin: %q", ref.Name)
		return after
	}
	res := &resolver.Result{Kind: resolver.OriginCSS, Meta: m, Symbol: sym}
	if sym.ImportOf() != nil {
		res = tc.Resolver.ResolveSymbolOrigin(m, sym)
	}
	switch {
	case res.Kind == resolver.OriginJS:
		tc.warn(diag.MixInvalidKind, decl, ref.Name, "JavaScript mixin %q is not supported", ref.Name)
		return after
	case res.Kind == resolver.OriginUnresolved:
		tc.warn(diag.MixUnknown, decl, ref.Name, "unknown mixin: %q", ref.Name)
		return after
	case res.Symbol.Kind != symbols.KindClass:
		tc.warn(diag.MixInvalidKind, decl, ref.Name, "%q is not a class mixin", ref.Name)
		return after
	}
	origin, class := res.Meta, res.Symbol.Name
	key := origin.Source + "#" + class
	if slices.Contains(tc.MixinStack, key) {
		tc.error(diag.MixCircular, decl, ref.Name, "circular mixin found: %s",
			strings.Join(append(slices.Clone(tc.MixinStack), key), " --> "))
		return after
	}
	fragment := mixin.Subset(origin.AST, class, mixin.Options{
		Root: res.Symbol.IsRoot,
		Skip: func(id cssast.NodeID) bool { return origin.Data.Removed[id] },
	})
	overrides := make(map[string]string, len(ref.Overrides))
	for _, o := range ref.Overrides {
		overrides[o.Name] = o.Value
	}
	if ref.Partial {
		filterPartial(fragment, overrides)
	}
	if tc.TransformFragment != nil {
		report := tc.ReportNode
		if report == cssast.NoNode {
			report = decl
		}
		tc.TransformFragment(origin, fragment, overrides, append(slices.Clip(tc.MixinStack), key), report)
	}
	tc.debug("apply mixin",
		zap.String("mixin", ref.Name),
		zap.String("origin", origin.Source),
		zap.Bool("partial", ref.Partial),
		zap.Int("depth", len(tc.MixinStack)),
	)
	return mixin.MergeRulesAfter(fragment, tc.Tree, rule, decl, after, func(content string) {
		tc.warn(diag.MixInvalidMerge, decl, "", "invalid merge of: \n\"%s\"", content)
	})
}

// filterPartial keeps only declarations that use one of the overridden vars.
func filterPartial(t *cssast.Tree, overrides map[string]string) {
	for _, id := range t.Collect(cssast.KindDecl) {
		used := false
		replaceCalls(t.Node(id).Value, "value", func(args string) (string, bool) {
			if _, ok := overrides[strings.TrimSpace(args)]; ok {
				used = true
			}
			return "", false
		})
		if !used {
			t.Remove(id)
		}
	}
	pruneEmpty(t, t.Root())
}

func pruneEmpty(t *cssast.Tree, id cssast.NodeID) {
	for _, c := range t.Children(id) {
		n := t.Node(c)
		if n.Kind != cssast.KindRule && n.Kind != cssast.KindAtRule {
			continue
		}
		pruneEmpty(t, c)
		if n.HasBlock || n.Kind == cssast.KindRule {
			if len(t.Node(c).Children) == 0 {
				t.Remove(c)
			}
		}
	}
}
