package features

import (
	"strings"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/meta"
	"stylc/internal/symbols"
)

// CSSCustomProperty namespaces --custom-properties unless they are declared
// global through @property st-global(--x) or @st-global-custom-property.
var CSSCustomProperty = &Feature{
	Name: "css-custom-property",
	AnalyzeInit: func(ctx *Context) {
		m := ctx.Meta
		for _, id := range m.AST.Collect(cssast.KindAtRule) {
			n := m.AST.Node(id)
			switch n.Name {
			case "property":
				name, global := globalName(n.Params)
				if !strings.HasPrefix(name, "--") {
					m.Error(diag.VarPropertyMissingName, id, "", "@property missing custom property name")
					continue
				}
				m.Data.Properties[name] = id
				addCSSVar(m, name, global, id)
			case "st-global-custom-property":
				m.Remove(id)
				for _, name := range splitArgs(n.Params) {
					if !strings.HasPrefix(name, "--") || strings.ContainsAny(name, " \t\n") {
						m.Error(diag.VarIllegalGlobalName, id, name, "st-global-custom-property requires custom property names, got %q", name)
						continue
					}
					m.Data.Properties[name] = id
					addCSSVar(m, name, true, id)
				}
			}
		}
	},
	AnalyzeDeclaration: func(ctx *Context, id cssast.NodeID) {
		m := ctx.Meta
		d := m.AST.Node(id)
		if strings.HasPrefix(d.Prop, "--") {
			addCSSVar(m, d.Prop, false, id)
		}
		if strings.Contains(d.Value, "var(") {
			visitVarCalls(d.Value, func(name string) { addCSSVar(m, name, false, id) })
		}
	},
	TransformAtRule: func(tc *TransformContext, id cssast.NodeID) {
		n := outAtRule(tc, id, "property")
		if n == nil {
			return
		}
		name, _ := globalName(n.Params)
		tc.Tree.Node(id).Params = tc.cssVarName(name, id)
	},
	TransformDeclaration: func(tc *TransformContext, id cssast.NodeID) {
		n := tc.Tree.Node(id)
		prop, value := n.Prop, n.Value
		if strings.HasPrefix(prop, "--") {
			prop = tc.cssVarName(prop, id)
		}
		if strings.Contains(value, "var(") {
			value = tc.replaceVarCalls(value, id)
		}
		n = tc.Tree.Node(id)
		n.Prop, n.Value = prop, value
	},
}

func addCSSVar(m *meta.Meta, name string, global bool, node cssast.NodeID) {
	if existing := m.Symbols.Lookup(name); existing != nil {
		if existing.Kind == symbols.KindCSSVar && global && existing.Alias == nil {
			existing.Global = true
		}
		return
	}
	m.AddSymbol(name, &symbols.Symbol{Kind: symbols.KindCSSVar, Global: global}, node, true)
}

// visitVarCalls calls fn with the custom property of every var() in v,
// including fallbacks.
func visitVarCalls(v string, fn func(name string)) {
	replaceCalls(v, "var", func(args string) (string, bool) {
		parts := splitArgs(args)
		if len(parts) > 0 && strings.HasPrefix(parts[0], "--") {
			fn(parts[0])
		}
		if len(parts) > 1 {
			visitVarCalls(strings.Join(parts[1:], ","), fn)
		}
		return "", false
	})
}

func (tc *TransformContext) replaceVarCalls(v string, node cssast.NodeID) string {
	return replaceCalls(v, "var", func(args string) (string, bool) {
		i := strings.IndexByte(args, ',')
		name, rest := args, ""
		if i >= 0 {
			name, rest = args[:i], args[i:]
		}
		trimmed := strings.TrimSpace(name)
		if !strings.HasPrefix(trimmed, "--") {
			return "", false
		}
		if strings.Contains(rest, "var(") {
			rest = tc.replaceVarCalls(rest, node)
		}
		return "var(" + strings.Replace(name, trimmed, tc.cssVarName(trimmed, node), 1) + rest + ")", true
	})
}

// cssVarName maps a custom property of tc.Meta to its output name.
func (tc *TransformContext) cssVarName(name string, node cssast.NodeID) string {
	m := tc.Meta
	sym := m.Symbols.Lookup(name)
	if sym == nil || sym.Kind != symbols.KindCSSVar {
		return CSSVarName(m.Namespace, name)
	}
	if sym.Alias != nil {
		origin := tc.Resolver.DeepResolve(m, sym)
		if origin == nil || origin.Symbol.Kind != symbols.KindCSSVar {
			tc.warn(diag.VarUnknownCustomProp, node, name, "cannot resolve imported custom property %q", name)
			return CSSVarName(m.Namespace, name)
		}
		m, sym = origin.Meta, origin.Symbol
	}
	if sym.Global {
		return sym.Name
	}
	return CSSVarName(m.Namespace, sym.Name)
}
