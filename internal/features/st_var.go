package features

import (
	"strings"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/meta"
	"stylc/internal/selector"
	"stylc/internal/symbols"
)

// STVar handles ":vars {}" blocks and value() references.
var STVar = &Feature{
	Name: "st-var",
	AnalyzeSelectorNode: func(ctx *Context, sn SelectorNode) selector.Action {
		if !selector.IsPseudoClass(sn.Node, "vars") {
			return selector.Continue
		}
		m := ctx.Meta
		rule := m.AST.Node(sn.Rule)
		if strings.TrimSpace(rule.Selector) != ":vars" {
			m.Error(diag.VarComplexVarsSelector, sn.Rule, "", "cannot define \":vars\" inside a complex selector")
			return selector.SkipNested
		}
		if !isTopLevel(m.AST, sn.Rule) {
			m.Warn(diag.VarNoVarsInScope, sn.Rule, "", "cannot define \":vars\" inside of nested scope")
		}
		for _, c := range m.AST.Children(sn.Rule) {
			d := m.AST.Node(c)
			if d.Kind != cssast.KindDecl {
				continue
			}
			m.AddSymbol(d.Prop, &symbols.Symbol{Kind: symbols.KindVar, Value: d.Value}, c, false)
		}
		m.Data.VarRules = append(m.Data.VarRules, sn.Rule)
		m.Remove(sn.Rule)
		return selector.SkipNested
	},
	TransformAtRule: func(tc *TransformContext, id cssast.NodeID) {
		n := outAtRule(tc, id, "media", "supports", "container")
		if n == nil || !strings.Contains(n.Params, "value(") {
			return
		}
		params := tc.substituteVars(tc.Meta, n.Params, id)
		tc.Tree.Node(id).Params = params
	},
	TransformDeclaration: func(tc *TransformContext, id cssast.NodeID) {
		n := tc.Tree.Node(id)
		if !strings.Contains(n.Value, "value(") {
			return
		}
		value := tc.substituteVars(tc.Meta, n.Value, id)
		tc.Tree.Node(id).Value = value
	},
}

// substituteVars replaces value(name) calls in v with the evaluated vars of m.
func (tc *TransformContext) substituteVars(m *meta.Meta, v string, node cssast.NodeID) string {
	return tc.substitute(m, v, node, nil)
}

func (tc *TransformContext) substitute(m *meta.Meta, v string, node cssast.NodeID, stack []string) string {
	return replaceCalls(v, "value", func(args string) (string, bool) {
		return tc.evalVar(m, strings.TrimSpace(args), node, stack)
	})
}

// evalVar evaluates var name of m. Unknown vars keep the value() call.
func (tc *TransformContext) evalVar(m *meta.Meta, name string, node cssast.NodeID, stack []string) (string, bool) {
	if m == tc.Meta {
		if v, ok := tc.VarOverrides[name]; ok {
			return v, true
		}
	}
	sym := m.Symbols.Lookup(name)
	if sym != nil && sym.ImportOf() != nil && tc.Resolver != nil {
		res := tc.Resolver.DeepResolve(m, sym)
		if res == nil || res.Symbol.Kind != symbols.KindVar {
			tc.warn(diag.VarUnknownVar, node, name, "unknown var %q", name)
			return "", false
		}
		return tc.evalVar(res.Meta, res.Symbol.Name, node, stack)
	}
	if sym == nil || sym.Kind != symbols.KindVar {
		tc.warn(diag.VarUnknownVar, node, name, "unknown var %q", name)
		return "", false
	}
	key := m.Source + "#" + name
	for _, s := range stack {
		if s == key {
			tc.error(diag.VarCyclicValue, node, name, "cyclic value definition: %s", strings.Join(append(stack, key), " -> "))
			return "", false
		}
	}
	return tc.substitute(m, sym.Value, node, append(stack[:len(stack):len(stack)], key)), true
}

// EvalVar evaluates a :vars entry of tc.Meta for exports.
func (tc *TransformContext) EvalVar(name string) string {
	v, _ := tc.evalVar(tc.Meta, name, tc.Meta.Symbols.Lookup(name).Node, nil)
	return v
}
