package features

import (
	"strings"

	"go.uber.org/zap"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/selector"
)

// STScope handles @st-scope <selector> { ... }: nested rules are prefixed
// with the scope selector and the at-rule is replaced by its content.
var STScope = &Feature{
	Name: "st-scope",
	AnalyzeAtRule: func(ctx *Context, id cssast.NodeID) {
		m := ctx.Meta
		n := atRule(m, id, "st-scope")
		if n == nil {
			return
		}
		m.Scopes = append(m.Scopes, id)
		for _, c := range m.AST.Children(id) {
			switch m.AST.Node(c).Kind {
			case cssast.KindDecl:
				m.Warn(diag.SelDeclInScope, c, "", "cannot use declarations directly inside @st-scope")
				m.Remove(c)
			}
		}
		params := strings.TrimSpace(n.Params)
		if params == "" {
			// без параметра блок просто разворачивается
			m.Error(diag.SelScopeMissingParam, id, "", "@st-scope must receive a simple selector or stylesheet \"root\" as its scoping parameter")
			return
		}
		if ctx.AnalyzeSelector != nil {
			ctx.AnalyzeSelector(selector.Parse(params), id, false)
		}
		m.AST.Walk(id, func(c cssast.NodeID) bool {
			if m.AST.Node(c).Kind == cssast.KindRule {
				m.Data.ScopedRules[c] = params
			}
			return true
		})
	},
	TransformInit: func(tc *TransformContext) {
		for _, id := range tc.Meta.Scopes {
			n := tc.Tree.Node(id)
			if n == nil || !tc.Tree.Attached(id) {
				continue
			}
			if strings.TrimSpace(n.Params) == "" {
				tc.Tree.ReplaceWith(id, tc.Tree.Children(id)...)
				continue
			}
			scope := selector.Parse(n.Params)
			tc.Tree.Walk(id, func(c cssast.NodeID) bool {
				cn := tc.Tree.Node(c)
				switch {
				case cn.Kind == cssast.KindRule:
					cn.Selector = selector.ScopeNested(scope, selector.Parse(cn.Selector), false).Selector
					return false
				case cn.Kind == cssast.KindAtRule && cn.Name == "st-scope":
					cn.Params = selector.ScopeNested(scope, selector.Parse(cn.Params), false).Selector
					return false
				case cn.Kind == cssast.KindAtRule && cn.Name == "keyframes":
					return false
				}
				return true
			})
			tc.debug("unwrap @st-scope", zap.String("scope", n.Params))
			tc.Tree.ReplaceWith(id, tc.Tree.Children(id)...)
		}
	},
}
