// Package features holds the closed set of stylesheet extensions. Every
// feature is a Feature value with optional callbacks; the processor and the
// transformer call them in Registry order at fixed points of their walks.
package features

import (
	"go.uber.org/zap"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/meta"
	"stylc/internal/resolver"
	"stylc/internal/selector"
)

// Context is handed to analysis callbacks.
type Context struct {
	Meta *meta.Meta
	// AnalyzeSelector runs the processor's selector analysis on list as if it
	// were the selector of node. It returns whether the list is locally
	// scoped; report enables unscoped warnings.
	AnalyzeSelector func(list selector.List, node cssast.NodeID, report bool) bool
}

// SelectorNode is a selector node visited during analysis.
type SelectorNode struct {
	Node    *selector.Node
	Index   int
	Nodes   []*selector.Node
	Parents []*selector.Node
	// Rule is the rule whose selector is walked, or the at-rule that holds a
	// selector in its params.
	Rule cssast.NodeID
}

// TransformContext is handed to transform callbacks. Meta is the sheet the
// rewritten nodes belong to; Target receives diagnostics. They differ while
// a mixin from another sheet is transformed.
type TransformContext struct {
	Meta     *meta.Meta
	Target   *meta.Meta
	Resolver *resolver.Resolver
	Tree     *cssast.Tree
	Log      *zap.Logger
	// VarOverrides replace :vars of Meta while a mixin with arguments is applied.
	VarOverrides map[string]string
	// TransformFragment rewrites a detached mixin fragment in the context of
	// origin; its diagnostics go to report, a node of Target.
	TransformFragment func(origin *meta.Meta, fragment *cssast.Tree, overrides map[string]string, stack []string, report cssast.NodeID)
	// MixinStack holds "path#name" of the mixins being applied.
	MixinStack []string
	// ReportNode, when set, is the Target node every diagnostic is attached
	// to; node handles of a foreign fragment mean nothing to Target.
	ReportNode cssast.NodeID
}

// SelectorContext tracks the element the current compound selector targets.
type SelectorContext struct {
	Rule cssast.NodeID
	// Anchor is the extends chain of the last class or element, used to find
	// pseudo-states and custom pseudo-elements.
	Anchor []resolver.Link
}

// Feature is a set of optional callbacks.
type Feature struct {
	Name string

	MetaInit            func(m *meta.Meta)
	AnalyzeInit         func(ctx *Context)
	AnalyzeAtRule       func(ctx *Context, id cssast.NodeID)
	AnalyzeSelectorNode func(ctx *Context, sn SelectorNode) selector.Action
	AnalyzeDeclaration  func(ctx *Context, id cssast.NodeID)
	AnalyzeDone         func(ctx *Context)

	TransformInit         func(tc *TransformContext)
	TransformAtRule       func(tc *TransformContext, id cssast.NodeID)
	TransformDeclaration  func(tc *TransformContext, id cssast.NodeID)
	TransformSelectorNode func(tc *TransformContext, sc *SelectorContext, n *selector.Node) ([]*selector.Node, bool)
	TransformLastPass     func(tc *TransformContext)
}

// Registry lists every feature in dispatch order.
var Registry = []*Feature{
	STSymbol,
	STImport,
	STNamespace,
	STGlobal,
	STVar,
	CustomSelector,
	CSSClass,
	CSSType,
	CSSCustomProperty,
	CSSKeyframes,
	CSSLayer,
	CSSContainer,
	STScope,
	STMixin,
}

// STSymbol owns the symbol table itself; its work happens in meta.AddSymbol.
var STSymbol = &Feature{Name: "st-symbol"}

func atRule(m *meta.Meta, id cssast.NodeID, name string) *cssast.Node {
	n := m.AST.Node(id)
	if n == nil || n.Kind != cssast.KindAtRule || n.Name != name {
		return nil
	}
	return n
}

func outAtRule(tc *TransformContext, id cssast.NodeID, names ...string) *cssast.Node {
	n := tc.Tree.Node(id)
	if n == nil || n.Kind != cssast.KindAtRule {
		return nil
	}
	for _, name := range names {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// isTopLevel reports whether id is a direct child of the root.
func isTopLevel(t *cssast.Tree, id cssast.NodeID) bool {
	return t.Parent(id) == t.Root()
}

func (tc *TransformContext) warn(code diag.Code, node cssast.NodeID, word, format string, args ...any) {
	if tc.ReportNode != cssast.NoNode {
		node, word = tc.ReportNode, ""
	}
	tc.target().Warn(code, node, word, format, args...)
}

func (tc *TransformContext) error(code diag.Code, node cssast.NodeID, word, format string, args ...any) {
	if tc.ReportNode != cssast.NoNode {
		node, word = tc.ReportNode, ""
	}
	tc.target().Error(code, node, word, format, args...)
}

func (tc *TransformContext) debug(msg string, fields ...zap.Field) {
	if tc.Log == nil {
		return
	}
	tc.Log.Debug(msg, append(fields, zap.String("path", tc.Meta.Source))...)
}

// RootAnchor is the extends chain of the root class of Meta.
func (tc *TransformContext) RootAnchor() []resolver.Link {
	chain, _ := tc.Resolver.ResolveExtends(tc.Meta, meta.RootClass)
	return chain
}

func (tc *TransformContext) target() *meta.Meta {
	if tc.Target != nil {
		return tc.Target
	}
	return tc.Meta
}
