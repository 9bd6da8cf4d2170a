package features

import (
	"stylc/internal/diag"
	"stylc/internal/selector"
)

// STGlobal handles :global(...) escapes. Their content is neither analysed
// nor namespaced.
var STGlobal = &Feature{
	Name: "st-global",
	AnalyzeSelectorNode: func(ctx *Context, sn SelectorNode) selector.Action {
		if !selector.IsPseudoClass(sn.Node, "global") {
			return selector.Continue
		}
		if sn.Node.HasSelectorArgs() && len(sn.Node.Nodes) > 1 {
			ctx.Meta.Error(diag.SelGlobalMultiSelector, sn.Rule, selector.StringifyNode(sn.Node),
				"unsupported multi selector in :global()")
		}
		return selector.SkipNested
	},
	TransformSelectorNode: func(tc *TransformContext, sc *SelectorContext, n *selector.Node) ([]*selector.Node, bool) {
		if !selector.IsPseudoClass(n, "global") || !n.HasSelectorArgs() {
			return nil, false
		}
		sc.Anchor = nil
		if len(n.Nodes) == 0 {
			return nil, true
		}
		return selector.CloneNodes(n.Nodes[0].Nodes), true
	},
}
