package features

import (
	"slices"
	"strings"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/symbols"
)

var reservedLayers = []string{"initial", "inherit", "unset", "revert", "revert-layer", "default"}

// CSSLayer namespaces @layer names; dotted names are handled per part.
var CSSLayer = &Feature{
	Name: "css-layer",
	AnalyzeAtRule: func(ctx *Context, id cssast.NodeID) {
		m := ctx.Meta
		n := atRule(m, id, "layer")
		if n == nil {
			return
		}
		names := splitArgs(n.Params)
		if n.HasBlock && len(names) > 1 {
			m.Error(diag.AtrLayerBlockMultiple, id, "", "@layer block with multiple names %q", n.Params)
			return
		}
		for _, item := range names {
			name, global := globalName(item)
			for _, part := range strings.Split(name, ".") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if slices.Contains(reservedLayers, strings.ToLower(part)) {
					m.Error(diag.AtrLayerReservedName, id, part, "reserved @layer name %q", part)
					continue
				}
				addTyped(m, symbols.KindLayer, part, global, id)
			}
		}
	},
	TransformAtRule: func(tc *TransformContext, id cssast.NodeID) {
		n := outAtRule(tc, id, "layer")
		if n == nil || strings.TrimSpace(n.Params) == "" {
			return
		}
		names := splitArgs(n.Params)
		for i, item := range names {
			name, global := globalName(item)
			parts := strings.Split(name, ".")
			for j, part := range parts {
				part = strings.TrimSpace(part)
				if !global {
					part = tc.typedName(symbols.KindLayer, part, id)
				}
				parts[j] = part
			}
			names[i] = strings.Join(parts, ".")
		}
		tc.Tree.Node(id).Params = strings.Join(names, ", ")
	},
}
