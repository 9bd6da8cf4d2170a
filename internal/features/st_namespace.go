package features

import (
	"regexp"
	"strings"

	"stylc/internal/cssast"
	"stylc/internal/diag"
)

var quotedNamespace = regexp.MustCompile(`["'](.*?)['"]`)

// STNamespace collects @namespace / @st-namespace declarations. The final
// namespace is computed by package namespace once analysis is done.
var STNamespace = &Feature{
	Name: "st-namespace",
	AnalyzeAtRule: func(ctx *Context, id cssast.NodeID) {
		m := ctx.Meta
		n := m.AST.Node(id)
		if n.Kind != cssast.KindAtRule || (n.Name != "namespace" && n.Name != "st-namespace") {
			return
		}
		m.Remove(id)
		match := quotedNamespace.FindStringSubmatch(n.Params)
		switch {
		case match == nil:
			m.Error(diag.NspInvalidDef, id, "", "invalid @namespace")
		case strings.TrimSpace(match[1]) == "":
			m.Error(diag.NspEmptyDef, id, "", "@namespace must contain at least one character or digit")
		default:
			m.Data.Namespaces = append(m.Data.Namespaces, match[1])
		}
	},
}
