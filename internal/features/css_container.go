package features

import (
	"slices"
	"strings"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/symbols"
)

var invalidContainerNames = []string{"and", "not", "or", "normal", "default"}

// CSSContainer namespaces container names declared by container-name /
// container and referenced by @container.
var CSSContainer = &Feature{
	Name: "css-container",
	AnalyzeDeclaration: func(ctx *Context, id cssast.NodeID) {
		m := ctx.Meta
		d := m.AST.Node(id)
		names, ok := containerNames(d.Prop, d.Value)
		if !ok {
			return
		}
		for _, item := range names {
			name, global := globalName(item)
			if strings.EqualFold(name, "none") {
				continue
			}
			if slices.Contains(invalidContainerNames, strings.ToLower(name)) {
				m.Error(diag.AtrContainerInvalidName, id, name, "invalid container name %q", name)
				continue
			}
			addTyped(m, symbols.KindContainer, name, global, id)
		}
	},
	TransformDeclaration: func(tc *TransformContext, id cssast.NodeID) {
		n := tc.Tree.Node(id)
		names, ok := containerNames(n.Prop, n.Value)
		if !ok {
			return
		}
		rest := ""
		if i := strings.IndexByte(n.Value, '/'); i >= 0 {
			rest = " " + strings.TrimSpace(n.Value[i:])
		}
		out := make([]string, 0, len(names))
		for _, item := range names {
			name, global := globalName(item)
			if !global && !strings.EqualFold(name, "none") {
				name = tc.typedName(symbols.KindContainer, name, id)
			}
			out = append(out, name)
		}
		tc.Tree.Node(id).Value = strings.Join(out, " ") + rest
	},
	TransformAtRule: func(tc *TransformContext, id cssast.NodeID) {
		n := outAtRule(tc, id, "container")
		if n == nil {
			return
		}
		params := strings.TrimSpace(n.Params)
		fields := strings.Fields(params)
		if len(fields) == 0 || strings.ContainsAny(fields[0], "(") {
			return
		}
		switch strings.ToLower(fields[0]) {
		case "not", "and", "or":
			return
		}
		name, global := globalName(fields[0])
		if !global {
			if tc.Meta.Symbols.Get(symbols.NSContainer, name) == nil {
				tc.warn(diag.AtrUnknownContainer, id, name, "unknown container %q", name)
			}
			name = tc.typedName(symbols.KindContainer, name, id)
		}
		tc.Tree.Node(id).Params = name + strings.TrimPrefix(params, fields[0])
	},
}

// containerNames returns the names set by a container-name or container
// declaration.
func containerNames(prop, value string) ([]string, bool) {
	switch strings.ToLower(prop) {
	case "container-name":
	case "container":
		if i := strings.IndexByte(value, '/'); i >= 0 {
			value = value[:i]
		}
	default:
		return nil, false
	}
	return strings.Fields(value), true
}
