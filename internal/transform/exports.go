package transform

import (
	"strings"

	"stylc/internal/features"
	"stylc/internal/selector"
	"stylc/internal/symbols"
)

// Exports maps local names of a stylesheet to their output names. Imported
// names are not exported.
type Exports struct {
	Classes    map[string]string `json:"classes" msgpack:"classes"`
	Keyframes  map[string]string `json:"keyframes" msgpack:"keyframes"`
	Vars       map[string]string `json:"vars" msgpack:"vars"`
	StVars     map[string]string `json:"stVars" msgpack:"stVars"`
	Layers     map[string]string `json:"layers" msgpack:"layers"`
	Containers map[string]string `json:"containers" msgpack:"containers"`
}

func exportsOf(tc *features.TransformContext) Exports {
	m := tc.Meta
	ns := m.Namespace
	ex := Exports{
		Classes:    make(map[string]string),
		Keyframes:  make(map[string]string),
		Vars:       make(map[string]string),
		StVars:     make(map[string]string),
		Layers:     make(map[string]string),
		Containers: make(map[string]string),
	}
	local := func(kind symbols.Kind, fn func(name string, sym *symbols.Symbol)) {
		names, syms := m.Symbols.AllByKind(kind)
		for _, name := range names {
			if sym := syms[name]; sym.Alias == nil {
				fn(name, sym)
			}
		}
	}
	typed := func(dst map[string]string) func(string, *symbols.Symbol) {
		return func(name string, sym *symbols.Symbol) {
			if sym.Global {
				dst[name] = name
				return
			}
			dst[name] = features.ClassName(ns, name)
		}
	}

	local(symbols.KindClass, func(name string, sym *symbols.Symbol) {
		if sym.GlobalSelector != "" {
			ex.Classes[name] = globalClasses(sym.GlobalSelector)
			return
		}
		ex.Classes[name] = features.ClassName(ns, name)
	})
	local(symbols.KindKeyframes, typed(ex.Keyframes))
	local(symbols.KindLayer, typed(ex.Layers))
	local(symbols.KindContainer, typed(ex.Containers))
	local(symbols.KindCSSVar, func(name string, sym *symbols.Symbol) {
		if sym.Global {
			ex.Vars[name] = name
			return
		}
		ex.Vars[name] = features.CSSVarName(ns, name)
	})
	local(symbols.KindVar, func(name string, _ *symbols.Symbol) {
		ex.StVars[name] = tc.EvalVar(name)
	})
	return ex
}

// globalClasses returns the class names used by a -st-global selector.
func globalClasses(sel string) string {
	var names []string
	selector.WalkParts(selector.Parse(sel), func(n *selector.Node, _ int, _, _ []*selector.Node) selector.Action {
		if n.Kind == selector.KindClass {
			names = append(names, n.Value)
		}
		return selector.Continue
	})
	return strings.Join(names, " ")
}
