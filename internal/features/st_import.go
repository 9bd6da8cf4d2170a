package features

import (
	"strings"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/meta"
	"stylc/internal/selector"
	"stylc/internal/symbols"
)

// STImport handles ":import {}" blocks and "@st-import" at-rules.
var STImport = &Feature{
	Name: "st-import",
	AnalyzeInit: func(ctx *Context) {
		m := ctx.Meta
		for _, id := range m.AST.Children(m.AST.Root()) {
			n := m.AST.Node(id)
			var imp *symbols.Imported
			switch {
			case n.Kind == cssast.KindAtRule && n.Name == "st-import":
				imp = parseStImport(m, id)
			case n.Kind == cssast.KindRule && strings.TrimSpace(n.Selector) == ":import":
				imp = parsePseudoImport(m, id)
			default:
				continue
			}
			m.Data.ImportNodes = append(m.Data.ImportNodes, id)
			addImport(m, imp)
		}
	},
	AnalyzeAtRule: func(ctx *Context, id cssast.NodeID) {
		m := ctx.Meta
		if atRule(m, id, "st-import") == nil {
			return
		}
		if !isTopLevel(m.AST, id) {
			m.Error(diag.ImpNestedScope, id, "", "cannot use \"@st-import\" inside of nested scope")
		}
		m.Remove(id)
	},
	AnalyzeSelectorNode: func(ctx *Context, sn SelectorNode) selector.Action {
		if !selector.IsPseudoClass(sn.Node, "import") {
			return selector.Continue
		}
		m := ctx.Meta
		rule := m.AST.Node(sn.Rule)
		if strings.TrimSpace(rule.Selector) != ":import" {
			m.Error(diag.SelDefInComplex, sn.Rule, "", "cannot define \":import\" inside a complex selector")
			return selector.SkipNested
		}
		if !isTopLevel(m.AST, sn.Rule) {
			m.Error(diag.ImpPseudoNestedScope, sn.Rule, "", "cannot use \":import\" inside of nested scope")
		}
		m.Remove(sn.Rule)
		return selector.SkipNested
	},
	TransformInit: func(tc *TransformContext) {
		if tc.Resolver == nil || tc.Target != nil && tc.Target != tc.Meta {
			return
		}
		for _, imp := range tc.Meta.Imports {
			validateImport(tc, imp)
		}
	},
}

// addImport registers imp, merging it into an earlier import of the same
// request. Conflicting bindings keep the first one.
func addImport(m *meta.Meta, imp *symbols.Imported) {
	checkCustomPropertyAliases(m, imp)
	var prev *symbols.Imported
	for _, it := range m.Imports {
		if it.Request == imp.Request && imp.Request != "" {
			prev = it
			break
		}
	}
	if prev == nil {
		m.Imports = append(m.Imports, imp)
		addImportSymbols(m, imp, imp)
		return
	}
	added := &symbols.Imported{Node: imp.Node}
	if imp.DefaultExport != "" {
		switch prev.DefaultExport {
		case "":
			prev.DefaultExport = imp.DefaultExport
			added.DefaultExport = imp.DefaultExport
		case imp.DefaultExport:
		default:
			m.Error(diag.ImpAttemptOverride, imp.Node, "",
				"Attempt to override existing default import symbol. %s -> %s", prev.DefaultExport, imp.DefaultExport)
		}
	}
	merge := func(kind string, dst, src, out *symbols.Bindings) {
		for _, b := range *src {
			cur, conflict := dst.Set(b.Local, b.Origin)
			if conflict {
				m.Error(diag.ImpAttemptOverride, imp.Node, "",
					"Attempt to override existing %s import symbol. %s -> %s", kind, asText(cur, b.Local), asText(b.Origin, b.Local))
				continue
			}
			if cur == "" {
				*out = append(*out, b)
			}
		}
	}
	merge("named", &prev.Named, &imp.Named, &added.Named)
	merge("keyframes", &prev.Keyframes, &imp.Keyframes, &added.Keyframes)
	merge("layer", &prev.Layers, &imp.Layers, &added.Layers)
	merge("container", &prev.Containers, &imp.Containers, &added.Containers)
	addImportSymbols(m, prev, added)
}

func asText(origin, local string) string {
	if origin == local {
		return origin
	}
	return origin + " as " + local
}

// addImportSymbols binds the names listed in bindings to imp.
func addImportSymbols(m *meta.Meta, imp, bindings *symbols.Imported) {
	if bindings.DefaultExport != "" {
		m.AddSymbol(bindings.DefaultExport, symbols.NewImport(imp, symbols.ImportDefault, meta.RootClass), bindings.Node, false)
	}
	for _, b := range bindings.Named {
		sym := symbols.NewImport(imp, symbols.ImportNamed, b.Origin)
		if strings.HasPrefix(b.Origin, "--") && strings.HasPrefix(b.Local, "--") {
			sym = &symbols.Symbol{Kind: symbols.KindCSSVar, Alias: sym}
		}
		m.AddSymbol(b.Local, sym, bindings.Node, false)
	}
	typed := []struct {
		kind symbols.Kind
		list symbols.Bindings
	}{
		{symbols.KindKeyframes, bindings.Keyframes},
		{symbols.KindLayer, bindings.Layers},
		{symbols.KindContainer, bindings.Containers},
	}
	for _, group := range typed {
		for _, b := range group.list {
			alias := symbols.NewImport(imp, symbols.ImportNamed, b.Origin)
			m.AddSymbol(b.Local, &symbols.Symbol{Kind: group.kind, Alias: alias}, bindings.Node, false)
		}
	}
}

func checkCustomPropertyAliases(m *meta.Meta, imp *symbols.Imported) {
	for _, b := range imp.Named {
		if strings.HasPrefix(b.Origin, "--") && !strings.HasPrefix(b.Local, "--") {
			m.Error(diag.ImpCustomPropertyAsValue, imp.Node, "",
				"invalid alias for custom property %q as %q; custom properties must be prefixed with \"--\" (double-dash)", b.Origin, b.Local)
		}
	}
}

// importDecl finds a declaration of an :import rule, falling back to the rule.
func importDecl(m *meta.Meta, imp *symbols.Imported, prop string) cssast.NodeID {
	for _, c := range m.AST.Children(imp.Node) {
		if d := m.AST.Node(c); d.Kind == cssast.KindDecl && d.Prop == prop {
			return c
		}
	}
	return imp.Node
}

func validateImport(tc *TransformContext, imp *symbols.Imported) {
	m := tc.Meta
	res := tc.Resolver.ResolveImported(imp, "")
	if res == nil {
		m.Error(diag.ImpUnknownFile, importDecl(m, imp, "-st-from"), imp.Request,
			"cannot resolve imported file: %q", imp.Request)
		return
	}
	if res.Meta == nil {
		return
	}
	for _, b := range imp.Named {
		if tc.Resolver.ResolveImported(imp, b.Origin) == nil {
			m.Error(diag.ImpUnknownSymbol, importDecl(m, imp, "-st-named"), b.Origin,
				"cannot resolve imported symbol %q from stylesheet %q", b.Origin, imp.Request)
		}
	}
	typed := []struct {
		code  diag.Code
		kind  symbols.Kind
		label string
	}{
		{diag.AtrUnknownKeyframes, symbols.KindKeyframes, "keyframes"},
		{diag.AtrUnknownLayer, symbols.KindLayer, "layer"},
		{diag.AtrUnknownContainer, symbols.KindContainer, "container"},
	}
	for _, group := range typed {
		for _, b := range *imp.Typed(group.kind) {
			if tc.Resolver.ResolveImportedIn(imp, b.Origin, group.kind.Namespace()) == nil {
				m.Warn(group.code, importDecl(m, imp, "-st-named"), b.Origin,
					"cannot resolve imported %s %q from stylesheet %q", group.label, b.Origin, imp.Request)
			}
		}
	}
}
