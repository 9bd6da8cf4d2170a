// Package meta holds the per-stylesheet compilation unit shared by the
// analysis and transform passes.
package meta

import (
	"strings"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/selector"
	"stylc/internal/source"
	"stylc/internal/symbols"
)

// RootClass is the implicit class every stylesheet exports.
const RootClass = "root"

// Meta is one processed stylesheet. It is filled by the analysis pass and
// receives OutputAST once when transformed; afterwards it is read only.
type Meta struct {
	Source      string
	File        source.FileID
	Files       *source.FileSet
	Namespace   string
	AST         *cssast.Tree
	OutputAST   *cssast.Tree
	Symbols     *symbols.Table
	Imports     []*symbols.Imported
	Diagnostics *diag.Bag
	URLs        []string
	Scopes      []cssast.NodeID
	Data        Data

	selectors map[cssast.NodeID]selector.List
}

// New creates the Meta for tree and seeds the root class symbol.
func New(files *source.FileSet, file source.FileID, path string, tree *cssast.Tree) *Meta {
	m := &Meta{
		Source:      path,
		File:        file,
		Files:       files,
		AST:         tree,
		Symbols:     symbols.NewTable(),
		Diagnostics: diag.NewBag(0),
		selectors:   make(map[cssast.NodeID]selector.List),
	}
	m.Data.init()
	m.Symbols.Add(RootClass, &symbols.Symbol{Kind: symbols.KindClass, Name: RootClass, IsRoot: true})
	return m
}

// Root returns the root class symbol.
func (m *Meta) Root() *symbols.Symbol {
	return m.Symbols.Lookup(RootClass)
}

// AddSymbol binds name. Replacing an existing symbol reports a redeclaration
// unless safe is set or node is NoNode.
func (m *Meta) AddSymbol(name string, sym *symbols.Symbol, node cssast.NodeID, safe bool) *symbols.Symbol {
	if sym.Name == "" {
		sym.Name = name
	}
	if sym.Node == cssast.NoNode {
		sym.Node = node
	}
	prev := m.Symbols.Add(name, sym)
	if prev != nil && node != cssast.NoNode && !safe {
		m.Warn(diag.SymRedeclare, node, name, "redeclare symbol %q", name)
	}
	return sym
}

// Class returns the class symbol for name, or nil.
func (m *Meta) Class(name string) *symbols.Symbol {
	if s := m.Symbols.Lookup(name); s != nil && s.Kind == symbols.KindClass {
		return s
	}
	return nil
}

// Element returns the element symbol for name, or nil.
func (m *Meta) Element(name string) *symbols.Symbol {
	if s := m.Symbols.Lookup(name); s != nil && s.Kind == symbols.KindElement {
		return s
	}
	return nil
}

// Selector parses the selector of a rule node once and caches the result.
// Callers that mutate the list must clone it first.
func (m *Meta) Selector(id cssast.NodeID) selector.List {
	if l, ok := m.selectors[id]; ok {
		return l
	}
	n := m.AST.Node(id)
	if n == nil || n.Kind != cssast.KindRule {
		return nil
	}
	l := selector.Parse(n.Selector)
	m.selectors[id] = l
	return l
}

// Dir is the directory of Source using forward slashes.
func (m *Meta) Dir() string {
	i := strings.LastIndexByte(m.Source, '/')
	if i < 0 {
		return "."
	}
	if i == 0 {
		return "/"
	}
	return m.Source[:i]
}
