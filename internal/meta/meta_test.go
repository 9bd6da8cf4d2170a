package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/source"
	"stylc/internal/symbols"
)

func parsed(t *testing.T, path, css string) *Meta {
	t.Helper()
	files := source.NewFileSet()
	id := files.AddSource(path, css)
	m := New(files, id, path, nil)
	m.AST = cssast.Parse(id, files.Get(id).Content, cssast.Options{Reporter: m})
	require.Empty(t, m.Diagnostics.Items())
	return m
}

func TestNewSeedsRoot(t *testing.T) {
	m := parsed(t, "/src/a.st.css", "")
	require.NotNil(t, m.Root())
	assert.True(t, m.Root().IsRoot)
	assert.Same(t, m.Root(), m.Class(RootClass))
	assert.Nil(t, m.Element(RootClass))
}

func TestAddSymbolRedeclare(t *testing.T) {
	m := parsed(t, "/src/a.st.css", ".a {} .a {}")
	rules := m.AST.Children(m.AST.Root())
	require.Len(t, rules, 2)

	m.AddSymbol("a", &symbols.Symbol{Kind: symbols.KindClass}, rules[0], false)
	second := m.AddSymbol("a", &symbols.Symbol{Kind: symbols.KindClass}, rules[1], false)

	got := m.Diagnostics.ByCode(diag.SymRedeclare)
	require.Len(t, got, 1)
	assert.Equal(t, diag.SevWarning, got[0].Severity)
	assert.Equal(t, uint32(rules[1]), got[0].Node)
	assert.Equal(t, "a", got[0].Word)
	assert.Equal(t, "a", m.Files.Text(got[0].Primary))
	assert.Same(t, second, m.Class("a"))
	assert.Equal(t, "a", second.Name)

	// safe и NoNode не считаются повторным объявлением
	m.AddSymbol("a", &symbols.Symbol{Kind: symbols.KindClass}, rules[1], true)
	m.AddSymbol("a", &symbols.Symbol{Kind: symbols.KindClass}, cssast.NoNode, false)
	assert.Len(t, m.Diagnostics.ByCode(diag.SymRedeclare), 1)
}

func TestAddSymbolSeparateBuckets(t *testing.T) {
	m := parsed(t, "/src/a.st.css", ".a {}")
	node := m.AST.Children(m.AST.Root())[0]
	m.AddSymbol("a", &symbols.Symbol{Kind: symbols.KindClass}, node, false)
	m.AddSymbol("a", &symbols.Symbol{Kind: symbols.KindKeyframes}, node, false)
	assert.Empty(t, m.Diagnostics.ByCode(diag.SymRedeclare))
	assert.NotNil(t, m.Symbols.Get(symbols.NSKeyframes, "a"))
}

func TestSelectorIsCached(t *testing.T) {
	m := parsed(t, "/src/a.st.css", ".a .b {}")
	rule := m.AST.Children(m.AST.Root())[0]
	first := m.Selector(rule)
	require.Len(t, first, 1)
	assert.Same(t, first[0], m.Selector(rule)[0])
	assert.Nil(t, m.Selector(m.AST.Root()))
}

func TestDir(t *testing.T) {
	assert.Equal(t, "/src", parsed(t, "/src/a.st.css", "").Dir())
	assert.Equal(t, "/", parsed(t, "/a.st.css", "").Dir())
}
