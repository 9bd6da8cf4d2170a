package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylc/internal/fsys"
	"stylc/internal/meta"
	"stylc/internal/namespace"
	"stylc/internal/processor"
	"stylc/internal/resolver"
	"stylc/internal/symbols"
)

func newResolver(files map[string]string) *resolver.Resolver {
	proc := processor.New(nil, processor.Options{Resolve: namespace.Plain})
	return resolver.New(resolver.Options{FS: fsys.NewMemory(files), Process: proc.Process})
}

func load(t *testing.T, r *resolver.Resolver, path string) *meta.Meta {
	t.Helper()
	m := r.Meta(path)
	require.NotNil(t, m, path)
	return m
}

func TestResolveNamedSymbol(t *testing.T) {
	r := newResolver(map[string]string{
		"/src/entry.st.css":  `:import { -st-from: "./button.st.css"; -st-named: btn; }`,
		"/src/button.st.css": `.btn {}`,
	})
	entry := load(t, r, "/src/entry.st.css")
	require.Len(t, entry.Imports, 1)

	res := r.ResolveImported(entry.Imports[0], "btn")
	require.NotNil(t, res)
	assert.Equal(t, resolver.OriginCSS, res.Kind)
	assert.Equal(t, "/src/button.st.css", res.Meta.Source)
	assert.Same(t, res.Meta.Class("btn"), res.Symbol)

	origin := r.DeepResolve(entry, entry.Symbols.Lookup("btn"))
	require.NotNil(t, origin)
	assert.Same(t, res.Symbol, origin.Symbol)
}

func TestResolveDefaultImportIsRoot(t *testing.T) {
	r := newResolver(map[string]string{
		"/entry.st.css":  `:import { -st-from: "./button.st.css"; -st-default: Button; }`,
		"/button.st.css": `.root {}`,
	})
	entry := load(t, r, "/entry.st.css")
	res := r.DeepResolve(entry, entry.Symbols.Lookup("Button"))
	require.NotNil(t, res)
	assert.True(t, res.Symbol.IsRoot)
}

func TestResolveUnresolvedReasons(t *testing.T) {
	r := newResolver(map[string]string{
		"/entry.st.css": `
:import { -st-from: "./missing.st.css"; -st-named: a; }
:import { -st-from: "./other.st.css"; -st-named: b; }
`,
		"/other.st.css": `.c {}`,
	})
	entry := load(t, r, "/entry.st.css")

	res := r.ResolveSymbolOrigin(entry, entry.Symbols.Lookup("a"))
	assert.Equal(t, resolver.OriginUnresolved, res.Kind)
	assert.Equal(t, resolver.ReasonMissingFile, res.Reason)

	res = r.ResolveSymbolOrigin(entry, entry.Symbols.Lookup("b"))
	assert.Equal(t, resolver.OriginUnresolved, res.Kind)
	assert.Equal(t, resolver.ReasonMissingSymbol, res.Reason)

	assert.Nil(t, r.DeepResolve(entry, entry.Symbols.Lookup("b")))
}

func TestResolveCycle(t *testing.T) {
	r := newResolver(map[string]string{
		"/a.st.css": `:import { -st-from: "./b.st.css"; -st-named: x; }`,
		"/b.st.css": `:import { -st-from: "./a.st.css"; -st-named: x; }`,
	})
	a := load(t, r, "/a.st.css")
	res := r.ResolveSymbolOrigin(a, a.Symbols.Lookup("x"))
	assert.Equal(t, resolver.OriginUnresolved, res.Kind)
	assert.Equal(t, resolver.ReasonCycle, res.Reason)
}

func TestResolveJSAndPackages(t *testing.T) {
	r := newResolver(map[string]string{
		"/src/entry.st.css": `
:import { -st-from: "./mixins.js"; -st-named: shadow; }
:import { -st-from: "theme/colors.st.css"; -st-named: primary; }
`,
		"/src/mixins.js":                    `module.exports = {}`,
		"/node_modules/theme/colors.st.css": `:vars { primary: red; }`,
	})
	entry := load(t, r, "/src/entry.st.css")

	res := r.ResolveSymbolOrigin(entry, entry.Symbols.Lookup("shadow"))
	assert.Equal(t, resolver.OriginJS, res.Kind)
	assert.Equal(t, "/src/mixins.js", res.Path)

	res = r.ResolveSymbolOrigin(entry, entry.Symbols.Lookup("primary"))
	require.Equal(t, resolver.OriginCSS, res.Kind)
	assert.Equal(t, "/node_modules/theme/colors.st.css", res.Meta.Source)
	assert.Equal(t, symbols.KindVar, res.Symbol.Kind)
	assert.Equal(t, "red", res.Symbol.Value)
}

func TestResolveExtendsChain(t *testing.T) {
	r := newResolver(map[string]string{
		"/entry.st.css": `
:import { -st-from: "./button.st.css"; -st-default: Button; }
.btn { -st-extends: Button; }
.loop-a { -st-extends: loop-b; }
.loop-b { -st-extends: loop-a; }
`,
		"/button.st.css": `
:import { -st-from: "./base.st.css"; -st-default: Base; }
.root { -st-extends: Base; }
`,
		"/base.st.css": `.root {}`,
	})
	entry := load(t, r, "/entry.st.css")

	chain, cycle := r.ResolveExtends(entry, "btn")
	require.False(t, cycle)
	require.Len(t, chain, 3)
	assert.Equal(t, "/entry.st.css", chain[0].Meta.Source)
	assert.Equal(t, "/button.st.css", chain[1].Meta.Source)
	assert.Equal(t, "/base.st.css", chain[2].Meta.Source)

	_, cycle = r.ResolveExtends(entry, "loop-a")
	assert.True(t, cycle)
}

func TestMetaIsCached(t *testing.T) {
	r := newResolver(map[string]string{"/a.st.css": `.a {}`})
	first := load(t, r, "/a.st.css")
	second := load(t, r, "/a.st.css")
	assert.Same(t, first, second)
	hits, misses := r.Cache().Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	r.Cache().Invalidate("/a.st.css")
	assert.NotSame(t, first, load(t, r, "/a.st.css"))
	assert.Nil(t, r.Meta("/nope.st.css"))
}
