package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"stylc/internal/diag"
	"stylc/internal/fsys"
	"stylc/internal/namespace"
	"stylc/internal/processor"
	"stylc/internal/resolver"
)

const entry = "/entry.st.css"

// build transforms entry with the other files importable next to it.
func build(t *testing.T, css string, others map[string]string) *Result {
	t.Helper()
	files := map[string]string{entry: css}
	for p, c := range others {
		files[p] = c
	}
	proc := processor.New(nil, processor.Options{Resolve: namespace.Plain})
	res := resolver.New(resolver.Options{FS: fsys.NewMemory(files), Process: proc.Process})
	m := res.Meta(entry)
	require.NotNil(t, m)
	return Transform(m, Options{Resolver: res})
}

func codes(r *Result) []diag.Code {
	var out []diag.Code
	for _, d := range r.Meta.Diagnostics.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestTransformClasses(t *testing.T) {
	r := build(t, `.root {} .btn:hover, .a > .b { color: red; }`, nil)
	assert.Equal(t, ".entry__root {}\n.entry__btn:hover, .entry__a > .entry__b {\n    color: red;\n}\n", r.CSS)
	assert.Equal(t, map[string]string{
		"root": "entry__root",
		"btn":  "entry__btn",
		"a":    "entry__a",
		"b":    "entry__b",
	}, r.Exports.Classes)
	assert.Empty(t, codes(r))
}

func TestTransformStates(t *testing.T) {
	r := build(t, `
.btn { -st-states: on, size(enum(small, big)), mapped(".x"); }
.btn:on:size(small):mapped {}
.btn:size(huge) {}
.btn:unknown {}
`, nil)
	assert.Equal(t, `.entry__btn {}
.entry__btn.entry--on.entry---size-5-small.x {}
.entry__btn.entry---size-4-huge {}
.entry__btn:unknown {}
`, r.CSS)
	got := codes(r)
	assert.Contains(t, got, diag.SelInvalidStateDef)
	assert.Contains(t, got, diag.SelUnknownPseudoClass)
}

func TestTransformImportedElements(t *testing.T) {
	r := build(t, `
:import { -st-from: "./button.st.css"; -st-default: Button; }
.btn { -st-extends: Button; }
.root .btn:disabled::label {}
.root Button {}
`, map[string]string{
		"/button.st.css": `.root { -st-states: disabled; } .label {}`,
	})
	assert.Equal(t, `.entry__btn {}
.entry__root .entry__btn.button--disabled .button__label {}
.entry__root .button__root {}
`, r.CSS)
	assert.NotContains(t, r.Exports.Classes, "Button")
	assert.Empty(t, codes(r))
}

func TestTransformVars(t *testing.T) {
	r := build(t, `
:import { -st-from: "./colors.st.css"; -st-named: accent; }
:vars { size: 2px; }
.a { color: value(accent); border: value(size) solid value(missing); }
@media (min-width: value(size)) {}
`, map[string]string{
		"/colors.st.css": `:vars { main: red; accent: value(main); }`,
	})
	assert.Equal(t, `.entry__a {
    color: red;
    border: 2px solid value(missing);
}
@media (min-width: 2px) {}
`, r.CSS)
	assert.Equal(t, map[string]string{"size": "2px"}, r.Exports.StVars)
	assert.Contains(t, codes(r), diag.VarUnknownVar)
}

func TestTransformCyclicVars(t *testing.T) {
	r := build(t, `:vars { a: value(b); b: value(a); } .x { top: value(a); }`, nil)
	assert.Contains(t, codes(r), diag.VarCyclicValue)
}

func TestTransformCustomProperties(t *testing.T) {
	r := build(t, `
@property st-global(--brand);
.a { --gap: 1px; margin: var(--gap, var(--brand)); }
`, nil)
	assert.Equal(t, `@property --brand;
.entry__a {
    --entry-gap: 1px;
    margin: var(--entry-gap, var(--brand));
}
`, r.CSS)
	assert.Equal(t, map[string]string{"--gap": "--entry-gap", "--brand": "--brand"}, r.Exports.Vars)
}

func TestTransformImportedCustomProperty(t *testing.T) {
	r := build(t, `
@st-import [--color] from "./theme.st.css";
.a { color: var(--color); }
`, map[string]string{
		"/theme.st.css": `.root { --color: red; }`,
	})
	assert.Equal(t, ".entry__a {\n    color: var(--theme-color);\n}\n", r.CSS)
	assert.NotContains(t, r.Exports.Vars, "--color")
}

func TestTransformAtRuleNames(t *testing.T) {
	r := build(t, `
@keyframes fade { from { opacity: 0; } }
@keyframes st-global(spin) {}
@layer base, theme;
.a { animation: fade 1s; container: card / inline-size; }
@container card (min-width: 10px) { .a {} }
`, nil)
	assert.Equal(t, `@keyframes entry__fade {
    from {
        opacity: 0;
    }
}
@keyframes spin {}
@layer entry__base, entry__theme;
.entry__a {
    animation: entry__fade 1s;
    container: entry__card / inline-size;
}
@container entry__card (min-width: 10px) {
    .entry__a {}
}
`, r.CSS)
	assert.Equal(t, map[string]string{"fade": "entry__fade", "spin": "spin"}, r.Exports.Keyframes)
	assert.Equal(t, map[string]string{"card": "entry__card"}, r.Exports.Containers)
	assert.Equal(t, map[string]string{"base": "entry__base", "theme": "entry__theme"}, r.Exports.Layers)
}

func TestTransformImportedKeyframes(t *testing.T) {
	r := build(t, `
@st-import [keyframes(slide as move)] from "./anim.st.css";
.a { animation-name: move; }
`, map[string]string{
		"/anim.st.css": `@keyframes slide {}`,
	})
	assert.Equal(t, ".entry__a {\n    animation-name: anim__slide;\n}\n", r.CSS)
	assert.Empty(t, r.Exports.Keyframes)
}

func TestTransformGlobals(t *testing.T) {
	r := build(t, `
.a :global(.b) {}
.c { -st-global: ".x.y"; }
.c:hover {}
`, nil)
	assert.Equal(t, ".entry__a .b {}\n.x.y {}\n.x.y:hover {}\n", r.CSS)
	assert.Equal(t, "x y", r.Exports.Classes["c"])
}

func TestTransformCustomSelectors(t *testing.T) {
	r := build(t, `
@custom-selector :--heading .h1, .h2;
:--heading .a {}
:--nope {}
`, nil)
	assert.Equal(t, ".entry__h1 .entry__a, .entry__h2 .entry__a {}\n:--nope {}\n", r.CSS)
	assert.Contains(t, codes(r), diag.SelUnknownCustomSelector)
}

func TestTransformScope(t *testing.T) {
	r := build(t, `
@st-scope .root {
    .a {}
    @media (x) { .b {} }
}
`, nil)
	assert.Equal(t, ".entry__root .entry__a {}\n@media (x) {\n    .entry__root .entry__b {}\n}\n", r.CSS)
}

func TestTransformScopeWithoutParams(t *testing.T) {
	r := build(t, `@st-scope { .a { color: red; } }`, nil)
	assert.Equal(t, ".entry__a {\n    color: red;\n}\n", r.CSS)
	assert.Contains(t, codes(r), diag.SelScopeMissingParam)
}

func TestTransformLocalMixin(t *testing.T) {
	r := build(t, `
.mix { color: red; }
.mix:hover { color: blue; }
.a { -st-mixin: mix; top: 0; }
`, nil)
	assert.Equal(t, `.entry__mix {
    color: red;
}
.entry__mix:hover {
    color: blue;
}
.entry__a {
    color: red;
    top: 0;
}
.entry__a:hover {
    color: blue;
}
`, r.CSS)
}

func TestTransformMixinOrder(t *testing.T) {
	r := build(t, `
.mix { color: red; margin: 0; padding: 1px; }
.mix .x { top: 0; }
.mix:hover .y { left: 0; }
.t { border: 0; -st-mixin: mix; outline: none; }
.after {}
`, nil)
	assert.Equal(t, `.entry__mix {
    color: red;
    margin: 0;
    padding: 1px;
}
.entry__mix .entry__x {
    top: 0;
}
.entry__mix:hover .entry__y {
    left: 0;
}
.entry__t {
    border: 0;
    color: red;
    margin: 0;
    padding: 1px;
    outline: none;
}
.entry__t .entry__x {
    top: 0;
}
.entry__t:hover .entry__y {
    left: 0;
}
.entry__after {}
`, r.CSS)
	assert.Empty(t, codes(r))
}

func TestTransformLogsMixins(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	files := map[string]string{entry: `.mix { color: red; } @st-scope .root { .a { -st-mixin: mix; } }`}
	proc := processor.New(nil, processor.Options{Resolve: namespace.Plain})
	res := resolver.New(resolver.Options{FS: fsys.NewMemory(files), Process: proc.Process})
	m := res.Meta(entry)
	require.NotNil(t, m)
	Transform(m, Options{Resolver: res, Logger: zap.New(core)})

	applied := logs.FilterMessage("apply mixin").All()
	require.Len(t, applied, 1)
	assert.Equal(t, "mix", applied[0].ContextMap()["mixin"])
	assert.Equal(t, entry, applied[0].ContextMap()["path"])
	assert.Equal(t, 1, logs.FilterMessage("unwrap @st-scope").Len())
}

func TestTransformImportedMixinWithOverrides(t *testing.T) {
	r := build(t, `
:import { -st-from: "./mix.st.css"; -st-named: box; }
.a { -st-mixin: box(c blue); }
`, map[string]string{
		"/mix.st.css": `:vars { c: red; } .box { color: value(c); } .box .inner { top: 0; }`,
	})
	assert.Equal(t, ".entry__a {\n    color: blue;\n}\n.entry__a .mix__inner {\n    top: 0;\n}\n", r.CSS)
	assert.Empty(t, codes(r))
}

func TestTransformPartialMixin(t *testing.T) {
	r := build(t, `
:vars { c: red; }
.mix { color: value(c); top: 0; }
.a { -st-partial-mixin: mix(c blue); }
`, nil)
	assert.Contains(t, r.CSS, ".entry__a {\n    color: blue;\n}\n")
}

func TestTransformMixinDiagnostics(t *testing.T) {
	r := build(t, `.a { -st-mixin: b; } .b { -st-mixin: a; }`, nil)
	assert.Contains(t, codes(r), diag.MixCircular)

	r = build(t, `.a { -st-mixin: nope; }`, nil)
	assert.Contains(t, codes(r), diag.MixUnknown)

	r = build(t, `:vars { v: 1; } .a { -st-mixin: v; }`, nil)
	assert.Contains(t, codes(r), diag.MixInvalidKind)

	r = build(t, `.mix { color: red; } .mix:hover {} @keyframes k { from { -st-mixin: mix; } }`, nil)
	assert.Contains(t, codes(r), diag.MixInvalidMerge)
	assert.Contains(t, r.CSS, "    from {\n        color: red;\n    }\n")
}

func TestTransformUnknownImports(t *testing.T) {
	r := build(t, `
:import { -st-from: "./missing.st.css"; -st-default: Missing; }
:import { -st-from: "./other.st.css"; -st-named: nothing; }
`, map[string]string{
		"/other.st.css": `.a {}`,
	})
	got := codes(r)
	assert.Contains(t, got, diag.ImpUnknownFile)
	assert.Contains(t, got, diag.ImpUnknownSymbol)
	assert.Empty(t, r.CSS)
	assert.Equal(t, map[string]string{"root": "entry__root"}, r.Exports.Classes)
}

func TestTransformIsIdempotent(t *testing.T) {
	css := `
@st-import Button, [accent] from "./button.st.css";
:vars { gap: 4px; }
.root { -st-states: open; }
.list { -st-extends: Button; -st-mixin: item; margin: value(gap); }
.list:open::label, .root:open .item { color: value(accent); }
.item { padding: 0; }
@keyframes spin { from {} }
`
	others := map[string]string{
		"/button.st.css": `:vars { accent: red; } .root { -st-states: open; } .label {}`,
	}
	first := build(t, css, others)
	second := build(t, css, others)
	assert.Equal(t, first.CSS, second.CSS)
	assert.Equal(t, first.Exports, second.Exports)
	assert.Equal(t, codes(first), codes(second))
}

func TestTransformKeepsAnalysisTree(t *testing.T) {
	r := build(t, `.a { -st-states: on; }`, nil)
	require.NotNil(t, r.Meta.OutputAST)
	assert.NotSame(t, r.Meta.AST, r.Meta.OutputAST)
	rule := r.Meta.Class("a").Node
	assert.Equal(t, ".a", r.Meta.AST.Node(rule).Selector)
	assert.Equal(t, ".entry__a", r.Meta.OutputAST.Node(rule).Selector)
}
