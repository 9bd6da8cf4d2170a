package driver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylc/internal/diag"
	"stylc/internal/fsys"
	"stylc/internal/namespace"
	"stylc/internal/observ"
	"stylc/internal/processor"
)

func memCompiler(files map[string]string, opts Options) *Compiler {
	opts.FS = fsys.NewMemory(files)
	opts.Namespace = namespace.Plain
	return NewCompiler(opts)
}

func TestCompileImportedClass(t *testing.T) {
	c := memCompiler(map[string]string{
		"/app.st.css":    `@st-import Button from "./button.st.css"; .root Button {}`,
		"/button.st.css": `.root { color: red; }`,
	}, Options{})

	r, err := c.Compile("/app.st.css")
	require.NoError(t, err)
	assert.Equal(t, "app", r.Namespace)
	assert.Equal(t, ".app__root .button__root {}\n", r.CSS)
	assert.Equal(t, map[string]string{"root": "app__root"}, r.Exports.Classes)
	assert.Zero(t, r.Diagnostics.Len())
	assert.False(t, r.Cached)
	assert.NotNil(t, r.Meta.OutputAST)
}

func TestCompileErrors(t *testing.T) {
	c := memCompiler(map[string]string{}, Options{})

	_, err := c.Compile("")
	assert.ErrorIs(t, err, processor.ErrMissingSource)

	_, err = c.Compile("/nope.st.css")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fsys.ErrNotFound))
}

func TestCompileSourceOverridesFile(t *testing.T) {
	c := memCompiler(map[string]string{"/a.st.css": `.old {}`}, Options{})
	r, err := c.CompileSource("/a.st.css", `.new {}`)
	require.NoError(t, err)
	assert.Equal(t, ".a__new {}\n", r.CSS)
}

func TestCompileDiagnosticsSorted(t *testing.T) {
	c := memCompiler(map[string]string{
		"/a.st.css": `.a { -st-mixin: Missing; }
@st-import X from "./missing.st.css";`,
	}, Options{})
	r, err := c.Compile("/a.st.css")
	require.NoError(t, err)

	items := r.Diagnostics.Items()
	require.Len(t, items, 2)
	assert.Equal(t, diag.MixUnknown, items[0].Code)
	assert.Equal(t, diag.ImpUnknownFile, items[1].Code)
	assert.True(t, r.HasErrors())
}

func TestCompileResultCache(t *testing.T) {
	c := memCompiler(map[string]string{"/a.st.css": `.a { -st-mixin: Missing; }`}, Options{})
	first, err := c.Compile("/a.st.css")
	require.NoError(t, err)
	second, err := c.Compile("/a.st.css")
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, first.Digest, second.Digest)
	assert.Equal(t, first.CSS, second.CSS)
	require.Equal(t, 1, second.Diagnostics.Len())
	got := second.Diagnostics.Items()[0]
	want := first.Diagnostics.Items()[0]
	assert.Equal(t, want.Code, got.Code)
	assert.Equal(t, want.Primary.Start, got.Primary.Start)
	assert.Equal(t, second.Meta.File, got.Primary.File)
}

func TestCompileDiskCache(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir())
	require.NoError(t, err)
	files := map[string]string{"/a.st.css": `:vars { c: red; } .a { color: value(c); }`}

	first, err := memCompiler(files, Options{DiskCache: dc}).Compile("/a.st.css")
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := memCompiler(files, Options{DiskCache: dc}).Compile("/a.st.css")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, ".a__a {\n    color: red;\n}\n", second.CSS)
	assert.Equal(t, first.Exports.Classes, second.Exports.Classes)
	assert.Equal(t, map[string]string{"c": "red"}, second.Exports.StVars)
	assert.Nil(t, second.Meta.OutputAST)
}

func TestCompileTimings(t *testing.T) {
	var events []PhaseEvent
	total := observ.NewTimer()
	c := memCompiler(map[string]string{"/a.st.css": `.a {}`}, Options{
		Timings:  true,
		Timer:    total,
		Observer: func(e PhaseEvent) { events = append(events, e) },
	})
	r, err := c.Compile("/a.st.css")
	require.NoError(t, err)

	timings := r.Diagnostics.ByCode(diag.GenTimings)
	require.Len(t, timings, 1)
	assert.Contains(t, timings[0].Message, "/a.st.css")
	require.Len(t, timings[0].Notes, 1)
	assert.Contains(t, timings[0].Notes[0].Msg, `"name":"transform"`)

	var names []string
	for _, e := range events {
		if e.Status == PhaseEnd {
			names = append(names, e.Name)
		}
	}
	assert.Equal(t, []string{PhaseRead, PhaseProcess, PhaseTransform}, names)
	assert.Len(t, total.Report().Phases, 3)
	assert.False(t, r.HasErrors())
}

func TestAnalyzeUsesCache(t *testing.T) {
	c := memCompiler(map[string]string{"/a.st.css": `@namespace "btn"; .a {}`}, Options{})
	m, err := c.Analyze("/a.st.css")
	require.NoError(t, err)
	assert.Equal(t, "btn", m.Namespace)
	again, err := c.Analyze("/a.st.css")
	require.NoError(t, err)
	assert.Same(t, m, again)
}
