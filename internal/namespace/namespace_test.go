package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/meta"
	"stylc/internal/source"
)

func newMeta(t *testing.T, path, css string) *meta.Meta {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(css))
	tree := cssast.Parse(id, []byte(css), cssast.Options{})
	return meta.New(fs, id, path, tree)
}

func TestFromFilename(t *testing.T) {
	cases := map[string]string{
		"button.st.css":    "button",
		"my-button.st.css": "mybutton",
		"main.css":         "main",
		"1-card.st.css":    "card",
		"___.css":          "___",
		"123.st.css":       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, FromFilename(in), in)
	}
}

func TestDefaultIsStable(t *testing.T) {
	a := Default("button", "/src/button.st.css", "")
	b := Default("button", "/src/button.st.css", "")
	require.Equal(t, a, b)
	assert.NotEqual(t, a, Default("button", "/other/button.st.css", ""))
	assert.Regexp(t, `^button\d+$`, a)
}

func TestHashNormalizesUnicode(t *testing.T) {
	composed := "/src/caf\u00e9.st.css"
	decomposed := "/src/cafe\u0301.st.css"
	assert.Equal(t, Hash(composed), Hash(decomposed))
}

func TestSetUsesLastDeclaration(t *testing.T) {
	m := newMeta(t, "/src/a.st.css", "")
	m.Data.Namespaces = []string{"first", "second"}
	Set(m, Plain)
	assert.Equal(t, "second", m.Namespace)
}

func TestSetFallsBackToFilenameAndS(t *testing.T) {
	m := newMeta(t, "/src/card.st.css", "")
	Set(m, Plain)
	assert.Equal(t, "card", m.Namespace)

	m = newMeta(t, "/src/42.st.css", "")
	Set(m, Plain)
	assert.Equal(t, "s", m.Namespace)
}

func TestSetReferenceComment(t *testing.T) {
	var gotOrigin string
	capture := func(name, origin, _ string) string {
		gotOrigin = origin
		return name
	}
	m := newMeta(t, "/dist/a.st.css", "/* st-namespace-reference=\"../src/a.st.css\" */\n.a {}\n")
	Set(m, capture)
	assert.Equal(t, "/src/a.st.css", gotOrigin)
	assert.Equal(t, 0, m.Diagnostics.Len())

	m = newMeta(t, "/dist/a.st.css", "/* st-namespace-reference */\n")
	Set(m, capture)
	assert.Equal(t, "/dist/a.st.css", gotOrigin)
	require.Len(t, m.Diagnostics.ByCode(diag.NspInvalidReference), 1)
}

func TestReferenceMakesRebuildStable(t *testing.T) {
	src := newMeta(t, "/proj/src/a.st.css", ".a {}")
	Set(src, Default)
	dist := newMeta(t, "/proj/dist/a.st.css", "/* st-namespace-reference=\"../src/a.st.css\" */")
	Set(dist, Default)
	assert.Equal(t, src.Namespace, dist.Namespace)
}

func TestPackageStrategy(t *testing.T) {
	resolve := Package("lib", "/home/a/proj")
	other := Package("lib", "/home/b/proj")
	assert.Equal(t,
		resolve("btn", "/home/a/proj/src/btn.st.css", ""),
		other("btn", "/home/b/proj/src/btn.st.css", ""),
	)
}
