package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylc/internal/diag"
	"stylc/internal/diagfmt"
	"stylc/internal/source"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

const nameStrategy = "[namespace]\nstrategy = \"name\"\n"

func TestBuildCommand(t *testing.T) {
	root := writeProject(t, map[string]string{
		"stylc.toml":      nameStrategy,
		"button.st.css":   `.root { color: red; }`,
		"app.st.css":      `@st-import Button from "./button.st.css"; .root Button {}`,
		"ignored.css":     `.x {}`,
		"nested/x.st.css": `.root {}`,
	})

	out, _, err := execute(t, "build", root, "--no-warnings")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "built 3 stylesheets")
	assert.Contains(t, out, "6 files written")
	assert.NotContains(t, out, "\x1b[")

	css, err := os.ReadFile(filepath.Join(root, "dist", "app.st.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), ".app__root .button__root")
	assert.FileExists(t, filepath.Join(root, "dist", "nested", "x.st.json"))
	assert.NoFileExists(t, filepath.Join(root, "dist", "ignored.css"))
}

func TestCompileCommand(t *testing.T) {
	root := writeProject(t, map[string]string{
		"stylc.toml":    nameStrategy,
		"button.st.css": `.root { color: red; } .label {}`,
	})

	out, _, err := execute(t, "compile", filepath.Join(root, "button.st.css"), "--exports", "-")
	require.NoError(t, err)
	assert.Contains(t, out, ".button__root {")
	assert.Contains(t, out, `"label": "button__label"`)
}

func TestDiagCommandFails(t *testing.T) {
	root := writeProject(t, map[string]string{
		"stylc.toml":    nameStrategy,
		"broken.st.css": `@st-import X from "./missing.st.css";`,
	})

	out, _, err := execute(t, "diag", filepath.Join(root, "broken.st.css"), "--format", "short")
	require.ErrorIs(t, err, errFailed)
	assert.Contains(t, out, "IMP3016")
}

func TestNamespaceCommand(t *testing.T) {
	root := writeProject(t, map[string]string{
		"stylc.toml":  nameStrategy,
		"card.st.css": `@namespace "Card"; .root {}`,
	})

	out, _, err := execute(t, "namespace", filepath.Join(root, "card.st.css"))
	require.NoError(t, err)
	assert.Equal(t, "Card\n", out)
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"tool": "stylc"`)
}

func TestLimitAndCount(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("/p/a.st.css", []byte(".a {}\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevError, diag.ImpUnknownFile, source.Span{File: id, Start: 0, End: 2}, "e"))
	bag.Add(diag.New(diag.SevWarning, diag.MixUnknown, source.Span{File: id, Start: 0, End: 2}, "w"))
	bag.Add(diag.New(diag.SevWarning, diag.MixUnknown, source.Span{File: id, Start: 0, End: 2}, "w"))
	units := []diagfmt.Unit{{Bag: bag, Files: fs}, {Bag: bag, Files: fs}}

	errs, warns := counts(units)
	assert.Equal(t, 2, errs)
	assert.Equal(t, 4, warns)

	limited := limitUnits(units, 4)
	require.Len(t, limited, 2)
	assert.Equal(t, 3, limited[0].Bag.Len())
	assert.Equal(t, 1, limited[1].Bag.Len())

	warnOnly := diag.NewBag(0)
	warnOnly.Add(diag.New(diag.SevWarning, diag.MixUnknown, source.Span{}, "w"))
	assert.False(t, failed([]diagfmt.Unit{{Bag: warnOnly}}, reportOptions{}))
	assert.True(t, failed([]diagfmt.Unit{{Bag: warnOnly}}, reportOptions{warningsAsErrors: true}))
}

func TestSummaryRender(t *testing.T) {
	var buf bytes.Buffer
	s := buildSummary{Files: 1, Cached: 1, Written: 2, Out: "dist", Warnings: 1, Elapsed: 1500 * time.Microsecond}
	text := s.render(&buf, false)
	assert.Contains(t, text, "ok built 1 stylesheet (1 cached) in 1.5 ms")
	assert.Contains(t, text, "2 files written to dist")
	assert.Contains(t, text, "0 errors, 1 warning")
	assert.True(t, strings.HasSuffix(text, "\n"))

	s.Failed = true
	assert.Contains(t, s.render(&buf, false), "failed built")
}
