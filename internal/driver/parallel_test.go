package driver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylc/internal/namespace"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestListFiles(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"b.st.css":                    ``,
		"a/a.st.css":                  ``,
		"plain.css":                   ``,
		"node_modules/lib/lib.st.css": ``,
		"a/skip/generated.st.css":     ``,
	})

	files, err := ListFiles(src, nil, []string{"**/node_modules/**", "a/skip/**"})
	require.NoError(t, err)
	root, err := filepath.Abs(src)
	require.NoError(t, err)
	root = filepath.ToSlash(root)
	assert.Equal(t, []string{root + "/a/a.st.css", root + "/b.st.css"}, files)

	_, err = ListFiles(src, []string{"[a-"}, nil)
	assert.Error(t, err)
}

func TestBuildDir(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{
		"button.st.css":    `.root { color: red; } .label {}`,
		"pages/app.st.css": `@st-import Button from "../button.st.css"; .root Button {}`,
		"broken.st.css":    `@st-import X from "./missing.st.css";`,
	})

	res, err := BuildDir(context.Background(), BuildOptions{
		Src:      src,
		Out:      out,
		Jobs:     2,
		Compiler: Options{Namespace: namespace.Plain},
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	assert.Len(t, res.Written, 6)
	assert.True(t, res.HasErrors())

	css, err := os.ReadFile(filepath.Join(out, "pages", "app.st.css"))
	require.NoError(t, err)
	assert.Equal(t, ".app__root .button__root {}\n", string(css))

	raw, err := os.ReadFile(filepath.Join(out, "button.st.json"))
	require.NoError(t, err)
	var exports struct {
		Classes map[string]string `json:"classes"`
	}
	require.NoError(t, json.Unmarshal(raw, &exports))
	assert.Equal(t, map[string]string{"root": "button__root", "label": "button__label"}, exports.Classes)
}

func TestBuildDirCancelled(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.st.css": `.a {}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildDir(ctx, BuildOptions{Src: src})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildDirEmpty(t *testing.T) {
	res, err := BuildDir(context.Background(), BuildOptions{Src: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.False(t, res.HasErrors())
}

func TestBuildDirSkipsOwnOutput(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.st.css": `.a {}`})
	opts := BuildOptions{
		Src:      src,
		Out:      filepath.Join(src, "dist"),
		Compiler: Options{Namespace: namespace.Plain},
	}

	for range 2 {
		res, err := BuildDir(context.Background(), opts)
		require.NoError(t, err)
		require.Len(t, res.Files, 1)
	}
	assert.Equal(t, []string{"dist/**"}, outputExcluded(opts))
	assert.Empty(t, outputExcluded(BuildOptions{Src: src, Out: t.TempDir()}))
}
