package driver_test

import (
	"testing"

	"stylc/internal/driver"
	"stylc/internal/fsys"
	"stylc/internal/namespace"
)

func compileDigest(t *testing.T, c *driver.Compiler, path string) driver.Digest {
	t.Helper()
	r, err := c.Compile(path)
	if err != nil {
		t.Fatalf("compile %s: %v", path, err)
	}
	if r.Digest.IsZero() {
		t.Fatal("digest should be non-zero")
	}
	return r.Digest
}

func TestDigest_DeterministicAndTransitive(t *testing.T) {
	// Граф: a -> b, b -> c
	mem := fsys.NewMemory(map[string]string{
		"/a.st.css": `@st-import B from "./b.st.css"; .x {}`,
		"/b.st.css": `@st-import C from "./c.st.css"; .y {}`,
		"/c.st.css": `.z {}`,
	})
	c := driver.NewCompiler(driver.Options{FS: mem, Namespace: namespace.Plain})

	first := compileDigest(t, c, "/a.st.css")
	if again := compileDigest(t, c, "/a.st.css"); again != first {
		t.Fatal("digest must be stable for unchanged files")
	}
	if b := compileDigest(t, c, "/b.st.css"); b == first {
		t.Fatal("b must have its own digest")
	}

	// Меняем «внука»: c
	mem.Write("/c.st.css", `.z { color: red; }`)
	c.Invalidate("/c.st.css")
	if changed := compileDigest(t, c, "/a.st.css"); changed == first {
		t.Fatal("digest must change when a transitive dependency changes")
	}
}

func TestDigest_CycleAndMissing(t *testing.T) {
	mem := fsys.NewMemory(map[string]string{
		"/a.st.css": `@st-import B from "./b.st.css"; @st-import X from "./missing.st.css";`,
		"/b.st.css": `@st-import A from "./a.st.css";`,
	})
	c := driver.NewCompiler(driver.Options{FS: mem, Namespace: namespace.Plain})
	a := compileDigest(t, c, "/a.st.css")
	b := compileDigest(t, c, "/b.st.css")
	if a == b {
		t.Fatal("stylesheets of one cycle must still differ by entry")
	}
}

func TestDigest_Salt(t *testing.T) {
	files := map[string]string{"/a.st.css": `.x {}`}
	plain := driver.NewCompiler(driver.Options{FS: fsys.NewMemory(files), CacheSalt: "name"})
	hashed := driver.NewCompiler(driver.Options{FS: fsys.NewMemory(files), CacheSalt: "hash"})
	if compileDigest(t, plain, "/a.st.css") == compileDigest(t, hashed, "/a.st.css") {
		t.Fatal("salt must take part in the digest")
	}
}
