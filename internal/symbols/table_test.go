package symbols

import (
	"testing"
)

func TestTableLastWriteWins(t *testing.T) {
	table := NewTable()
	first := &Symbol{Kind: KindClass, Name: "a"}
	second := &Symbol{Kind: KindVar, Name: "a"}

	if prev := table.Add("a", first); prev != nil {
		t.Fatalf("unexpected previous symbol %v", prev)
	}
	if prev := table.Add("a", second); prev != first {
		t.Fatalf("Add must return the replaced symbol")
	}
	if got := table.Lookup("a"); got != second {
		t.Fatalf("lookup returned %v, want the newest symbol", got)
	}
	if names := table.Names(NSMain); len(names) != 1 {
		t.Fatalf("names = %v", names)
	}
}

func TestTableBucketsAreSeparate(t *testing.T) {
	table := NewTable()
	table.Add("fade", &Symbol{Kind: KindClass, Name: "fade"})
	table.Add("fade", &Symbol{Kind: KindKeyframes, Name: "fade"})

	if got := table.Get(NSMain, "fade"); got == nil || got.Kind != KindClass {
		t.Fatalf("main bucket = %v", got)
	}
	if got := table.Get(NSKeyframes, "fade"); got == nil || got.Kind != KindKeyframes {
		t.Fatalf("keyframes bucket = %v", got)
	}
	if table.Len() != 2 {
		t.Fatalf("len = %d", table.Len())
	}
}

func TestAllByKindOrder(t *testing.T) {
	table := NewTable()
	for _, name := range []string{"b", "a", "c"} {
		table.Add(name, &Symbol{Kind: KindClass, Name: name})
	}
	table.Add("x", &Symbol{Kind: KindVar, Name: "x"})

	names, syms := table.AllByKind(KindClass)
	if len(names) != 3 || names[0] != "b" || names[2] != "c" {
		t.Fatalf("names = %v", names)
	}
	if syms["a"].Name != "a" {
		t.Fatalf("missing a")
	}
	if _, ok := syms["x"]; ok {
		t.Fatal("var leaked into class listing")
	}
}

func TestBindingsConflict(t *testing.T) {
	var b Bindings
	if _, conflict := b.Set("a", "a"); conflict {
		t.Fatal("first binding cannot conflict")
	}
	if _, conflict := b.Set("a", "a"); conflict {
		t.Fatal("identical rebinding is not a conflict")
	}
	prev, conflict := b.Set("a", "z")
	if !conflict || prev != "a" {
		t.Fatalf("conflict=%v prev=%q", conflict, prev)
	}
	if got, _ := b.Get("a"); got != "a" {
		t.Fatalf("first binding must be kept, got %q", got)
	}
}

func TestSymbolStatesAndImports(t *testing.T) {
	imp := &Imported{Request: "./b.st.css", Named: Bindings{{Local: "X", Origin: "Y"}}}
	alias := NewImport(imp, ImportNamed, "Y")
	cls := &Symbol{Kind: KindClass, Name: "X", Alias: alias, States: []State{{Name: "open"}}}

	if !cls.IsImport() || cls.ImportOf() != alias {
		t.Fatal("alias must be reported as import")
	}
	if _, ok := cls.State("open"); !ok {
		t.Fatal("state lookup failed")
	}
	if imp.IsPackageRequest() {
		t.Fatal("relative request reported as package")
	}
	if !(&Imported{Request: "pkg/x.st.css"}).IsPackageRequest() {
		t.Fatal("bare request must be a package request")
	}
}
