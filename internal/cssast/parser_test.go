package cssast

import (
	"testing"

	"stylc/internal/diag"
	"stylc/internal/source"
)

func parseWithBag(t *testing.T, text string) (*Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("/test.st.css", []byte(text))
	bag := diag.NewBag(0)
	tree := Parse(id, []byte(text), Options{Reporter: diag.BagReporter{Bag: bag}})
	return tree, bag
}

func TestParseRulesAndDecls(t *testing.T) {
	tree, bag := parseWithBag(t, `
/* st-namespace-reference="../a.st.css" */
@st-import Btn, [part] from "./btn.st.css";
.root:hover, .a > .b {
  color: red;
  background: url("x;y.png") !important;
  --gap: ;
}
@media (min-width: 10px) { .a { top: 0 } }
`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	top := tree.Children(tree.Root())
	if len(top) != 4 {
		t.Fatalf("want 4 top-level nodes, got %d", len(top))
	}
	if n := tree.Node(top[0]); n.Kind != KindComment || n.Text != ` st-namespace-reference="../a.st.css" ` {
		t.Fatalf("comment = %+v", n)
	}
	if n := tree.Node(top[1]); n.Kind != KindAtRule || n.Name != "st-import" || n.Params != `Btn, [part] from "./btn.st.css"` || n.HasBlock {
		t.Fatalf("at-rule = %+v", n)
	}
	rule := tree.Node(top[2])
	if rule.Kind != KindRule || rule.Selector != ".root:hover, .a > .b" {
		t.Fatalf("rule = %+v", rule)
	}
	decls := rule.Children
	if len(decls) != 3 {
		t.Fatalf("want 3 decls, got %d", len(decls))
	}
	bg := tree.Node(decls[1])
	if bg.Prop != "background" || bg.Value != `url("x;y.png")` || !bg.Important {
		t.Fatalf("decl = %+v", bg)
	}
	if gap := tree.Node(decls[2]); gap.Prop != "--gap" || gap.Value != "" {
		t.Fatalf("custom property = %+v", gap)
	}
	media := tree.Node(top[3])
	if media.Name != "media" || media.Params != "(min-width: 10px)" || len(media.Children) != 1 {
		t.Fatalf("media = %+v", media)
	}
	inner := tree.Node(media.Children[0])
	if len(inner.Children) != 1 || tree.Node(inner.Children[0]).Value != "0" {
		t.Fatalf("last declaration without semicolon lost: %+v", inner)
	}
}

func TestParseRecoversFromErrors(t *testing.T) {
	tree, bag := parseWithBag(t, ".a { color red; top: 1px; }\n}\n.b {")
	codes := []diag.Code{}
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	want := []diag.Code{diag.CSSUnknownWord, diag.CSSUnexpectedCloseBrace, diag.CSSUnclosedBlock}
	if len(codes) != len(want) {
		t.Fatalf("codes = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes = %v, want %v", codes, want)
		}
	}
	rules := tree.Collect(KindRule)
	if len(rules) != 2 {
		t.Fatalf("want 2 rules, got %d", len(rules))
	}
	if got := len(tree.Node(rules[0]).Children); got != 1 {
		t.Fatalf("want surviving decl, got %d children", got)
	}
}

func TestParseSpans(t *testing.T) {
	text := ".a {\n  color: red;\n}\n"
	tree, _ := parseWithBag(t, text)
	rule := tree.Children(tree.Root())[0]
	n := tree.Node(rule)
	if got := text[n.Span.Start:n.Span.End]; got != text[:len(text)-1] {
		t.Fatalf("rule span covers %q", got)
	}
	d := tree.Node(n.Children[0])
	if got := text[d.Span.Start:d.Span.End]; got != "color: red" {
		t.Fatalf("decl span covers %q", got)
	}
}
