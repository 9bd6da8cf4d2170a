package mixin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylc/internal/cssast"
)

func TestSubsetPicksClassRules(t *testing.T) {
	src := cssast.ParseString(`
.mix { color: red; }
.mix:hover, .other { color: blue; }
.other .mix {}
@media (x) { .mix { top: 0; } .other {} }
@keyframes k { from {} }
`)
	got := cssast.Print(Subset(src, "mix", Options{}))
	assert.Equal(t, `& {
    color: red;
}
&:hover {
    color: blue;
}
@media (x) {
    & {
        top: 0;
    }
}
`, got)
}

func TestSubsetRoot(t *testing.T) {
	src := cssast.ParseString(`.root { color: red; } .part { top: 0; }`)
	got := cssast.Print(Subset(src, "root", Options{Root: true}))
	assert.Equal(t, "& {\n    color: red;\n}\n& .part {\n    top: 0;\n}\n", got)
}

func TestSubsetSkip(t *testing.T) {
	src := cssast.ParseString(`.mix { color: red; } .mix { top: 0; }`)
	skipped := src.Children(src.Root())[0]
	got := cssast.Print(Subset(src, "mix", Options{Skip: func(id cssast.NodeID) bool { return id == skipped }}))
	assert.Equal(t, "& {\n    top: 0;\n}\n", got)
}

func TestMergeRules(t *testing.T) {
	tree := cssast.ParseString(`.a { -st-mixin: x; top: 0; } .z {}`)
	rule := tree.Children(tree.Root())[0]
	decl := tree.Children(rule)[0]
	fragment := cssast.ParseString(`& { color: red; } &:hover { color: blue; } & .b {}`)

	MergeRules(fragment, tree, rule, decl, nil)
	tree.Remove(decl)

	assert.Equal(t, `.a {
    color: red;
    top: 0;
}
.a:hover {
    color: blue;
}
.a .b {}
.z {}
`, cssast.Print(tree))
}

func TestMergeRulesAfterKeepsOrder(t *testing.T) {
	tree := cssast.ParseString(`.a { -st-mixin: x, y; }`)
	rule := tree.Children(tree.Root())[0]
	decl := tree.Children(rule)[0]

	after := MergeRulesAfter(cssast.ParseString(`& { a: 1; } &:x {}`), tree, rule, decl, rule, nil)
	after = MergeRulesAfter(cssast.ParseString(`& { b: 2; } &:y {}`), tree, rule, decl, after, nil)
	tree.Remove(decl)

	require.NotEqual(t, rule, after)
	assert.Equal(t, ".a {\n    a: 1;\n    b: 2;\n}\n.a:x {}\n.a:y {}\n", cssast.Print(tree))
}

func TestMergeIntoKeyframesReports(t *testing.T) {
	tree := cssast.ParseString(`@keyframes k { from { -st-mixin: x; } }`)
	kf := tree.Children(tree.Root())[0]
	from := tree.Children(kf)[0]
	decl := tree.Children(from)[0]

	var reported []string
	MergeRules(cssast.ParseString(`& { color: red; } &:hover { top: 0; }`), tree, from, decl, func(content string) {
		reported = append(reported, content)
	})
	tree.Remove(decl)

	assert.Equal(t, []string{"from:hover {\n    top: 0;\n}"}, reported)
	assert.Equal(t, "@keyframes k {\n    from {\n        color: red;\n    }\n}\n", cssast.Print(tree))
}
