// Package transform rewrites an analysed stylesheet into plain CSS: names
// are namespaced, custom selectors, states and pseudo-elements are
// expanded, mixins are merged and directives are removed.
package transform

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"stylc/internal/cssast"
	"stylc/internal/features"
	"stylc/internal/meta"
	"stylc/internal/resolver"
	"stylc/internal/selector"
)

type Options struct {
	// Resolver follows imports; a resolver without a file system is used
	// when nil, so every import is unresolved.
	Resolver *resolver.Resolver
	Logger   *zap.Logger
}

// Result of transforming one stylesheet.
type Result struct {
	Meta    *meta.Meta
	Exports Exports
	CSS     string
}

type transformer struct {
	res *resolver.Resolver
	log *zap.Logger
}

// Transform writes m.OutputAST and returns the printed CSS with the local
// exports of m. Diagnostics are added to m.
func Transform(m *meta.Meta, opts Options) *Result {
	t := &transformer{res: opts.Resolver, log: opts.Logger}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	if t.res == nil {
		t.res = resolver.New(resolver.Options{Logger: t.log})
	}

	tree := m.AST.Clone()
	m.OutputAST = tree
	removed := make([]cssast.NodeID, 0, len(m.Data.Removed))
	for id := range m.Data.Removed {
		removed = append(removed, id)
	}
	slices.Sort(removed)
	for _, id := range removed {
		tree.Remove(id)
	}

	tc := t.context(m, tree, nil, nil, nil)
	for _, f := range features.Registry {
		if f.TransformInit != nil {
			f.TransformInit(tc)
		}
	}
	t.run(tc)

	res := &Result{Meta: m, Exports: exportsOf(tc), CSS: cssast.Print(tree)}
	t.log.Debug("transformed stylesheet",
		zap.String("path", m.Source),
		zap.String("namespace", m.Namespace),
		zap.Int("classes", len(res.Exports.Classes)),
	)
	return res
}

func (t *transformer) context(m *meta.Meta, tree *cssast.Tree, target *meta.Meta, overrides map[string]string, stack []string) *features.TransformContext {
	tc := &features.TransformContext{
		Meta:         m,
		Target:       target,
		Resolver:     t.res,
		Tree:         tree,
		Log:          t.log,
		VarOverrides: overrides,
		MixinStack:   stack,
	}
	tc.TransformFragment = func(origin *meta.Meta, fragment *cssast.Tree, ov map[string]string, st []string, report cssast.NodeID) {
		dst := tc.Target
		if dst == nil {
			dst = tc.Meta
		}
		sub := t.context(origin, fragment, dst, ov, st)
		sub.ReportNode = report
		t.run(sub)
	}
	return tc
}

// run transforms every node of tc.Tree and applies mixins.
func (t *transformer) run(tc *features.TransformContext) {
	tree := tc.Tree
	tree.Walk(tree.Root(), func(id cssast.NodeID) bool {
		n := tree.Node(id)
		switch n.Kind {
		case cssast.KindRule:
			if !tree.IsChildOfAtRule(id, "keyframes") {
				t.rule(tc, id)
			}
			return true
		case cssast.KindAtRule:
			for _, f := range features.Registry {
				if f.TransformAtRule != nil {
					f.TransformAtRule(tc, id)
				}
			}
			return true
		case cssast.KindDecl:
			if strings.HasPrefix(n.Prop, "-st-") && !features.IsMixinProp(n.Prop) {
				tree.Remove(id)
				return false
			}
			for _, f := range features.Registry {
				if f.TransformDeclaration != nil {
					f.TransformDeclaration(tc, id)
				}
			}
		}
		return false
	})
	for _, f := range features.Registry {
		if f.TransformLastPass != nil {
			f.TransformLastPass(tc)
		}
	}
}

func (t *transformer) rule(tc *features.TransformContext, id cssast.NodeID) {
	n := tc.Tree.Node(id)
	list := features.ExpandCustomSelectors(selector.Parse(n.Selector), features.CustomSelectorLookup(tc.Meta))
	root := tc.RootAnchor()
	out := make(selector.List, 0, len(list))
	for _, sel := range list {
		sc := &features.SelectorContext{Rule: id, Anchor: root}
		out = append(out, selector.NewSelector(t.nodes(tc, sc, sel.Nodes, root)...))
	}
	tc.Tree.Node(id).Selector = selector.Stringify(out)
}

// nodes transforms one compound chain. Combinators reset the anchor to the
// root class; nested selector lists start from the current anchor.
func (t *transformer) nodes(tc *features.TransformContext, sc *features.SelectorContext, nodes []*selector.Node, root []resolver.Link) []*selector.Node {
	out := make([]*selector.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == selector.KindCombinator {
			sc.Anchor = root
			out = append(out, n)
			continue
		}
		if n.HasSelectorArgs() && !selector.IsPseudoClass(n, "global") {
			n = n.Clone()
			for i, inner := range n.Nodes {
				isc := &features.SelectorContext{Rule: sc.Rule, Anchor: sc.Anchor}
				n.Nodes[i] = selector.NewSelector(t.nodes(tc, isc, inner.Nodes, root)...)
			}
		}
		handled := false
		for _, f := range features.Registry {
			if f.TransformSelectorNode == nil {
				continue
			}
			if repl, ok := f.TransformSelectorNode(tc, sc, n); ok {
				out = append(out, repl...)
				handled = true
				break
			}
		}
		if !handled {
			out = append(out, n)
		}
	}
	return out
}
