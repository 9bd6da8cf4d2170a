// Package mixin extracts the rules a class contributes as a mixin and merges
// such fragments into a target rule.
package mixin

import (
	"stylc/internal/cssast"
	"stylc/internal/selector"
)

// Options for Subset.
type Options struct {
	// Root includes the whole stylesheet: selectors that do not start with
	// the class are nested under "&".
	Root bool
	// Skip excludes source nodes (directives already consumed by analysis).
	Skip func(id cssast.NodeID) bool
}

// Subset copies every rule of src whose selector starts with .class into a
// fragment, replacing the class with "&". Rules inside @media, @supports,
// @layer and @container are kept with their at-rule.
func Subset(src *cssast.Tree, class string, opts Options) *cssast.Tree {
	out := cssast.NewTree(src.File)
	subset(src, src.Root(), out, out.Root(), class, opts)
	return out
}

func subset(src *cssast.Tree, parent cssast.NodeID, out *cssast.Tree, outParent cssast.NodeID, class string, opts Options) {
	for _, c := range src.Children(parent) {
		if opts.Skip != nil && opts.Skip(c) {
			continue
		}
		n := src.Node(c)
		switch n.Kind {
		case cssast.KindRule:
			kept := matching(selector.Parse(n.Selector), class, opts.Root)
			if len(kept) == 0 {
				continue
			}
			cp := out.Import(src, c)
			out.Node(cp).Selector = selector.Stringify(kept)
			out.Append(outParent, cp)
		case cssast.KindAtRule:
			switch n.Name {
			case "media", "supports", "layer", "container":
			default:
				continue
			}
			if !n.HasBlock {
				continue
			}
			at := out.NewAtRule(n.Name, n.Params, true)
			subset(src, c, out, at, class, opts)
			if len(out.Node(at).Children) > 0 {
				out.Append(outParent, at)
			}
		}
	}
}

// matching keeps the selectors that start with .class and rewrites that
// class to "&". With root set, other selectors are nested under "&".
func matching(list selector.List, class string, root bool) selector.List {
	var kept selector.List
	for _, sel := range list {
		if len(sel.Nodes) > 0 {
			if first := sel.Nodes[0]; first.Kind == selector.KindClass && first.Value == class {
				cp := sel.Clone()
				cp.Nodes[0] = &selector.Node{Kind: selector.KindNesting, Value: "&"}
				kept = append(kept, cp)
				continue
			}
		}
		if root {
			cp := sel.Clone()
			prefix := []*selector.Node{{Kind: selector.KindNesting, Value: "&"}, selector.NewCombinator(selector.Descendant)}
			cp.Nodes = append(prefix, cp.Nodes...)
			kept = append(kept, cp)
		}
	}
	return kept
}

// ReportFunc receives the printed fragment content that could not be merged.
type ReportFunc func(content string)

// MergeRules merges fragment into tree at mixinDecl, a declaration of rule.
// The first top-level "&" rule contributes its declarations in place of
// mixinDecl; every other rule is scoped to rule's selector and inserted
// after rule.
func MergeRules(fragment, tree *cssast.Tree, rule, mixinDecl cssast.NodeID, report ReportFunc) {
	MergeRulesAfter(fragment, tree, rule, mixinDecl, rule, report)
}

// MergeRulesAfter is MergeRules with rules inserted after the node after
// instead of rule. It returns the last inserted node, or after.
func MergeRulesAfter(fragment, tree *cssast.Tree, rule, mixinDecl, after cssast.NodeID, report ReportFunc) cssast.NodeID {
	target := selector.Parse(tree.Node(rule).Selector)
	mixinRoot := cssast.NoNode
	noRoot := false
	fragment.Walk(fragment.Root(), func(id cssast.NodeID) bool {
		n := fragment.Node(id)
		if n.Kind != cssast.KindRule {
			return true
		}
		if fragment.IsChildOfAtRule(id, "keyframes") {
			return false
		}
		if n.Selector == "&" && mixinRoot == cssast.NoNode && !noRoot {
			if fragment.Parent(id) == fragment.Root() {
				mixinRoot = id
				return true
			}
			noRoot = true
		}
		n.Selector = selector.ScopeNested(target, selector.Parse(n.Selector), false).Selector
		return true
	})

	inKeyframes := tree.IsChildOfAtRule(rule, "keyframes")
	next := after
	for _, entry := range fragment.Children(fragment.Root()) {
		n := fragment.Node(entry)
		switch {
		case entry == mixinRoot:
			for _, c := range fragment.Children(entry) {
				tree.InsertBefore(mixinDecl, tree.Import(fragment, c))
			}
		case n.Kind == cssast.KindDecl:
			tree.InsertBefore(mixinDecl, tree.Import(fragment, entry))
		case n.Kind == cssast.KindRule || n.Kind == cssast.KindAtRule:
			if inKeyframes {
				if report != nil {
					report(cssast.PrintNode(fragment, entry))
				}
				continue
			}
			cp := tree.Import(fragment, entry)
			tree.InsertAfter(next, cp)
			next = cp
		}
	}
	return next
}
