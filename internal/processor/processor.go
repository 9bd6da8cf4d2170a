// Package processor parses a stylesheet and runs the analysis pass of every
// feature over it, producing a meta.Meta.
package processor

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/features"
	"stylc/internal/meta"
	"stylc/internal/namespace"
	"stylc/internal/selector"
	"stylc/internal/source"
)

var (
	ErrMissingSource  = errors.New("processor: missing source path")
	ErrRelativeSource = errors.New("processor: source path must be absolute")
)

type Options struct {
	// Resolve computes the final namespace; namespace.Default when nil.
	Resolve namespace.ResolveFunc
	// MaxErrors caps parser errors per file; 0 means unlimited.
	MaxErrors uint
	Logger    *zap.Logger
}

// Processor analyses stylesheets into a shared FileSet. It is not safe for
// concurrent use.
type Processor struct {
	files *source.FileSet
	opts  Options
	log   *zap.Logger
}

func New(files *source.FileSet, opts Options) *Processor {
	if files == nil {
		files = source.NewFileSet()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{files: files, opts: opts, log: log}
}

func (p *Processor) Files() *source.FileSet { return p.files }

// Process parses content as the stylesheet at src and analyses it.
// Problems in the stylesheet are diagnostics of the returned Meta; the error
// is only set for a missing or relative path.
func (p *Processor) Process(src, content string) (*meta.Meta, error) {
	switch {
	case src == "":
		return nil, ErrMissingSource
	case !path.IsAbs(src) && !filepath.IsAbs(src):
		return nil, fmt.Errorf("%w: %q", ErrRelativeSource, src)
	}
	file := p.files.AddSource(src, content)
	m := meta.New(p.files, file, src, nil)
	m.AST = cssast.Parse(file, p.files.Get(file).Content, cssast.Options{
		MaxErrors: p.opts.MaxErrors,
		Reporter:  m,
	})
	Analyze(m, p.opts)
	p.log.Debug("processed stylesheet",
		zap.String("path", src),
		zap.String("namespace", m.Namespace),
		zap.Int("symbols", m.Symbols.Len()),
		zap.Int("diagnostics", m.Diagnostics.Len()),
	)
	return m, nil
}

type analyzer struct {
	m   *meta.Meta
	ctx *features.Context
	// scopes records whether the selector of an @st-scope is locally scoped.
	scopes map[cssast.NodeID]bool
}

// Analyze runs every feature over m.AST and computes m.Namespace.
func Analyze(m *meta.Meta, opts Options) {
	a := &analyzer{m: m, scopes: make(map[cssast.NodeID]bool)}
	a.ctx = &features.Context{Meta: m, AnalyzeSelector: a.analyzeNested}

	for _, f := range features.Registry {
		if f.MetaInit != nil {
			f.MetaInit(m)
		}
	}
	for _, f := range features.Registry {
		if f.AnalyzeInit != nil {
			f.AnalyzeInit(a.ctx)
		}
	}

	for _, id := range m.AST.Collect(cssast.KindAtRule) {
		if m.Data.Removed[id] {
			continue
		}
		m.URLs = append(m.URLs, features.CollectURLs(m.AST.Node(id).Params)...)
		for _, f := range features.Registry {
			if f.AnalyzeAtRule != nil {
				f.AnalyzeAtRule(a.ctx, id)
			}
		}
	}

	m.AST.Walk(m.AST.Root(), func(id cssast.NodeID) bool {
		n := m.AST.Node(id)
		switch n.Kind {
		case cssast.KindAtRule:
			return n.Name != "keyframes"
		case cssast.KindRule:
			if parent := m.AST.Node(m.AST.Parent(id)); parent.Kind == cssast.KindRule {
				m.Error(diag.SelInvalidNesting, id, "",
					"nesting of rules within rules is not supported, found: %q inside %q", n.Selector, parent.Selector)
			}
			a.analyzeSelector(m.Selector(id), id, a.inScope(id), true)
			return true
		}
		return false
	})

	m.AST.Walk(m.AST.Root(), func(id cssast.NodeID) bool {
		n := m.AST.Node(id)
		switch n.Kind {
		case cssast.KindRule:
			return !m.Data.Removed[id]
		case cssast.KindAtRule:
			return true
		case cssast.KindDecl:
			m.URLs = append(m.URLs, features.CollectURLs(n.Value)...)
			for _, f := range features.Registry {
				if f.AnalyzeDeclaration != nil {
					f.AnalyzeDeclaration(a.ctx, id)
				}
			}
		}
		return false
	})

	for _, f := range features.Registry {
		if f.AnalyzeDone != nil {
			f.AnalyzeDone(a.ctx)
		}
	}
	namespace.Set(m, opts.Resolve)
}

// inScope reports whether the closest @st-scope of id has a locally scoped selector.
func (a *analyzer) inScope(id cssast.NodeID) bool {
	scope := a.m.AST.ClosestAtRule(id, "st-scope")
	return scope != cssast.NoNode && a.scopes[scope]
}

// analyzeNested serves selectors held outside rules (@st-scope params,
// @custom-selector definitions). Unscoped selectors are not reported there.
func (a *analyzer) analyzeNested(list selector.List, node cssast.NodeID, report bool) bool {
	scoped := a.analyzeSelector(list, node, false, report)
	if n := a.m.AST.Node(node); n != nil && n.Kind == cssast.KindAtRule && n.Name == "st-scope" {
		a.scopes[node] = scoped
	}
	return scoped
}

// analyzeSelector dispatches every selector node to the features and tracks
// whether each selector of the list targets a local class.
func (a *analyzer) analyzeSelector(list selector.List, node cssast.NodeID, isScoped, report bool) bool {
	m := a.m
	all := len(list) > 0
	for _, sel := range list {
		locallyScoped := isScoped
		selector.Walk([]*selector.Node{sel}, func(n *selector.Node, index int, nodes, parents []*selector.Node) selector.Action {
			if n.Kind == selector.KindSelector {
				return selector.Continue
			}
			sn := features.SelectorNode{Node: n, Index: index, Nodes: nodes, Parents: parents, Rule: node}
			switch n.Kind {
			case selector.KindPseudoClass:
				if act := a.dispatch(sn); act != selector.Continue {
					return act
				}
				if strings.HasPrefix(n.Value, "--") {
					locallyScoped = locallyScoped || features.CustomSelectorScoped(m, n.Value[2:])
				}
				if !n.HasSelectorArgs() {
					return selector.SkipNested
				}
				return selector.Continue
			case selector.KindClass:
				a.dispatch(sn)
				locallyScoped = features.ValidateClassScoping(m, sn, locallyScoped, report)
			case selector.KindType:
				a.dispatch(sn)
				locallyScoped = features.ValidateTypeScoping(m, sn, locallyScoped, report)
			default:
				if act := a.dispatch(sn); act != selector.Continue {
					return act
				}
			}
			if n.Func && n.Kind != selector.KindPseudoElement {
				m.Error(diag.SelInvalidFunctional, node, "", "functional selector %q is not supported", selector.StringifyNode(n))
			}
			return selector.Continue
		})
		all = all && locallyScoped
	}
	return all
}

func (a *analyzer) dispatch(sn features.SelectorNode) selector.Action {
	for _, f := range features.Registry {
		if f.AnalyzeSelectorNode == nil {
			continue
		}
		if act := f.AnalyzeSelectorNode(a.ctx, sn); act != selector.Continue {
			return act
		}
	}
	return selector.Continue
}
