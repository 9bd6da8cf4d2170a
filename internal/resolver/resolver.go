// Package resolver follows imports across stylesheets. Metas are produced on
// demand through a ProcessFunc and memoised in a path-keyed Cache.
package resolver

import (
	"strings"

	"go.uber.org/zap"

	"stylc/internal/fsys"
	"stylc/internal/meta"
	"stylc/internal/symbols"
)

// ProcessFunc analyses one stylesheet.
type ProcessFunc func(path, content string) (*meta.Meta, error)

// OriginKind discriminates resolution results.
type OriginKind uint8

const (
	OriginCSS OriginKind = iota
	OriginJS
	OriginUnresolved
)

func (k OriginKind) String() string {
	switch k {
	case OriginCSS:
		return "css"
	case OriginJS:
		return "js"
	default:
		return "unresolved"
	}
}

// Unresolved reasons.
const (
	ReasonCycle         = "cycle"
	ReasonMissingFile   = "missing-file"
	ReasonMissingSymbol = "missing-symbol"
)

// Result is a resolved import target. For OriginJS only Path is set; the
// module is opaque to the compiler.
type Result struct {
	Kind   OriginKind
	Meta   *meta.Meta
	Symbol *symbols.Symbol
	Path   string
	Reason string
}

type Options struct {
	FS      fsys.FileSystem
	Process ProcessFunc
	Cache   *Cache
	Logger  *zap.Logger
}

type Resolver struct {
	fs      fsys.FileSystem
	process ProcessFunc
	cache   *Cache
	log     *zap.Logger
	// pending guards against re-entrant processing of the same path.
	pending map[string]bool
}

func New(opts Options) *Resolver {
	if opts.Cache == nil {
		opts.Cache = NewCache()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Resolver{
		fs:      opts.FS,
		process: opts.Process,
		cache:   opts.Cache,
		log:     opts.Logger.Named("resolver"),
		pending: make(map[string]bool),
	}
}

func (r *Resolver) Cache() *Cache { return r.cache }

// Meta returns the processed stylesheet at path, processing it on a cache
// miss. It returns nil when the file cannot be read or processed.
func (r *Resolver) Meta(path string) *meta.Meta {
	if m, ok := r.cache.Get(path); ok {
		return m
	}
	if r.pending[path] || r.fs == nil || r.process == nil {
		return nil
	}
	content, err := r.fs.ReadFile(path)
	if err != nil {
		r.log.Debug("read failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	r.pending[path] = true
	defer delete(r.pending, path)
	m, err := r.process(path, content)
	if err != nil {
		r.log.Debug("process failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	r.cache.Put(path, m)
	return m
}

// targetPath is the absolute path an import points to, or "" when the
// package request cannot be located.
func (r *Resolver) targetPath(imp *symbols.Imported) string {
	if !imp.IsPackageRequest() {
		return imp.From
	}
	if r.fs == nil {
		return ""
	}
	p, err := r.fs.ResolveModule(imp.Context, imp.Request)
	if err != nil {
		r.log.Debug("module not resolved", zap.String("request", imp.Request), zap.Error(err))
		return ""
	}
	return p
}

// IsStylesheet reports whether path names a CSS file.
func IsStylesheet(path string) bool {
	return strings.HasSuffix(path, ".css")
}

// ResolveImported resolves name in the main bucket of the imported sheet.
// An empty name resolves the file itself. The result is nil when the file
// is missing or the sheet does not define name.
func (r *Resolver) ResolveImported(imp *symbols.Imported, name string) *Result {
	return r.ResolveImportedIn(imp, name, symbols.NSMain)
}

// ResolveImportedIn is ResolveImported for a typed bucket.
func (r *Resolver) ResolveImportedIn(imp *symbols.Imported, name string, ns symbols.Namespace) *Result {
	p := r.targetPath(imp)
	if p == "" {
		return nil
	}
	if !IsStylesheet(p) {
		if r.fs == nil {
			return nil
		}
		if _, err := r.fs.ReadFile(p); err != nil {
			return nil
		}
		return &Result{Kind: OriginJS, Path: p}
	}
	m := r.Meta(p)
	if m == nil {
		return nil
	}
	if name == "" {
		return &Result{Kind: OriginCSS, Meta: m, Path: p}
	}
	sym := m.Symbols.Get(ns, name)
	if sym == nil {
		return nil
	}
	return &Result{Kind: OriginCSS, Meta: m, Symbol: sym, Path: p}
}

// resolveImportSymbol resolves what one import symbol points at. Default
// imports point at the root class.
func (r *Resolver) resolveImportSymbol(sym *symbols.Symbol, ns symbols.Namespace) *Result {
	name := sym.Name
	if sym.ImportType == symbols.ImportDefault {
		name = meta.RootClass
		ns = symbols.NSMain
	}
	return r.ResolveImportedIn(sym.Import, name, ns)
}

// ResolveSymbolOrigin follows import aliases until a symbol defined in its
// own sheet is reached. Revisiting a sheet ends with an unresolved result
// whose reason is ReasonCycle.
func (r *Resolver) ResolveSymbolOrigin(m *meta.Meta, sym *symbols.Symbol) *Result {
	return r.origin(m, sym, make(map[string]bool))
}

func (r *Resolver) origin(m *meta.Meta, sym *symbols.Symbol, visited map[string]bool) *Result {
	if sym == nil {
		return &Result{Kind: OriginUnresolved, Meta: m, Reason: ReasonMissingSymbol}
	}
	if visited[m.Source] {
		return &Result{Kind: OriginUnresolved, Meta: m, Symbol: sym, Reason: ReasonCycle}
	}
	visited[m.Source] = true
	imp := sym.ImportOf()
	if imp == nil {
		return &Result{Kind: OriginCSS, Meta: m, Symbol: sym, Path: m.Source}
	}
	ns := sym.Kind.Namespace()
	res := r.resolveImportSymbol(imp, ns)
	if res == nil {
		reason := ReasonMissingSymbol
		if r.ResolveImported(imp.Import, "") == nil {
			reason = ReasonMissingFile
		}
		return &Result{Kind: OriginUnresolved, Meta: m, Symbol: sym, Reason: reason}
	}
	if res.Kind == OriginJS {
		return res
	}
	return r.origin(res.Meta, res.Symbol, visited)
}

// DeepResolve is ResolveSymbolOrigin restricted to stylesheet results; it
// returns nil for JS and unresolved origins.
func (r *Resolver) DeepResolve(m *meta.Meta, sym *symbols.Symbol) *Result {
	res := r.ResolveSymbolOrigin(m, sym)
	if res.Kind != OriginCSS {
		return nil
	}
	return res
}

// ResolveName deep-resolves a local name of bucket ns.
func (r *Resolver) ResolveName(m *meta.Meta, name string, ns symbols.Namespace) *Result {
	sym := m.Symbols.Get(ns, name)
	if sym == nil {
		return nil
	}
	return r.DeepResolve(m, sym)
}

// Link is one step of an -st-extends chain.
type Link struct {
	Meta   *meta.Meta
	Symbol *symbols.Symbol
}

// ResolveExtends returns the class or element chain starting at name. Imported
// links are replaced by their origin; an alias that cannot be resolved ends
// the chain with the local symbol. The second result reports a cycle.
func (r *Resolver) ResolveExtends(m *meta.Meta, name string) ([]Link, bool) {
	sym := m.Symbols.Lookup(name)
	if sym == nil {
		return nil, false
	}
	var chain []Link
	seen := make(map[*symbols.Symbol]bool)
	curMeta, cur := m, sym
	for cur != nil {
		if cur.ImportOf() != nil {
			res := r.DeepResolve(curMeta, cur)
			if res == nil {
				if cur.Kind != symbols.KindImport {
					chain = append(chain, Link{Meta: curMeta, Symbol: cur})
				}
				break
			}
			curMeta, cur = res.Meta, res.Symbol
			continue
		}
		if cur.Kind != symbols.KindClass && cur.Kind != symbols.KindElement {
			break
		}
		if seen[cur] {
			return chain, true
		}
		seen[cur] = true
		chain = append(chain, Link{Meta: curMeta, Symbol: cur})
		cur = cur.Extends
	}
	return chain, false
}
