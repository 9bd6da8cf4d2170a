// Package driver compiles stylesheets end to end: reading through a file
// system, analysis, import resolution and transformation, with optional
// result caching and a parallel directory build on top.
package driver

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"stylc/internal/diag"
	"stylc/internal/fsys"
	"stylc/internal/meta"
	"stylc/internal/namespace"
	"stylc/internal/observ"
	"stylc/internal/processor"
	"stylc/internal/resolver"
	"stylc/internal/source"
	"stylc/internal/transform"
)

type Options struct {
	// FS reads stylesheets; fsys.OS when nil.
	FS fsys.FileSystem
	// Namespace computes final namespaces; namespace.Default when nil.
	Namespace namespace.ResolveFunc
	// CacheSalt identifies the namespace strategy in cache keys, since
	// ResolveFunc values cannot be compared.
	CacheSalt string
	MaxErrors uint
	Logger    *zap.Logger
	DiskCache *DiskCache
	// Timer accumulates phase durations over every compiled file.
	Timer    *observ.Timer
	Observer PhaseObserver
	// Timings appends a timing diagnostic to every result.
	Timings bool
}

// FileResult is one compiled stylesheet.
type FileResult struct {
	Path      string
	Namespace string
	// Meta is the analysed stylesheet. Its OutputAST is nil when the
	// result came from a cache.
	Meta    *meta.Meta
	Exports transform.Exports
	CSS     string
	// Diagnostics of this stylesheet sorted by position; spans resolve
	// against Files.
	Diagnostics *diag.Bag
	Files       *source.FileSet
	Digest      Digest
	Cached      bool
}

func (r *FileResult) HasErrors() bool { return r.Diagnostics.HasErrors() }

// Compiler owns one FileSet and one meta cache. It is not safe for
// concurrent use; BuildDir gives every worker its own Compiler.
type Compiler struct {
	opts    Options
	fs      fsys.FileSystem
	files   *source.FileSet
	proc    *processor.Processor
	res     *resolver.Resolver
	results *ResultCache
	log     *zap.Logger
}

func NewCompiler(opts Options) *Compiler {
	if opts.FS == nil {
		opts.FS = fsys.OS{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	files := source.NewFileSet()
	proc := processor.New(files, processor.Options{
		Resolve:   opts.Namespace,
		MaxErrors: opts.MaxErrors,
		Logger:    log.Named("processor"),
	})
	return &Compiler{
		opts:    opts,
		fs:      opts.FS,
		files:   files,
		proc:    proc,
		res:     resolver.New(resolver.Options{FS: opts.FS, Process: proc.Process, Logger: log}),
		results: NewResultCache(16),
		log:     log.Named("driver"),
	}
}

func (c *Compiler) Files() *source.FileSet { return c.files }

func (c *Compiler) Resolver() *resolver.Resolver { return c.res }

// Analyze returns the analysed stylesheet at path, reusing the meta cache.
func (c *Compiler) Analyze(path string) (*meta.Meta, error) {
	if path == "" {
		return nil, processor.ErrMissingSource
	}
	path = fsys.Clean(path)
	if m, ok := c.res.Cache().Get(path); ok {
		return m, nil
	}
	content, err := c.read(path, nil)
	if err != nil {
		return nil, err
	}
	return c.analyze(path, content, nil)
}

// Compile reads and compiles the stylesheet at path.
func (c *Compiler) Compile(path string) (*FileResult, error) {
	if path == "" {
		return nil, processor.ErrMissingSource
	}
	path = fsys.Clean(path)
	timer := c.fileTimer()
	content, err := c.read(path, timer)
	if err != nil {
		return nil, err
	}
	return c.compile(path, content, timer)
}

// CompileSource compiles content as the stylesheet at path; imports are
// still read through the file system.
func (c *Compiler) CompileSource(path, content string) (*FileResult, error) {
	if path == "" {
		return nil, processor.ErrMissingSource
	}
	return c.compile(fsys.Clean(path), content, c.fileTimer())
}

func (c *Compiler) fileTimer() *observ.Timer {
	if !c.opts.Timings {
		return nil
	}
	return observ.NewTimer()
}

func (c *Compiler) read(path string, timer *observ.Timer) (string, error) {
	end := c.phase(timer, path, PhaseRead)
	defer end()
	content, err := c.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}

// analyze processes content and makes it the cached meta of path, so
// stylesheets importing path back resolve to it.
func (c *Compiler) analyze(path, content string, timer *observ.Timer) (*meta.Meta, error) {
	end := c.phase(timer, path, PhaseProcess)
	defer end()
	c.res.Cache().Invalidate(path)
	m, err := c.proc.Process(path, content)
	if err != nil {
		return nil, err
	}
	c.res.Cache().Put(path, m)
	return m, nil
}

func (c *Compiler) compile(path, content string, timer *observ.Timer) (*FileResult, error) {
	m, err := c.analyze(path, content, timer)
	if err != nil {
		return nil, err
	}
	digest := treeDigest(c.res, m, c.opts.CacheSalt)
	if payload, ok := c.lookup(path, digest); ok {
		r := &FileResult{
			Path:        path,
			Namespace:   payload.Namespace,
			Meta:        m,
			Exports:     payload.Exports,
			CSS:         payload.CSS,
			Diagnostics: diskPayloadDiagnostics(payload, m.File),
			Files:       c.files,
			Digest:      digest,
			Cached:      true,
		}
		c.appendTimings(r, timer)
		return r, nil
	}

	end := c.phase(timer, path, PhaseTransform)
	out := transform.Transform(m, transform.Options{Resolver: c.res, Logger: c.log})
	end()

	// Общие селекторы (custom selectors, миксины) обходятся повторно и
	// дают одинаковые диагностики
	bag := diag.NewBag(0)
	dedup := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	for _, d := range m.Diagnostics.Items() {
		dedup.Report(d)
	}
	bag.Sort()
	r := &FileResult{
		Path:        path,
		Namespace:   m.Namespace,
		Meta:        m,
		Exports:     out.Exports,
		CSS:         out.CSS,
		Diagnostics: bag,
		Files:       c.files,
		Digest:      digest,
	}
	c.store(digest, r)
	c.appendTimings(r, timer)
	return r, nil
}

func (c *Compiler) lookup(path string, digest Digest) (*DiskPayload, bool) {
	if payload, ok := c.results.Get(path, digest); ok {
		c.log.Debug("result cache hit", zap.String("path", path))
		return payload, true
	}
	if c.opts.DiskCache == nil {
		return nil, false
	}
	var payload DiskPayload
	ok, err := c.opts.DiskCache.Get(digest, &payload)
	if err != nil {
		c.log.Debug("disk cache read failed", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	if !ok || payload.Path != path {
		c.log.Debug("disk cache miss", zap.String("path", path))
		return nil, false
	}
	c.log.Debug("disk cache hit", zap.String("path", path), zap.Stringer("digest", digest))
	c.results.Put(digest, &payload)
	return &payload, true
}

func (c *Compiler) store(digest Digest, r *FileResult) {
	payload := resultToDiskPayload(r)
	c.results.Put(digest, payload)
	if err := c.opts.DiskCache.Put(digest, payload); err != nil {
		c.log.Debug("disk cache write failed", zap.String("path", r.Path), zap.Error(err))
	}
}

// phase reports the start of name and returns the func that ends it.
func (c *Compiler) phase(timer *observ.Timer, path, name string) func() {
	obs := c.opts.Observer
	if obs != nil {
		obs(PhaseEvent{Path: path, Name: name, Status: PhaseStart})
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		timer.Add(name, d, "")
		c.opts.Timer.Add(name, d, "")
		if obs != nil {
			obs(PhaseEvent{Path: path, Name: name, Status: PhaseEnd, Elapsed: d})
		}
	}
}

func (c *Compiler) appendTimings(r *FileResult, timer *observ.Timer) {
	if timer == nil {
		return
	}
	reportTimings(r.Diagnostics, r.Path, timer.Report())
}

// Invalidate drops path from the meta cache so the next compilation reads
// it again.
func (c *Compiler) Invalidate(path string) {
	c.res.Cache().Invalidate(fsys.Clean(path))
}
