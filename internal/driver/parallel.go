package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultInclude matches every stylesheet of the dialect.
var DefaultInclude = []string{"**/*.st.css"}

// BuildOptions configures BuildDir.
type BuildOptions struct {
	Src     string
	Out     string // outputs are skipped when empty
	Include []string
	Exclude []string
	// Jobs bounds the number of workers; GOMAXPROCS when <= 0.
	Jobs int
	// Compiler is the template every worker Compiler is created from.
	Compiler Options
}

// BuildResult содержит результаты сборки каталога, отсортированные по пути.
type BuildResult struct {
	Files   []*FileResult
	Written []string
}

// HasErrors reports whether any file has error diagnostics.
func (r *BuildResult) HasErrors() bool {
	for _, f := range r.Files {
		if f != nil && f.HasErrors() {
			return true
		}
	}
	return false
}

// ListFiles возвращает отсортированный список стилей в src, которые
// подходят под include и не подходят под exclude. Пути абсолютные.
func ListFiles(src string, include, exclude []string) ([]string, error) {
	root, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, pattern := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && matchAny(exclude, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if matchAny(include, rel) && !matchAny(exclude, rel) {
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// outputExcluded adds the output directory to the exclude list when it
// lies inside src, so a rebuild does not pick up its own outputs.
func outputExcluded(opts BuildOptions) []string {
	exclude := append([]string(nil), opts.Exclude...)
	if opts.Out == "" {
		return exclude
	}
	src, err1 := filepath.Abs(opts.Src)
	out, err2 := filepath.Abs(opts.Out)
	if err1 != nil || err2 != nil {
		return exclude
	}
	rel, err := filepath.Rel(src, out)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return exclude
	}
	return append(exclude, filepath.ToSlash(rel)+"/**")
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

// BuildDir compiles every listed stylesheet in parallel and writes
// <out>/<rel>.css plus <out>/<rel>.json with the exports, where rel is the
// source path relative to src without ".css". Per-file failures are
// collected into the returned error; the results of the other files are
// still returned.
func BuildDir(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	files, err := ListFiles(opts.Src, opts.Include, outputExcluded(opts))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", opts.Src, err)
	}
	root, err := filepath.Abs(opts.Src)
	if err != nil {
		return nil, err
	}
	root = filepath.ToSlash(root)
	result := &BuildResult{Files: make([]*FileResult, len(files))}
	if len(files) == 0 {
		return result, nil
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(files))
	pool := make(chan *Compiler, jobs)
	for range jobs {
		pool <- NewCompiler(opts.Compiler)
	}
	log := opts.Compiler.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("build")

	// Ошибки и выходы по индексу файла, мьютекс не нужен
	errs := make([]error, len(files))
	written := make([][]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			c := <-pool
			defer func() { pool <- c }()

			r, err := c.Compile(path)
			if err != nil {
				errs[i] = err
				return nil
			}
			result.Files[i] = r
			if opts.Out == "" {
				return nil
			}
			rel := strings.TrimSuffix(strings.TrimPrefix(path, root+"/"), ".css")
			written[i], errs[i] = c.writeOutputs(opts.Out, rel, r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	kept := result.Files[:0]
	for i, r := range result.Files {
		if r != nil {
			kept = append(kept, r)
		}
		result.Written = append(result.Written, written[i]...)
	}
	result.Files = kept
	log.Debug("build finished",
		zap.Int("files", len(files)),
		zap.Int("compiled", len(kept)),
		zap.Int("jobs", jobs),
	)
	return result, multierr.Combine(errs...)
}

func (c *Compiler) writeOutputs(out, rel string, r *FileResult) (paths []string, err error) {
	end := c.phase(nil, r.Path, PhasePrint)
	defer end()
	exports, err := json.MarshalIndent(r.Exports, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode exports of %s: %w", r.Path, err)
	}
	cssPath := filepath.Join(out, filepath.FromSlash(rel)+".css")
	jsonPath := filepath.Join(out, filepath.FromSlash(rel)+".json")
	if err := os.MkdirAll(filepath.Dir(cssPath), 0o755); err != nil {
		return nil, err
	}
	err = multierr.Append(
		writeFile(cssPath, []byte(r.CSS)),
		writeFile(jsonPath, append(exports, '\n')),
	)
	if err != nil {
		return nil, err
	}
	return []string{cssPath, jsonPath}, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

