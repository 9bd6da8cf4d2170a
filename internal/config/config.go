// Package config loads stylc.toml, the project file of a stylesheet tree.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"stylc/internal/namespace"
)

// FileName is the project file looked up from the working directory.
const FileName = "stylc.toml"

// Namespace strategies.
const (
	StrategyHash    = "hash"
	StrategyName    = "name"
	StrategyPackage = "package"
)

// Log levels.
const (
	LogNone   = "none"
	LogNormal = "normal"
	LogDebug  = "debug"
)

type Config struct {
	// Path of the decoded file; empty for defaults.
	Path string `toml:"-"`
	// Root is the directory relative paths are resolved against.
	Root string `toml:"-"`

	Build     BuildConfig     `toml:"build"`
	Namespace NamespaceConfig `toml:"namespace"`
	Log       LogConfig       `toml:"log"`
}

type BuildConfig struct {
	Src       string   `toml:"src"`
	Out       string   `toml:"out"`
	Include   []string `toml:"include"`
	Exclude   []string `toml:"exclude"`
	Jobs      int      `toml:"jobs"`
	DiskCache bool     `toml:"disk_cache"`
}

type NamespaceConfig struct {
	Strategy string `toml:"strategy"`
	Package  string `toml:"package"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used without a project file.
func Default(root string) *Config {
	return &Config{
		Root: root,
		Build: BuildConfig{
			Src:     ".",
			Out:     "dist",
			Include: []string{"**/*.st.css"},
			Exclude: []string{"**/node_modules/**"},
		},
		Namespace: NamespaceConfig{Strategy: StrategyHash},
		Log:       LogConfig{Level: LogNormal},
	}
}

// Find walks up from startDir looking for stylc.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the project file above startDir. Without one it
// returns the defaults rooted at startDir and found=false.
func Load(startDir string) (cfg *Config, found bool, err error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, false, err
		}
		return Default(root), false, nil
	}
	cfg, err = Decode(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Decode reads path over the defaults and validates the result.
func Decode(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg := Default(filepath.Dir(abs))
	meta, err := toml.DecodeFile(abs, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", abs, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", abs, strings.Join(keys, ", "))
	}
	cfg.Path = abs
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	return cfg, nil
}

// Validate checks value ranges and glob syntax.
func (c *Config) Validate() error {
	switch c.Namespace.Strategy {
	case StrategyHash, StrategyName:
	case StrategyPackage:
		if strings.TrimSpace(c.Namespace.Package) == "" {
			return errors.New(`[namespace].package is required by strategy "package"`)
		}
	default:
		return fmt.Errorf("[namespace].strategy must be hash, name or package, got %q", c.Namespace.Strategy)
	}
	switch c.Log.Level {
	case LogNone, LogNormal, LogDebug:
	default:
		return fmt.Errorf("[log].level must be none, normal or debug, got %q", c.Log.Level)
	}
	if c.Build.Jobs < 0 {
		return fmt.Errorf("[build].jobs must not be negative, got %d", c.Build.Jobs)
	}
	if strings.TrimSpace(c.Build.Src) == "" {
		return errors.New("[build].src must not be empty")
	}
	for _, pattern := range append(append([]string(nil), c.Build.Include...), c.Build.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("[build]: invalid glob pattern %q", pattern)
		}
	}
	return nil
}

// SrcDir is the absolute source directory.
func (c *Config) SrcDir() string { return c.abs(c.Build.Src) }

// OutDir is the absolute output directory.
func (c *Config) OutDir() string { return c.abs(c.Build.Out) }

func (c *Config) abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, filepath.FromSlash(p))
}

// NamespaceResolver returns the namespace function of the configured
// strategy. Package hashes are relative to Root.
func (c *Config) NamespaceResolver() namespace.ResolveFunc {
	switch c.Namespace.Strategy {
	case StrategyName:
		return namespace.Plain
	case StrategyPackage:
		return namespace.Package(c.Namespace.Package, filepath.ToSlash(c.Root))
	}
	return namespace.Default
}

// CacheSalt identifies the namespace strategy in cache keys.
func (c *Config) CacheSalt() string {
	return c.Namespace.Strategy + ":" + c.Namespace.Package + ":" + filepath.ToSlash(c.Root)
}
