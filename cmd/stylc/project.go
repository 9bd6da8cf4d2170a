package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stylc/internal/config"
	"stylc/internal/driver"
	"stylc/internal/logging"
	"stylc/internal/observ"
	"stylc/internal/trace"
)

// project is the loaded configuration plus everything derived from flags.
type project struct {
	cfg     *config.Config
	log     *zap.Logger
	timer   *observ.Timer
	timings bool
	color   bool
	tracer  trace.Tracer
}

// loadProject reads --config or searches stylc.toml upwards from dir and
// applies the persistent flags on top.
func loadProject(cmd *cobra.Command, dir string) (*project, error) {
	flags := cmd.Root().PersistentFlags()
	cfgPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg *config.Config
	switch {
	case cfgPath != "":
		cfg, err = config.Decode(cfgPath)
	default:
		if dir == "" {
			if dir, err = os.Getwd(); err != nil {
				return nil, err
			}
		}
		cfg, _, err = config.Load(dir)
	}
	if err != nil {
		return nil, err
	}

	if cmd.Root().PersistentFlags().Changed("log-level") {
		if cfg.Log.Level, err = flags.GetString("log-level"); err != nil {
			return nil, fmt.Errorf("failed to get log-level flag: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	color, err := useColor(cmd)
	if err != nil {
		return nil, err
	}

	tracer, err := setupTracing(cmd)
	if err != nil {
		return nil, err
	}

	p := &project{
		cfg:     cfg,
		log:     logging.New(logging.Options{Level: cfg.Log.Level, Err: cmd.ErrOrStderr(), Out: cmd.ErrOrStderr()}),
		timings: timings,
		color:   color,
		tracer:  tracer,
	}
	if timings {
		p.timer = observ.NewTimer()
	}
	if cfg.Path != "" {
		p.log.Debug("config loaded", zap.String("path", cfg.Path))
	}
	return p, nil
}

// compilerOptions builds the driver options shared by every command.
func (p *project) compilerOptions(diskCache bool) driver.Options {
	opts := driver.Options{
		Namespace: p.cfg.NamespaceResolver(),
		CacheSalt: p.cfg.CacheSalt(),
		Logger:    p.log,
		Timer:     p.timer,
		Timings:   p.timings,
		Observer:  traceObserver(p.tracer),
	}
	if diskCache || p.cfg.Build.DiskCache {
		dc, err := driver.OpenDiskCache("stylc")
		if err != nil {
			p.log.Warn("disk cache disabled", zap.Error(err))
		} else {
			opts.DiskCache = dc
		}
	}
	return opts
}

// close flushes the logger and the tracer.
func (p *project) close() error {
	_ = p.log.Sync()
	return p.tracer.Close()
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(abs), nil
}

func parentDir(p string) string {
	return filepath.ToSlash(filepath.Dir(p))
}

func newCompiler(p *project) *driver.Compiler {
	return driver.NewCompiler(p.compilerOptions(false))
}
