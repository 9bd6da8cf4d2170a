// Package logging builds the console logger shared by the CLI commands.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"stylc/internal/config"
)

type Options struct {
	// Level is one of config.LogNone, config.LogNormal or config.LogDebug.
	Level string
	// Out receives info and debug entries, Err warnings and errors.
	// Both default to os.Stderr so stdout stays free for compiler output.
	Out io.Writer
	Err io.Writer
	// Color forces the coloured level encoder; when nil it is enabled for
	// terminals only.
	Color *bool
}

// EnableColorOutput reports whether w is a terminal.
func EnableColorOutput(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func encoder(w io.Writer, force *bool) zapcore.Encoder {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	color := EnableColorOutput(w)
	if force != nil {
		color = *force
	}
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

// New returns the logger for opts.Level. Level "none" yields a no-op logger.
func New(opts Options) *zap.Logger {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	var lowest zapcore.Level
	switch opts.Level {
	case config.LogDebug:
		lowest = zapcore.DebugLevel
	case config.LogNormal, "":
		lowest = zapcore.InfoLevel
	default:
		return zap.NewNop()
	}

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.WarnLevel
	})
	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lowest <= lvl && lvl < zapcore.WarnLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder(opts.Out, opts.Color), zapcore.AddSync(opts.Out), lowPriority),
		zapcore.NewCore(encoder(opts.Err, opts.Color), zapcore.AddSync(opts.Err), highPriority),
	)
	return zap.New(core).Named("stylc")
}
