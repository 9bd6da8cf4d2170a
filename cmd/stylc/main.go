package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"stylc/internal/version"
)

// errFailed сигнализирует, что диагностики уже напечатаны и нужен код выхода 1.
var errFailed = errors.New("compilation failed")

var rootCmd = &cobra.Command{
	Use:                "stylc",
	Short:              "Stylesheet compiler with scoped classes, states and mixins",
	Long:               `stylc compiles .st.css stylesheets into namespaced CSS plus a JSON exports map`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  startProfiling,
	PersistentPostRunE: stopProfiling,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(namespaceCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to stylc.toml (default: search upwards)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (none|normal|debug), overrides [log].level")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("trace", "", "stream trace events to file (- for stderr, .ndjson for JSON)")
	rootCmd.PersistentFlags().String("trace-level", "file", "trace verbosity (build|file|phase)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write runtime trace to file")
}

func main() {
	err := rootCmd.Execute()
	if stopErr := stopProfiling(nil, nil); stopErr != nil {
		fmt.Fprintln(os.Stderr, "error:", stopErr)
	}
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag for out.
func useColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		f, ok := cmd.OutOrStdout().(*os.File)
		return ok && isTerminal(f), nil
	default:
		return false, fmt.Errorf("unknown color mode %q (must be auto, on or off)", mode)
	}
}
