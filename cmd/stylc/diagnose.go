package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"stylc/internal/driver"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.st.css|directory>",
	Short: "Run diagnostics on a stylesheet or directory",
	Long:  `Analyse and transform stylesheets without writing outputs and report every diagnostic`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	addReportFlags(diagCmd)
}

// runDiagnose проверяет файл или каталог и печатает диагностики в
// выбранном формате. Код выхода 1, если есть ошибки.
func runDiagnose(cmd *cobra.Command, args []string) error {
	target, err := absPath(args[0])
	if err != nil {
		return err
	}
	st, err := os.Stat(target)
	if err != nil {
		return err
	}
	dir := target
	if !st.IsDir() {
		dir = parentDir(target)
	}
	p, err := loadProject(cmd, dir)
	if err != nil {
		return err
	}
	defer func() { _ = p.close() }()
	report, err := readReportOptions(cmd, p, os.Args[1:])
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	var results []*driver.FileResult
	var runErr error
	if st.IsDir() {
		res, err := driver.BuildDir(cmd.Context(), driver.BuildOptions{
			Src:      target,
			Include:  p.cfg.Build.Include,
			Exclude:  p.cfg.Build.Exclude,
			Jobs:     jobs,
			Compiler: p.compilerOptions(false),
		})
		if res == nil || errors.Is(err, context.Canceled) {
			return err
		}
		results, runErr = res.Files, err
	} else {
		r, err := newCompiler(p).Compile(target)
		if err != nil {
			return err
		}
		results = []*driver.FileResult{r}
	}
	traceResults(p.tracer, results)
	for _, e := range multierr.Errors(runErr) {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", e)
	}

	units := unitsOf(results, report)
	if err := writeDiagnostics(cmd.OutOrStdout(), units, report); err != nil {
		return err
	}
	if p.timings && report.format == "pretty" {
		fmt.Fprint(cmd.ErrOrStderr(), p.timer.Summary())
	}
	if runErr != nil || failed(units, report) {
		return errFailed
	}
	return nil
}
