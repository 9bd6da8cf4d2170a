package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"stylc/internal/driver"
	"stylc/internal/trace"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [project-dir]",
	Short: "Compile every stylesheet of a project directory",
	Long: `Compile every stylesheet matched by [build].include into the output
directory. Each stylesheet produces <name>.css and <name>.json with its exports.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "", "output directory, overrides [build].out")
	buildCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto), overrides [build].jobs")
	buildCmd.Flags().Bool("disk-cache", false, "enable persistent disk cache of compiled stylesheets")
	buildCmd.Flags().Bool("no-emit", false, "compile without writing outputs")
	buildCmd.Flags().Bool("quiet", false, "do not print the build summary")
	addReportFlags(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := ""
	if len(args) == 1 {
		dir = args[0]
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

	src, out := p.cfg.SrcDir(), p.cfg.OutDir()
	if cmd.Flags().Changed("out") {
		if out, err = cmd.Flags().GetString("out"); err != nil {
			return fmt.Errorf("failed to get out flag: %w", err)
		}
	}
	jobs := p.cfg.Build.Jobs
	if cmd.Flags().Changed("jobs") {
		if jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	noEmit, err := cmd.Flags().GetBool("no-emit")
	if err != nil {
		return fmt.Errorf("failed to get no-emit flag: %w", err)
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	opts := driver.BuildOptions{
		Src:      src,
		Out:      out,
		Include:  p.cfg.Build.Include,
		Exclude:  p.cfg.Build.Exclude,
		Jobs:     jobs,
		Compiler: p.compilerOptions(diskCache),
	}
	if noEmit {
		opts.Out = ""
	}
	p.log.Debug("build started", zap.String("src", src), zap.String("out", opts.Out), zap.Int("jobs", jobs))

	span := trace.Begin(p.tracer, trace.ScopeBuild, "build", src)
	res, buildErr := driver.BuildDir(cmd.Context(), opts)
	if res == nil || errors.Is(buildErr, context.Canceled) {
		span.End("failed")
		return buildErr
	}
	traceResults(p.tracer, res.Files)
	elapsed := span.End(fmt.Sprintf("%d files", len(res.Files)))
	// Ошибки чтения и записи идут в stderr, stdout остаётся за диагностиками
	for _, e := range multierr.Errors(buildErr) {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", e)
	}

	units := unitsOf(res.Files, report)
	if err := writeDiagnostics(cmd.OutOrStdout(), units, report); err != nil {
		return err
	}
	isFailed := buildErr != nil || failed(units, report)
	if p.timings && report.format == "pretty" {
		fmt.Fprint(cmd.ErrOrStderr(), p.timer.Summary())
	}
	if !quiet && report.format == "pretty" {
		errs, warns := counts(units)
		summary := buildSummary{
			Files:    len(res.Files),
			Written:  len(res.Written),
			Out:      opts.Out,
			Errors:   errs,
			Warnings: warns,
			Elapsed:  elapsed,
			Failed:   isFailed,
		}
		for _, r := range res.Files {
			if r.Cached {
				summary.Cached++
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), summary.render(cmd.OutOrStdout(), p.color))
	}
	if isFailed {
		return errFailed
	}
	return nil
}
