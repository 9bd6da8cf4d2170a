package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"stylc/internal/diag"
	"stylc/internal/diagfmt"
	"stylc/internal/driver"
	"stylc/internal/version"
)

type reportOptions struct {
	format           string
	withNotes        bool
	fullPath         bool
	noWarnings       bool
	warningsAsErrors bool
	max              int
	color            bool
	args             []string
}

// addReportFlags registers the diagnostic output flags shared by build,
// compile and diag.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|sarif|short)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
}

func readReportOptions(cmd *cobra.Command, p *project, args []string) (reportOptions, error) {
	opts := reportOptions{color: p.color, args: args}
	var err error
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch opts.format {
	case "pretty", "json", "sarif", "short":
	default:
		return opts, fmt.Errorf("unknown format %q (must be pretty, json, sarif or short)", opts.format)
	}
	if opts.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if opts.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return opts, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if opts.noWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return opts, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if opts.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if opts.noWarnings && opts.warningsAsErrors {
		return opts, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if opts.max, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return opts, nil
}

// unitsOf collects the diagnostics of every result, dropping warnings
// when asked to.
func unitsOf(results []*driver.FileResult, opts reportOptions) []diagfmt.Unit {
	units := make([]diagfmt.Unit, 0, len(results))
	for _, r := range results {
		if r == nil || r.Diagnostics == nil {
			continue
		}
		bag := r.Diagnostics
		if opts.noWarnings {
			bag = diag.NewBag(0)
			for _, d := range r.Diagnostics.Items() {
				if d.Severity != diag.SevWarning {
					bag.Add(d)
				}
			}
		}
		units = append(units, diagfmt.Unit{Bag: bag, Files: r.Files})
	}
	return units
}

// limitUnits cuts the units down to limit diagnostics in total.
func limitUnits(units []diagfmt.Unit, limit int) []diagfmt.Unit {
	if limit <= 0 {
		return units
	}
	out := make([]diagfmt.Unit, 0, len(units))
	left := limit
	for _, u := range units {
		if left <= 0 {
			break
		}
		bag := diag.NewBag(left)
		for _, d := range u.Bag.Items() {
			if !bag.Add(d) {
				break
			}
		}
		left -= bag.Len()
		out = append(out, diagfmt.Unit{Bag: bag, Files: u.Files})
	}
	return out
}

func writeDiagnostics(w io.Writer, units []diagfmt.Unit, opts reportOptions) error {
	pathMode := diagfmt.PathModeAuto
	if opts.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	switch opts.format {
	case "json":
		return diagfmt.JSONBatch(w, units, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              opts.max,
			IncludeNotes:     opts.withNotes,
		})
	case "sarif":
		return diagfmt.SarifBatch(w, limitUnits(units, opts.max), diagfmt.SarifRunMeta{
			ToolName:       "stylc",
			ToolVersion:    version.Version,
			InvocationArgs: opts.args,
		})
	case "short":
		for _, u := range limitUnits(units, opts.max) {
			if err := diagfmt.Short(w, u.Bag, u.Files, opts.withNotes); err != nil {
				return err
			}
		}
		return nil
	}
	prettyOpts := diagfmt.PrettyOpts{
		Color:     opts.color,
		Context:   1,
		PathMode:  pathMode,
		ShowNotes: opts.withNotes,
	}
	for _, u := range limitUnits(units, opts.max) {
		diagfmt.Pretty(w, u.Bag, u.Files, prettyOpts)
	}
	return nil
}

// counts returns the number of error and warning diagnostics.
func counts(units []diagfmt.Unit) (errors, warnings int) {
	for _, u := range units {
		for _, d := range u.Bag.Items() {
			switch d.Severity {
			case diag.SevError:
				errors++
			case diag.SevWarning:
				warnings++
			}
		}
	}
	return errors, warnings
}

// failed reports whether the diagnostics should fail the command.
func failed(units []diagfmt.Unit, opts reportOptions) bool {
	errors, warnings := counts(units)
	return errors > 0 || opts.warningsAsErrors && warnings > 0
}
