package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stylc/internal/driver"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <file.st.css>",
	Short: "Compile one stylesheet and print the CSS",
	Long: `Compile one stylesheet. The CSS goes to stdout (or --out), diagnostics
to stderr. --exports writes the exports map as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringP("out", "o", "", "write CSS to file instead of stdout")
	compileCmd.Flags().String("exports", "", "write the exports JSON to file (- for stdout)")
	addReportFlags(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	path, err := absPath(args[0])
	if err != nil {
		return err
	}
	p, err := loadProject(cmd, parentDir(path))
	if err != nil {
		return err
	}
	defer func() { _ = p.close() }()
	report, err := readReportOptions(cmd, p, os.Args[1:])
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	exportsPath, err := cmd.Flags().GetString("exports")
	if err != nil {
		return fmt.Errorf("failed to get exports flag: %w", err)
	}

	c := newCompiler(p)
	r, err := c.Compile(path)
	if err != nil {
		return err
	}
	units := unitsOf([]*driver.FileResult{r}, report)
	if err := writeDiagnostics(cmd.ErrOrStderr(), units, report); err != nil {
		return err
	}
	if p.timings && report.format == "pretty" {
		fmt.Fprint(cmd.ErrOrStderr(), p.timer.Summary())
	}

	if outPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), r.CSS)
	} else if err := os.WriteFile(outPath, []byte(r.CSS), 0o644); err != nil {
		return err
	}
	if exportsPath != "" {
		data, err := json.MarshalIndent(r.Exports, "", "  ")
		if err != nil {
			return fmt.Errorf("encode exports: %w", err)
		}
		data = append(data, '\n')
		if exportsPath == "-" {
			_, err = cmd.OutOrStdout().Write(data)
		} else {
			err = os.WriteFile(exportsPath, data, 0o644)
		}
		if err != nil {
			return err
		}
	}
	if failed(units, report) {
		return errFailed
	}
	return nil
}
