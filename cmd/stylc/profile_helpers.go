package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stylc/internal/prof"
)

var profiling *prof.Session

// startProfiling inspects the persistent profiling flags and enables the
// corresponding profilers.
func startProfiling(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	profiling, err = prof.Start(opts)
	return err
}

// stopProfiling is idempotent; main calls it again when a command failed
// and the post-run hook was skipped.
func stopProfiling(*cobra.Command, []string) error {
	err := profiling.Stop()
	profiling = nil
	return err
}
