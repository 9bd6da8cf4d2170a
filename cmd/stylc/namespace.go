package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var namespaceCmd = &cobra.Command{
	Use:   "namespace <file.st.css>...",
	Short: "Print the resolved namespace of stylesheets",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNamespace,
}

func runNamespace(cmd *cobra.Command, args []string) error {
	first, err := absPath(args[0])
	if err != nil {
		return err
	}
	p, err := loadProject(cmd, parentDir(first))
	if err != nil {
		return err
	}
	defer func() { _ = p.close() }()

	c := newCompiler(p)
	for _, arg := range args {
		path, err := absPath(arg)
		if err != nil {
			return err
		}
		m, err := c.Analyze(path)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			fmt.Fprintln(cmd.OutOrStdout(), m.Namespace)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", arg, m.Namespace)
	}
	return nil
}
