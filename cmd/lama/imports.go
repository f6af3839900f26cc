package main

import (
	"fmt"

	"github.com/Veraticus/financelama/internal/cli"
	"github.com/spf13/cobra"
)

func importsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "imports",
		Short: "Show the import log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, cleanup, err := initPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := p.Imports(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing imported yet."))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderImports(records))
			return nil
		},
	}
}
