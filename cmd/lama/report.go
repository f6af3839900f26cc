package main

import (
	"fmt"

	"github.com/Veraticus/financelama/internal/cli"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Group transactions into named reports",
		Long: `A report groups transactions under one name, e.g. a holiday. The view shows
each report as a single summary row dated on its earliest transaction.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <name> <rows...>",
		Short: "Label rows with a report name",
		Long: `Label rows with a report name. Rows are given as ids or inclusive ranges;
using an existing name adds the rows to that report.

Examples:
  lama report set urlaub 617-620
  lama report set urlaub 630 633,640-642`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelector(args[1:])
			if err != nil {
				return err
			}

			p, _, cleanup, err := initPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := p.SetReport(cmd.Context(), args[0], sel)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %d rows to %s", n, args[0])))
			return nil
		},
	})

	return cmd
}
