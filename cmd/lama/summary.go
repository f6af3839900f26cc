package main

import (
	"fmt"

	"github.com/Veraticus/financelama/internal/cli"
	"github.com/Veraticus/financelama/internal/report"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show monthly cash flow and spending per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}

			p, _, cleanup, err := initPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			rows, err := p.View(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No transactions found."))
				return nil
			}

			fmt.Fprintln(out, cli.FormatTitle("Monthly cash flow"))
			fmt.Fprintln(out, cli.RenderMonths(report.Monthly(rows)))
			fmt.Fprintln(out)
			fmt.Fprintln(out, cli.FormatTitle("Per category"))
			fmt.Fprintln(out, cli.RenderCategories(report.ByCategory(rows, "(uncategorized)")))
			return nil
		},
	}

	addFilterFlags(cmd)

	return cmd
}
