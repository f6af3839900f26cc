package main

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/Veraticus/financelama/internal/cli"
	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/report"
	"github.com/Veraticus/financelama/internal/service"
	"github.com/spf13/cobra"
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().StringSlice("account", nil, "only these accounts (repeatable)")
}

func filterFromFlags(cmd *cobra.Command) (service.TransactionFilter, error) {
	var filter service.TransactionFilter

	parse := func(flag string) (*civil.Date, error) {
		raw, _ := cmd.Flags().GetString(flag)
		if raw == "" {
			return nil, nil
		}
		d, err := civil.ParseDate(raw)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("invalid --%s date", flag), err)
		}
		return &d, nil
	}

	var err error
	if filter.StartDate, err = parse("from"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = parse("to"); err != nil {
		return filter, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, &common.UserError{UserMessage: "--to is before --from"}
	}
	filter.Accounts, _ = cmd.Flags().GetStringSlice("account")
	return filter, nil
}

func viewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show transactions with reports collapsed",
		Long: `Show stored transactions in day order. Transactions that belong to a report
are replaced by one summary row per report, listed after the other rows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}
			filter.Uncategorized, _ = cmd.Flags().GetBool("uncategorized")

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
				fmt.Fprintln(out, cli.FormatInfo("No transactions found. Use 'lama import' to add some."))
				return nil
			}

			fmt.Fprintln(out, cli.RenderTransactions(rows))
			fmt.Fprintf(out, "%d rows, total %s\n", len(rows), cli.Amount(report.Sum(rows)))
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().Bool("uncategorized", false, "only rows without a category")

	return cmd
}
