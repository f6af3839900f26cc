package main

import (
	"fmt"

	"github.com/Veraticus/financelama/internal/cli"
	"github.com/spf13/cobra"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Assign categories by keyword",
		Long: `Assign a category to every uncategorized transaction by matching the
configured keyword table against orderer and reason. Transactions that match
nothing get the fallback category. With --force, all transactions are
categorized again, replacing manual assignments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")

			p, _, cleanup, err := initPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := p.Categorize(cmd.Context(), force)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Categorized %d transactions", n)))
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Recategorize all transactions")

	return cmd
}

func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage transaction categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <row-id> <category>",
		Short: "Override the category of one transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelector(args[:1])
			if err != nil {
				return err
			}
			if len(sel.IDs) != 1 {
				return fmt.Errorf("expected a single row id, got %q", args[0])
			}

			p, _, cleanup, err := initPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := p.SetCategory(cmd.Context(), sel.IDs[0], args[1]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Row %d is now %s", sel.IDs[0], args[1])))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the keyword table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			categorizer, err := cfg.Categorizer()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range categorizer.Table() {
				fmt.Fprintf(out, "%s %v\n", cli.TableHeaderStyle.Render(c.Name), c.Keywords)
			}
			fmt.Fprintln(out, cli.SubtleStyle.Render("fallback: "+categorizer.Fallback()))
			return nil
		},
	})

	return cmd
}
