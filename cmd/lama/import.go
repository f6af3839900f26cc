package main

import (
	"fmt"
	"path/filepath"

	"github.com/Veraticus/financelama/internal/cli"
	"github.com/Veraticus/financelama/internal/pipeline"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files or directories...]",
		Short: "Import bank exports",
		Long: `Import transactions from bank exports. Each file's layout is detected from
its first line; rows already in the database are skipped, so overlapping
exports can be imported again safely.

Examples:
  # Import a single export
  lama import ~/Downloads/1234567890.csv

  # Import every file in a directory
  lama import ~/bank/2023

  # Preview without saving
  lama import --dry-run ~/Downloads/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), "Import")
	defer handler.Stop()

	p, _, cleanup, err := initPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	files, err := pipeline.ExpandPaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	var onFile func(pipeline.FileResult)
	if !noProgress && len(files) > 1 {
		progress := cli.NewImportProgress(cmd.ErrOrStderr(), len(files))
		defer progress.Finish()
		onFile = func(r pipeline.FileResult) { progress.Advance(r.Path) }
	}

	batch, err := p.ImportPaths(ctx, files, dryRun, onFile)
	if err != nil && !handler.WasInterrupted() {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	for _, f := range batch.Files {
		name := filepath.Base(f.Path)
		switch {
		case f.Skipped():
			fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%s: unknown format, skipped", name)))
		case f.Failed():
			fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("%s: %v", name, f.Err)))
		default:
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s (%s): %d/%d new, %d dropped",
				name, f.Format, f.Inserted, f.Read, f.Dropped)))
		}
	}

	verb := "Imported"
	if dryRun {
		verb = "Dry run, nothing saved. Would import"
	}
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%s %d/%d transactions from %d files",
		verb, batch.Inserted(), batch.Read(), len(batch.Files))))

	if failed := len(batch.Errors()); failed > 0 {
		return fmt.Errorf("%d of %d files were not imported", failed, len(batch.Files))
	}
	return nil
}
