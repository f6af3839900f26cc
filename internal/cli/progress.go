package cli

import (
	"io"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
)

// ImportProgress shows a per-file progress bar during multi-file imports.
type ImportProgress struct {
	bar *progressbar.ProgressBar
}

// NewImportProgress creates a progress bar over total files writing to w.
func NewImportProgress(w io.Writer, total int) *ImportProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing files...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(w, "\n")
		}),
	)
	return &ImportProgress{bar: bar}
}

// Advance marks one file as processed.
func (p *ImportProgress) Advance(path string) {
	p.bar.Describe("[cyan][bold]" + filepath.Base(path) + "[reset]")
	_ = p.bar.Add(1)
}

// Finish completes the bar.
func (p *ImportProgress) Finish() {
	_ = p.bar.Finish()
}
