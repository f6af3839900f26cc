package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/financelama/internal/common"
)

// FileResult is the outcome of importing one file.
type FileResult struct {
	Err      error
	Path     string
	Format   string
	ImportID string
	Read     int
	Inserted int
	Dropped  int
	DryRun   bool
}

// Skipped reports whether the file was not recognized.
func (r FileResult) Skipped() bool {
	var unknown *common.UnknownFormatError
	return errors.As(r.Err, &unknown)
}

// Failed reports whether the file was recognized but could not be imported.
func (r FileResult) Failed() bool {
	return r.Err != nil && !r.Skipped()
}

// BatchResult collects the outcome of a multi-file import.
type BatchResult struct {
	Files []FileResult
}

// Inserted sums the inserted rows over all files.
func (b *BatchResult) Inserted() int {
	total := 0
	for _, f := range b.Files {
		total += f.Inserted
	}
	return total
}

// Read sums the rows read over all files.
func (b *BatchResult) Read() int {
	total := 0
	for _, f := range b.Files {
		total += f.Read
	}
	return total
}

// Errors returns the files that were skipped or failed.
func (b *BatchResult) Errors() []FileResult {
	var out []FileResult
	for _, f := range b.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// ExpandPaths resolves files, directories and glob patterns into a sorted,
// de-duplicated list of files. Directories contribute their regular files,
// not those of subdirectories.
func ExpandPaths(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, p := range paths {
		if strings.ContainsAny(p, "*?[") {
			matches, err := filepath.Glob(p)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
			}
			if len(matches) == 0 {
				return nil, &common.UserError{UserMessage: fmt.Sprintf("no files match %s", p)}
			}
			sort.Strings(matches)
			for _, m := range matches {
				if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
					add(m)
				}
			}
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
				add(filepath.Join(p, e.Name()))
			}
		}
	}
	return files, nil
}
