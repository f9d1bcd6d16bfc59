// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/expense-ledger/internal/fileutils"
	"fjacquet/expense-ledger/internal/pipeline"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// ExportExtension is the extension of every supported bank export.
const ExportExtension = ".csv"

// ResolveInputs expands args into the ordered list of files to import. A
// directory contributes its *.csv files sorted by name, leaving out the
// files named in exclude (the ledger itself lives next to the exports in the
// usual setup). A file is taken as given. With no args, defaultDir is
// scanned.
func ResolveInputs(fs afero.Fs, args []string, defaultDir string, exclude ...string) ([]string, error) {
	if len(args) == 0 {
		args = []string{defaultDir}
	}

	var skip []string
	for _, e := range exclude {
		if e != "" {
			skip = append(skip, e, filepath.Base(e))
		}
	}

	var paths []string
	for _, arg := range args {
		if fileutils.DirectoryExists(fs, arg) {
			files, err := fileutils.ListFilesWithExtension(fs, arg, ExportExtension, skip...)
			if err != nil {
				return nil, fmt.Errorf("error scanning %s: %w", arg, err)
			}
			paths = append(paths, files...)
			continue
		}
		if !fileutils.FileExists(fs, arg) {
			return nil, fmt.Errorf("input not found: %s", arg)
		}
		paths = append(paths, arg)
	}
	return paths, nil
}

// PrintRunReport writes a human readable account of a pipeline run.
func PrintRunReport(w io.Writer, report *pipeline.Report) {
	for _, f := range report.Files {
		name := filepath.Base(f.Path)
		if f.Err != nil {
			fmt.Fprintf(w, "%s: not imported: %v\n", name, f.Err)
			continue
		}
		fmt.Fprintf(w, "%s (%s): found %d new items", name, f.Format, f.Added)
		if f.Duplicates > 0 || len(f.Skipped) > 0 {
			fmt.Fprintf(w, " (%d already known, %d rows skipped)", f.Duplicates, len(f.Skipped))
		}
		fmt.Fprintln(w)
		for _, s := range f.Skipped {
			fmt.Fprintf(w, "  %v\n", &s)
		}
	}

	if len(report.Files) > 0 {
		fmt.Fprintf(w, "Added %d transactions", report.Added)
		if !report.Range.IsZero() {
			fmt.Fprintf(w, " dated %s", report.Range)
		}
		fmt.Fprintf(w, ", ledger holds %d\n", report.Total)
	}

	if stats := report.Categorization; stats != nil {
		fmt.Fprintf(w, "Categorized %d of %d transactions", stats.Categorized(), stats.Examined)
		if s := stats.Summary(); s != "" {
			fmt.Fprintf(w, " (%s)", s)
		}
		fmt.Fprintln(w)
		if stats.Unresolved > 0 {
			fmt.Fprintf(w, "%d transactions are still unsorted\n", stats.Unresolved)
		}
	}
}

// Context returns the command's context, or a background context when the
// command runs outside Execute.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
