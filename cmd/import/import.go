// Package importcmd implements the import command.
package importcmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fjacquet/expense-ledger/cmd/common"
	"fjacquet/expense-ledger/cmd/root"
	"fjacquet/expense-ledger/internal/container"
	"fjacquet/expense-ledger/internal/detector"
	"fjacquet/expense-ledger/internal/pipeline"

	"github.com/spf13/cobra"
)

// Flags of the import command.
type Flags struct {
	Categorize bool
	DryRun     bool
	NoProgress bool
}

var flags Flags

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import [file or directory...]",
	Short: "Import bank exports into the ledger",
	Long: `Import bank exports into the ledger.

Each argument is an export file or a directory whose *.csv files are imported
in name order. Without arguments the configured input directory is scanned.
The ledger file itself is never imported. Transactions already in the ledger
are skipped, so importing the same export twice changes nothing.

The format of an export is recognized from its file name:
` + formatHelp(),
	Example: `  expense-ledger import ~/Downloads
  expense-ledger import --categorize statement_1234_CHF_2024-01-01_2024-01-31.csv`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&flags.Categorize, "categorize", "c", false, "Ask for the category of unsorted transactions after importing")
	Cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Report what would be imported without saving the ledger")
	Cmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Do not show the progress bar")
}

func formatHelp() string {
	var b strings.Builder
	for _, p := range detector.DefaultPatterns() {
		fmt.Fprintf(&b, "  %-10s %s\n", p.Format, p.Example)
	}
	return b.String()
}

func importFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}

	opts := pipeline.Options{Categorize: flags.Categorize, DryRun: flags.DryRun}
	if !flags.NoProgress {
		opts.Progress = cmd.ErrOrStderr()
	}

	_, err = Import(common.Context(cmd), c, args, opts, cmd.OutOrStdout())
	return err
}

// Import resolves args into export files and runs them through the pipeline,
// printing the run report to out. It returns the report even when the run
// stopped on an error after saving.
func Import(ctx context.Context, c *container.Container, args []string, opts pipeline.Options, out io.Writer) (*pipeline.Report, error) {
	cfg := c.GetConfig()
	logger := c.GetLogger()

	paths, err := common.ResolveInputs(c.GetFs(), args, cfg.Input.Directory, cfg.Store.File)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 && !opts.Categorize {
		logger.Warn("No export files found")
		fmt.Fprintln(out, "No export files found")
		return nil, nil
	}

	logger.Debug(fmt.Sprintf("Importing %d files", len(paths)))
	report, err := c.GetPipeline().Run(ctx, paths, opts)
	if report != nil {
		common.PrintRunReport(out, report)
	}
	return report, err
}
