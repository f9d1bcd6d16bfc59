// Package run implements the run command: import, categorize, summarize.
package run

import (
	"context"
	"fmt"
	"io"

	"fjacquet/expense-ledger/cmd/common"
	importcmd "fjacquet/expense-ledger/cmd/import"
	"fjacquet/expense-ledger/cmd/root"
	"fjacquet/expense-ledger/cmd/summary"
	"fjacquet/expense-ledger/internal/container"
	"fjacquet/expense-ledger/internal/pipeline"
	"fjacquet/expense-ledger/internal/report"

	"github.com/spf13/cobra"
)

var noProgress bool

// Cmd represents the run command
var Cmd = &cobra.Command{
	Use:   "run [file or directory...]",
	Short: "Import new exports, categorize them and print the summary",
	Long: `Import new exports, categorize them and print the summary.

This is the everyday command: it imports like "import --categorize", then
prints the configured summary. Inputs are resolved like for import.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.RequireContainer()
		if err != nil {
			return err
		}
		var progress io.Writer
		if !noProgress {
			progress = cmd.ErrOrStderr()
		}
		return Run(common.Context(cmd), c, args, progress, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Do not show the progress bar")
}

// Run imports args with categorization and prints the summary built from
// the configuration. The summary is not printed when the run failed.
func Run(ctx context.Context, c *container.Container, args []string, progress, out io.Writer) error {
	_, err := importcmd.Import(ctx, c, args, pipeline.Options{Categorize: true, Progress: progress}, out)
	if err != nil {
		return err
	}

	opts, err := summary.Options(c.GetConfig(), summary.Flags{}, func(string) bool { return false })
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	return summary.Render(c, opts, report.FormatTable, out)
}
