// Package label implements the label command.
package label

import (
	"context"
	"io"

	"fjacquet/expense-ledger/cmd/common"
	"fjacquet/expense-ledger/cmd/root"
	"fjacquet/expense-ledger/internal/container"
	"fjacquet/expense-ledger/internal/pipeline"

	"github.com/spf13/cobra"
)

// Cmd represents the label command
var Cmd = &cobra.Command{
	Use:   "label",
	Short: "Categorize the unsorted transactions of the ledger",
	Long: `Categorize every unsorted transaction of the ledger.

Keyword rules from the rules file are tried first. For the remaining
transactions you are asked for a category; answer with a category code or
name. The ledger is saved even when you stop answering (Ctrl-D), keeping the
categories given so far.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.RequireContainer()
		if err != nil {
			return err
		}
		_, err = Label(common.Context(cmd), c, cmd.OutOrStdout())
		return err
	},
}

// Label runs the categorization pass over the stored ledger and prints the
// outcome to out.
func Label(ctx context.Context, c *container.Container, out io.Writer) (*pipeline.Report, error) {
	report, err := c.GetPipeline().Label(ctx)
	if report != nil {
		common.PrintRunReport(out, report)
	}
	return report, err
}
