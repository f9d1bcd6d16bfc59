// Package summary implements the summary command.
package summary

import (
	"fmt"
	"io"

	"fjacquet/expense-ledger/cmd/root"
	"fjacquet/expense-ledger/internal/config"
	"fjacquet/expense-ledger/internal/container"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/report"

	"github.com/spf13/cobra"
)

// Flags of the summary command. Unset flags fall back to the report section
// of the configuration.
type Flags struct {
	Granularity string
	Currency    string
	LastN       int
	Format      string
	All         bool
}

var flags = Flags{Format: report.FormatTable}

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Print expense totals per category and week or month",
	Long: `Print expense totals per category for the latest weeks or months.

Amounts are converted to one currency. Income, transfers and expenses to be
reimbursed are left out unless --all is given.`,
	Example: `  expense-ledger summary --granularity month --last 6
  expense-ledger summary --format json --currency eur`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.RequireContainer()
		if err != nil {
			return err
		}
		opts, err := Options(c.GetConfig(), flags, cmd.Flags().Changed)
		if err != nil {
			return err
		}
		return Render(c, opts, flags.Format, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&flags.Granularity, "granularity", "g", "", "Bucket width: week or month")
	Cmd.Flags().StringVar(&flags.Currency, "currency", "", "Currency all amounts are converted to")
	Cmd.Flags().IntVarP(&flags.LastN, "last", "n", 0, "Number of latest buckets to show, 0 for all")
	Cmd.Flags().StringVarP(&flags.Format, "format", "f", report.FormatTable, "Output format: table or json")
	Cmd.Flags().BoolVar(&flags.All, "all", false, "Include income, transfers and reimbursable expenses")
}

// Options merges the command flags into the configured report settings.
// changed reports whether a flag was given on the command line.
func Options(cfg *config.Config, f Flags, changed func(string) bool) (report.Options, error) {
	opts := report.DefaultOptions()
	opts.Currency = cfg.ReportCurrency()
	opts.LastN = cfg.Report.LastN

	granularity := cfg.Report.Granularity
	if changed("granularity") {
		granularity = f.Granularity
	}
	g, err := report.ParseGranularity(granularity)
	if err != nil {
		return opts, err
	}
	opts.Granularity = g

	if changed("currency") {
		currency, err := models.ParseCurrency(f.Currency)
		if err != nil {
			return opts, fmt.Errorf("invalid --currency: %w", err)
		}
		opts.Currency = currency
	}
	if changed("last") {
		opts.LastN = f.LastN
	}
	if f.All {
		opts.Exclude = nil
	}
	return opts, nil
}

// Render summarizes the stored ledger and writes it to out in format.
func Render(c *container.Container, opts report.Options, format string, out io.Writer) error {
	ledger, err := c.GetLedgerStore().Load()
	if err != nil {
		return fmt.Errorf("error loading ledger: %w", err)
	}

	summary, err := report.Summarize(ledger, opts)
	if err != nil {
		return err
	}

	data, err := c.GetReportGenerator().Generate(summary, format)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("error writing summary: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = fmt.Fprintln(out)
	}
	return err
}
