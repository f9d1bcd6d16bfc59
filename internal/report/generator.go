package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/expense-ledger/internal/dateutils"
	"fjacquet/expense-ledger/internal/logging"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Output formats understood by Generator.
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

// jsonSummary is the serialized shape of a Summary. Categories are keyed by
// name and amounts are decimal strings.
type jsonSummary struct {
	Granularity string       `json:"granularity"`
	Currency    string       `json:"currency"`
	Categories  []string     `json:"categories"`
	Buckets     []jsonBucket `json:"buckets"`
}

type jsonBucket struct {
	Label  string            `json:"label"`
	Start  string            `json:"start"`
	Totals map[string]string `json:"totals"`
	Total  string            `json:"total"`
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Generator renders summaries.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logging.OrDefault(logger)}
}

// Generate renders summary in the given format ("json" or "table").
func (g *Generator) Generate(summary *Summary, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return g.generateJSON(summary)
	case FormatTable:
		return []byte(g.generateTable(summary)), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(summary *Summary) ([]byte, error) {
	out := jsonSummary{
		Granularity: string(summary.Granularity),
		Currency:    summary.Currency.ISO(),
		Categories:  make([]string, 0, len(summary.Categories)),
		Buckets:     make([]jsonBucket, 0, len(summary.Buckets)),
	}
	for _, c := range summary.Categories {
		out.Categories = append(out.Categories, c.Name())
	}
	for _, b := range summary.Buckets {
		jb := jsonBucket{
			Label:  b.Label,
			Start:  dateutils.ToISODate(b.Start),
			Totals: make(map[string]string, len(b.Totals)),
			Total:  b.Total().StringFixed(2),
		}
		for c, v := range b.Totals {
			jb.Totals[c.Name()] = v.StringFixed(2)
		}
		out.Buckets = append(out.Buckets, jb)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON summary")
		return nil, fmt.Errorf("failed to marshal JSON summary: %w", err)
	}
	return data, nil
}

// generateTable renders one row per bucket and one column per category,
// with a closing total row.
func (g *Generator) generateTable(summary *Summary) string {
	headers := []string{"Period"}
	for _, c := range summary.Categories {
		headers = append(headers, c.Name())
	}
	headers = append(headers, "TOTAL "+summary.Currency.ISO())

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return cellStyle
			}
			return cellStyle.Align(lipgloss.Right)
		})

	for _, b := range summary.Buckets {
		row := []string{b.Label}
		for _, c := range summary.Categories {
			row = append(row, b.Totals[c].StringFixed(2))
		}
		row = append(row, b.Total().StringFixed(2))
		t.Row(row...)
	}

	totalRow := []string{"TOTAL"}
	for _, c := range summary.Categories {
		totalRow = append(totalRow, summary.Total(c).StringFixed(2))
	}
	totalRow = append(totalRow, summary.GrandTotal().StringFixed(2))
	t.Row(totalRow...)

	return t.String() + "\n"
}
