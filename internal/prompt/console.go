// Package prompt provides the category oracles: an interactive console
// prompter and a fixed answer for unattended runs.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/expense-ledger/internal/currencyutils"
	"fjacquet/expense-ledger/internal/dateutils"
	"fjacquet/expense-ledger/internal/models"

	"github.com/fatih/color"
)

// ConsolePrompter asks a person for the category of each record. It prints
// the record and the list of assignable categories, then reads one line.
type ConsolePrompter struct {
	in      *bufio.Reader
	out     io.Writer
	options []models.Category

	last  models.Identity
	asked bool

	record *color.Color
	amount *color.Color
	option *color.Color
	retry  *color.Color
}

// NewConsolePrompter creates a prompter reading answers from in and writing
// questions to out.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	var options []models.Category
	for _, c := range models.Categories() {
		if c != models.CategoryUnsorted {
			options = append(options, c)
		}
	}

	return &ConsolePrompter{
		in:      bufio.NewReader(in),
		out:     out,
		options: options,
		record:  color.New(color.BgWhite, color.FgBlack),
		amount:  color.New(color.BgRed, color.FgWhite),
		option:  color.New(color.FgCyan),
		retry:   color.New(color.BgRed, color.FgWhite),
	}
}

// SetColor turns colored output on or off for this prompter only.
func (p *ConsolePrompter) SetColor(enabled bool) {
	for _, c := range []*color.Color{p.record, p.amount, p.option, p.retry} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Ask shows r and returns the line typed by the user, trimmed. Asking again
// about the same record only prints a short retry notice. End of input is
// returned as io.EOF.
func (p *ConsolePrompter) Ask(ctx context.Context, r models.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if p.asked && p.last == r.Identity() {
		p.retry.Fprint(p.out, "invalid choice, try again")
		fmt.Fprintln(p.out)
	} else {
		p.printQuestion(r)
	}
	p.last = r.Identity()
	p.asked = true

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *ConsolePrompter) printQuestion(r models.Record) {
	fmt.Fprint(p.out, "What type of expense is ")
	p.record.Fprintf(p.out, " %s ", r.Description)
	fmt.Fprintf(p.out, " on %s, costing ", dateutils.ToISODate(r.Date))
	p.amount.Fprintf(p.out, " %s ", currencyutils.FormatAmount(r.Amount, r.Currency))
	fmt.Fprintln(p.out, "?")
	if r.Comment != "" {
		fmt.Fprintf(p.out, "  (%s)\n", r.Comment)
	}

	for _, c := range p.options {
		p.option.Fprintf(p.out, "%6s", c.Code())
		fmt.Fprintf(p.out, ": %s\n", c.Name())
	}
	fmt.Fprint(p.out, "> ")
}
