// Package wiseparser parses Wise balance statements.
//
// Wise exports one statement per balance currency. Amounts are signed from
// the account's point of view (negative = paid out), so the canonical amount
// is the negated Amount column.
package wiseparser

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/expense-ledger/internal/common"
	"fjacquet/expense-ledger/internal/dateutils"
	"fjacquet/expense-ledger/internal/models"
)

const dateLayout = dateutils.DateLayoutDashed

// WiseCSVRow represents a single row in a Wise statement
type WiseCSVRow struct {
	TransferWiseID string `csv:"TransferWise ID"`
	Date           string `csv:"Date"`
	Amount         string `csv:"Amount"`
	Currency       string `csv:"Currency"`
	Description    string `csv:"Description"`
	Merchant       string `csv:"Merchant"`
	Note           string `csv:"Note"`
	TotalFees      string `csv:"Total fees"`
}

// Parse implements parser.Parser.
func (a *Adapter) Parse(r io.Reader) ([]models.Record, error) {
	a.BeginParse()
	logger := a.GetLogger()

	rows, err := common.ReadCSV[WiseCSVRow](r, common.CSVOptions{}, logger)
	if err != nil {
		return nil, a.TableViolation(err)
	}

	expected := a.currency.ISO()
	records := make([]models.Record, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1

		date, ok := a.ParseRowDate(rowNum, "Date", row.Date, dateLayout)
		if !ok {
			continue
		}

		if got := strings.TrimSpace(row.Currency); got != expected {
			return nil, a.Violation(rowNum, "Currency", expected, row.Currency, nil)
		}

		amount, err := a.ParseRowAmount(rowNum, "Amount", row.Amount)
		if err != nil {
			return nil, err
		}

		record, err := a.NewRecord(rowNum, date, row.Description, amount.Neg(), a.currency, comment(row))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	a.EndParse(records)
	return records, nil
}

func comment(row WiseCSVRow) string {
	return fmt.Sprintf("merchant: %s, Wise ID: %s, Note: %s, total fees: %s",
		row.Merchant, row.TransferWiseID, row.Note, row.TotalFees)
}
