// Package csxparser parses Credit Suisse "Bookings" CSV exports.
//
// The export starts with five lines of account metadata, then a comma
// separated table. Each booking carries either a Debit or a Credit value; the
// canonical amount is Debit - Credit, always in CHF.
package csxparser

import (
	"io"

	"fjacquet/expense-ledger/internal/common"
	"fjacquet/expense-ledger/internal/dateutils"
	"fjacquet/expense-ledger/internal/models"
)

const (
	preambleLines = 5
	dateLayout    = dateutils.DateLayoutEuropean
)

// CSXCSVRow represents a single row in a bookings export
type CSXCSVRow struct {
	BookingDate string `csv:"Booking Date"`
	Text        string `csv:"Text"`
	Debit       string `csv:"Debit"`
	Credit      string `csv:"Credit"`
}

// Parse implements parser.Parser.
func (a *Adapter) Parse(r io.Reader) ([]models.Record, error) {
	a.BeginParse()
	logger := a.GetLogger()

	rows, err := common.ReadCSV[CSXCSVRow](r, common.CSVOptions{SkipLines: preambleLines}, logger)
	if err != nil {
		return nil, a.TableViolation(err)
	}

	records := make([]models.Record, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1

		date, ok := a.ParseRowDate(rowNum, "Booking Date", row.BookingDate, dateLayout)
		if !ok {
			continue
		}

		debit, err := a.ParseRowAmount(rowNum, "Debit", row.Debit)
		if err != nil {
			return nil, err
		}
		credit, err := a.ParseRowAmount(rowNum, "Credit", row.Credit)
		if err != nil {
			return nil, err
		}

		record, err := a.NewRecord(rowNum, date, row.Text, debit.Sub(credit), models.CurrencyCHF, "")
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	a.EndParse(records)
	return records, nil
}
