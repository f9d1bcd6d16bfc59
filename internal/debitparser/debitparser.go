// Package debitparser provides functionality to parse Visa Debit CSV files.
// The export is semicolon separated and uses comma decimals.
package debitparser

import (
	"io"
	"strings"

	"fjacquet/expense-ledger/internal/common"
	"fjacquet/expense-ledger/internal/dateutils"
	"fjacquet/expense-ledger/internal/models"
)

const (
	dateLayout  = dateutils.DateLayoutEuropean
	delimiter   = ';'
	cardPayment = "PMT CARTE "
)

// DebitCSVRow represents a single row in a Visa Debit CSV file
// It uses struct tags for gocsv unmarshaling. Older exports lack the booking
// and reference columns.
type DebitCSVRow struct {
	Beneficiaire   string `csv:"Bénéficiaire"`
	Datum          string `csv:"Date"`
	Betrag         string `csv:"Montant"`
	Waehrung       string `csv:"Monnaie"`
	BuchungsNr     string `csv:"Buchungs-Nr.,default="`
	Referenznummer string `csv:"Referenznummer,default="`
}

// Parse implements parser.Parser. Montant is negative for card payments, so
// the canonical amount is its negation.
func (a *Adapter) Parse(r io.Reader) ([]models.Record, error) {
	a.BeginParse()
	logger := a.GetLogger()

	rows, err := common.ReadCSV[DebitCSVRow](r, common.CSVOptions{Delimiter: delimiter}, logger)
	if err != nil {
		return nil, a.TableViolation(err)
	}

	records := make([]models.Record, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1

		date, ok := a.ParseRowDate(rowNum, "Date", row.Datum, dateLayout)
		if !ok {
			continue
		}

		currency, err := models.ParseCurrency(row.Waehrung)
		if err != nil {
			return nil, a.Violation(rowNum, "Monnaie", "", row.Waehrung, err)
		}

		amount, err := a.ParseRowAmount(rowNum, "Montant", row.Betrag)
		if err != nil {
			return nil, err
		}

		description := strings.TrimPrefix(strings.TrimSpace(row.Beneficiaire), cardPayment)
		record, err := a.NewRecord(rowNum, date, description, amount.Neg(), currency, comment(row))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	a.EndParse(records)
	return records, nil
}

func comment(row DebitCSVRow) string {
	if row.BuchungsNr == "" && row.Referenznummer == "" {
		return ""
	}
	return "booking no: " + row.BuchungsNr + ", reference: " + row.Referenznummer
}
