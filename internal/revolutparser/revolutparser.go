// Package revolutparser provides functionality to parse Revolut CSV account statements.
package revolutparser

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/expense-ledger/internal/common"
	"fjacquet/expense-ledger/internal/dateutils"
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
)

const (
	dateLayout     = dateutils.DateLayoutFull
	stateCompleted = "COMPLETED"
)

// RevolutCSVRow represents a single row in a Revolut CSV file
// It uses struct tags for gocsv unmarshaling
type RevolutCSVRow struct {
	Type          string `csv:"Type"`
	Product       string `csv:"Product"`
	CompletedDate string `csv:"Completed Date"`
	Description   string `csv:"Description"`
	Amount        string `csv:"Amount"`
	Fee           string `csv:"Fee"`
	Currency      string `csv:"Currency"`
	State         string `csv:"State"`
}

// Parse implements parser.Parser. Only completed transactions are kept;
// pending, reverted and declined rows never moved money.
func (a *Adapter) Parse(r io.Reader) ([]models.Record, error) {
	a.BeginParse()
	logger := a.GetLogger()

	rows, err := common.ReadCSV[RevolutCSVRow](r, common.CSVOptions{}, logger)
	if err != nil {
		return nil, a.TableViolation(err)
	}

	records := make([]models.Record, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1

		if strings.TrimSpace(row.State) != stateCompleted {
			logger.Debug("Ignoring transaction that is not completed",
				logging.Field{Key: logging.FieldRow, Value: rowNum},
				logging.Field{Key: logging.FieldDescription, Value: row.Description},
				logging.Field{Key: logging.FieldReason, Value: row.State})
			continue
		}

		date, ok := a.ParseRowDate(rowNum, "Completed Date", row.CompletedDate, dateLayout)
		if !ok {
			continue
		}

		currency, err := models.ParseCurrency(row.Currency)
		if err != nil {
			return nil, a.Violation(rowNum, "Currency", "", row.Currency, err)
		}

		amount, err := a.ParseRowAmount(rowNum, "Amount", row.Amount)
		if err != nil {
			return nil, err
		}

		comment := fmt.Sprintf("type: %s, product: %s, fee: %s", row.Type, row.Product, row.Fee)
		record, err := a.NewRecord(rowNum, date, row.Description, amount.Neg(), currency, comment)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	a.EndParse(records)
	return records, nil
}
