// Package store persists the ledger and the categorization rules.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"fjacquet/expense-ledger/internal/common"
	"fjacquet/expense-ledger/internal/dateutils"
	"fjacquet/expense-ledger/internal/fileutils"
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
)

// DefaultLedgerFile is the store file name used when none is configured.
const DefaultLedgerFile = "expense_database.csv"

// LedgerHeader is the header row of the store file.
const LedgerHeader = "date,description,type,amount,currency,comment"

// ledgerRow is one persisted record. Category and currency are stored by code.
type ledgerRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Type        string `csv:"type"`
	Amount      string `csv:"amount"`
	Currency    string `csv:"currency"`
	Comment     string `csv:"comment"`
}

// LedgerStore reads and writes the ledger CSV file.
type LedgerStore struct {
	fs     afero.Fs
	path   string
	logger logging.Logger
}

// NewLedgerStore creates a store for path on fs. A nil fs means the OS
// filesystem; an empty path means DefaultLedgerFile.
func NewLedgerStore(fs afero.Fs, path string, logger logging.Logger) *LedgerStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		path = DefaultLedgerFile
	}
	return &LedgerStore{
		fs:     fs,
		path:   path,
		logger: logging.OrDefault(logger),
	}
}

// Path returns the store file path.
func (s *LedgerStore) Path() string {
	return s.path
}

// Load reads the ledger. A missing store file yields an empty ledger. A header
// other than LedgerHeader, or any row that fails validation, including a second row with an identity already
// seen, makes the whole store corrupt.
func (s *LedgerStore) Load() (*models.Ledger, error) {
	file, err := s.fs.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("Ledger store not found, starting empty",
				logging.Field{Key: logging.FieldStoreFile, Value: s.path})
			return models.NewLedger(), nil
		}
		return nil, fmt.Errorf("error opening ledger store: %w", err)
	}
	defer file.Close()

	rows, err := common.ReadCSV[ledgerRow](file, common.CSVOptions{Strict: true}, s.logger)
	if err != nil {
		var headerErr *common.HeaderError
		if errors.As(err, &headerErr) {
			return nil, &parsererror.StoreCorruptError{FilePath: s.path, Row: 1, Reason: "unexpected header", Err: err}
		}
		return nil, &parsererror.StoreCorruptError{FilePath: s.path, Row: 1, Reason: "unreadable table", Err: err}
	}

	ledger := models.NewLedger()
	for i, row := range rows {
		line := i + 2 // header is line 1
		record, err := decodeRow(row)
		if err != nil {
			return nil, &parsererror.StoreCorruptError{FilePath: s.path, Row: line, Reason: "invalid record", Err: err}
		}
		if !ledger.Add(record) {
			return nil, &parsererror.StoreCorruptError{
				FilePath: s.path,
				Row:      line,
				Reason:   "duplicate record " + record.Identity().String(),
			}
		}
	}

	s.logger.Debug("Loaded ledger store",
		logging.Field{Key: logging.FieldStoreFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: ledger.Len()})
	return ledger, nil
}

// Save writes every record of ledger, sorted by CompareRecords, and
// atomically replaces the store file. Equal record sets always produce the
// same bytes.
func (s *LedgerStore) Save(ledger *models.Ledger) error {
	data, err := Encode(ledger)
	if err != nil {
		return err
	}
	if err := fileutils.WriteFileAtomic(s.fs, s.path, data, fileutils.PermissionFile); err != nil {
		return fmt.Errorf("error saving ledger store: %w", err)
	}

	s.logger.Info("Saved ledger store",
		logging.Field{Key: logging.FieldStoreFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: ledger.Len()})
	return nil
}

// Encode renders ledger in the store format.
func Encode(ledger *models.Ledger) ([]byte, error) {
	records := ledger.Records()
	sort.SliceStable(records, func(i, j int) bool {
		return models.CompareRecords(records[i], records[j]) < 0
	})

	rows := make([]ledgerRow, len(records))
	for i, r := range records {
		rows[i] = encodeRow(r)
	}

	var buf bytes.Buffer
	if err := common.WriteCSV(&buf, rows, ','); err != nil {
		return nil, fmt.Errorf("error encoding ledger: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeRow(r models.Record) ledgerRow {
	return ledgerRow{
		Date:        dateutils.ToISODate(r.Date),
		Description: r.Description,
		Type:        r.Category.Code(),
		Amount:      r.Amount.String(),
		Currency:    r.Currency.Code(),
		Comment:     r.Comment,
	}
}

func decodeRow(row ledgerRow) (models.Record, error) {
	date, err := dateutils.ParseExact(row.Date, dateutils.DateLayoutISO)
	if err != nil {
		return models.Record{}, fmt.Errorf("date: %w", err)
	}
	if strings.TrimSpace(row.Amount) == "" {
		return models.Record{}, fmt.Errorf("amount is empty")
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return models.Record{}, fmt.Errorf("amount %q: %w", row.Amount, err)
	}

	record := models.Record{
		Date:        date,
		Description: row.Description,
		Category:    models.Category(row.Type),
		Amount:      amount,
		Currency:    models.Currency(row.Currency),
		Comment:     row.Comment,
	}
	if err := record.Validate(); err != nil {
		return models.Record{}, err
	}
	return record, nil
}
