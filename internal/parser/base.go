// Package parser provides the base parser functionality and common interfaces.
package parser

import (
	"errors"
	"strings"
	"time"

	"fjacquet/expense-ledger/internal/common"
	"fjacquet/expense-ledger/internal/currencyutils"
	"fjacquet/expense-ledger/internal/dateutils"
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

// BaseParser provides common functionality for all parser implementations.
//
// Parsers embed BaseParser to inherit logging, source naming and the row
// failure policy:
//
//	type MyParser struct {
//		parser.BaseParser
//	}
//
// A BaseParser is not safe for concurrent use: Skipped reflects the last
// parse only.
type BaseParser struct {
	logger  logging.Logger
	format  models.SourceFormat
	source  string
	skipped []parsererror.RowSkipError
}

// NewBaseParser creates a new BaseParser for format. If logger is nil, a
// default logger is used.
func NewBaseParser(format models.SourceFormat, logger logging.Logger) BaseParser {
	return BaseParser{
		logger: logging.OrDefault(logger),
		format: format,
		source: "<input>",
	}
}

// Format implements Parser.
func (b *BaseParser) Format() models.SourceFormat {
	return b.format
}

// SetLogger replaces the logger; nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// SetSource implements Parser.
func (b *BaseParser) SetSource(name string) {
	if name != "" {
		b.source = name
	}
}

// Source returns the name of the input being parsed.
func (b *BaseParser) Source() string {
	return b.source
}

// Skipped implements Parser.
func (b *BaseParser) Skipped() []parsererror.RowSkipError {
	return append([]parsererror.RowSkipError(nil), b.skipped...)
}

// BeginParse clears the state of a previous parse and logs the start.
func (b *BaseParser) BeginParse() {
	b.skipped = nil
	b.logger.Debug("Parsing export",
		logging.Field{Key: logging.FieldFile, Value: b.source},
		logging.Field{Key: logging.FieldFormat, Value: b.format.String()})
}

// EndParse logs the outcome of a parse.
func (b *BaseParser) EndParse(records []models.Record) {
	b.logger.Info("Parsed export",
		logging.Field{Key: logging.FieldFile, Value: b.source},
		logging.Field{Key: logging.FieldFormat, Value: b.format.String()},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: logging.FieldSkipped, Value: len(b.skipped)})
}

// ParseRowDate parses the date of data row number row with layout. On
// failure the row is recorded as skipped and ok is false.
func (b *BaseParser) ParseRowDate(row int, field, value, layout string) (date time.Time, ok bool) {
	date, err := dateutils.ParseExact(value, layout)
	if err != nil {
		skip := parsererror.RowSkipError{
			FilePath: b.source,
			Row:      row,
			Field:    field,
			Value:    value,
			Err:      err,
		}
		b.skipped = append(b.skipped, skip)
		b.logger.WithError(err).Warn("Skipping row with unparsable date",
			logging.Field{Key: logging.FieldFile, Value: b.source},
			logging.Field{Key: logging.FieldRow, Value: row},
			logging.Field{Key: logging.FieldDate, Value: value})
		return time.Time{}, false
	}
	return date, true
}

// Violation builds the fatal error for a row that contradicts the format.
func (b *BaseParser) Violation(row int, field, expected, actual string, cause error) error {
	return &parsererror.FormatInvariantError{
		FilePath: b.source,
		Format:   b.format.String(),
		Row:      row,
		Field:    field,
		Expected: expected,
		Actual:   actual,
		Err:      cause,
	}
}

// TableViolation converts an error from reading the table into a format
// violation. A header lacking expected columns is reported on field "header".
func (b *BaseParser) TableViolation(err error) error {
	var headerErr *common.HeaderError
	if errors.As(err, &headerErr) {
		return b.Violation(0, "header", strings.Join(headerErr.Expected, ","), strings.Join(headerErr.Actual, ","), err)
	}
	return b.Violation(0, "table", "", "", err)
}

// ParseRowAmount parses a numeric cell; blank cells are zero. A non-blank
// cell that is not a number violates the format.
func (b *BaseParser) ParseRowAmount(row int, field, value string) (decimal.Decimal, error) {
	amount, err := currencyutils.ParseAmount(value)
	if err != nil {
		return decimal.Zero, b.Violation(row, field, "", value, err)
	}
	return amount, nil
}

// NewRecord builds an UNSORTED record for data row number row. A record
// failing validation, such as one with an empty description, violates the
// format.
func (b *BaseParser) NewRecord(row int, date time.Time, description string, amount decimal.Decimal, currency models.Currency, comment string) (models.Record, error) {
	r, err := models.NewRecord(date, description, amount, currency, comment)
	if err != nil {
		return models.Record{}, b.Violation(row, "record", "", description, err)
	}
	return r, nil
}
