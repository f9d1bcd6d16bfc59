// Package common provides shared functionality across different parsers.
package common

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"fjacquet/expense-ledger/internal/logging"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVOptions describes the physical layout of a delimited file.
type CSVOptions struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// SkipLines is the number of metadata lines before the header row.
	SkipLines int
	// Strict requires the header to hold exactly the tagged columns, in tag
	// order. Otherwise extra columns are ignored and only missing ones fail.
	Strict bool
}

// HeaderError reports a header row that does not carry the expected columns.
type HeaderError struct {
	Expected []string
	Actual   []string
	Missing  []string
}

func (e *HeaderError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("header is missing column(s) %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("unexpected header %q, expected %q",
		strings.Join(e.Actual, ","), strings.Join(e.Expected, ","))
}

// Columns returns the header names TCSVRow requires, in field order. A field
// whose tag carries a gocsv "default=" option may be absent from the header.
func Columns[TCSVRow any]() []string {
	t := reflect.TypeOf((*TCSVRow)(nil)).Elem()
	var columns []string
	for i := 0; i < t.NumField(); i++ {
		entries := strings.Split(t.Field(i).Tag.Get("csv"), ",")
		name := strings.TrimSpace(entries[0])
		if name == "" || name == "-" || hasDefault(entries[1:]) {
			continue
		}
		columns = append(columns, name)
	}
	return columns
}

func hasDefault(options []string) bool {
	for _, o := range options {
		if strings.HasPrefix(strings.TrimSpace(o), "default=") {
			return true
		}
	}
	return false
}

func checkHeader(header, expected []string, strict bool) error {
	actual := make([]string, len(header))
	for i, h := range header {
		actual[i] = strings.TrimSpace(h)
	}

	var missing []string
	for _, column := range expected {
		if !slices.Contains(actual, column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 || (strict && !slices.Equal(actual, expected)) {
		return &HeaderError{Expected: expected, Actual: actual, Missing: missing}
	}
	return nil
}

// rowsReader replays already read records to gocsv.
type rowsReader struct {
	records [][]string
}

func (r *rowsReader) Read() ([]string, error) {
	if len(r.records) == 0 {
		return nil, io.EOF
	}
	record := r.records[0]
	r.records = r.records[1:]
	return record, nil
}

func (r *rowsReader) ReadAll() ([][]string, error) {
	records := r.records
	r.records = nil
	return records, nil
}

func (o CSVOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// ReadCSV decodes delimited rows from r into a slice of structs using gocsv.
// TCSVRow maps to the header row through `csv:"..."` tags, and every tagged
// column must be present: a header lacking one fails with *HeaderError
// instead of decoding zero values. A leading UTF-8 BOM is dropped and the
// first opts.SkipLines physical lines are discarded before the header is
// read. Input without any header yields no rows.
func ReadCSV[TCSVRow any](r io.Reader, opts CSVOptions, logger logging.Logger) ([]TCSVRow, error) {
	logger = logging.OrDefault(logger)

	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	br := bufio.NewReader(decoded)
	for i := 0; i < opts.SkipLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				logger.Debug("Input ended inside the skipped preamble",
					logging.Field{Key: "skipped_lines", Value: i})
				return nil, nil
			}
			return nil, fmt.Errorf("error skipping preamble line %d: %w", i+1, err)
		}
	}

	csvReader := csv.NewReader(br)
	csvReader.Comma = opts.delimiter()
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if err := checkHeader(records[0], Columns[TCSVRow](), opts.Strict); err != nil {
		return nil, err
	}

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(&rowsReader{records: records}, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}

	logger.Debug("Read CSV data",
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(csvReader.Comma)})
	return rows, nil
}

// WriteCSV encodes rows with a header line using gocsv.
func WriteCSV[TCSVRow any](w io.Writer, rows []TCSVRow, delimiter rune) error {
	if delimiter == 0 {
		delimiter = ','
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if rows == nil {
		rows = []TCSVRow{}
	}
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
