package parser

import (
	"fmt"
	"io"

	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parsererror"

	"github.com/spf13/afero"
)

// Parser turns one raw export into canonical records.
type Parser interface {
	// Format names the export layout this parser understands.
	Format() models.SourceFormat

	// SetSource names the input for error reports and skip entries.
	SetSource(name string)

	// Parse reads the export from r and returns its records in file row order,
	// every one of them UNSORTED. Rows whose date does not parse are dropped and
	// reported through Skipped. A row contradicting the format definition fails
	// the whole parse with a *parsererror.FormatInvariantError.
	Parse(r io.Reader) ([]models.Record, error)

	// Skipped returns the rows dropped by the last Parse call.
	Skipped() []parsererror.RowSkipError
}

// ParseFile opens filePath on fs and runs p over it, naming the source after
// the path.
func ParseFile(fs afero.Fs, p Parser, filePath string) ([]models.Record, error) {
	file, err := fs.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", filePath, err)
	}
	defer file.Close()

	p.SetSource(filePath)
	return p.Parse(file)
}
