// Package detector maps raw export file names to their source format.
package detector

import (
	"path/filepath"
	"regexp"

	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parsererror"
)

// Pattern ties a file-name shape to the format it identifies.
type Pattern struct {
	Format  models.SourceFormat
	Example string
	re      *regexp.Regexp
}

// NewPattern compiles expr, which must match the whole base name.
func NewPattern(format models.SourceFormat, expr, example string) Pattern {
	return Pattern{
		Format:  format,
		Example: example,
		re:      regexp.MustCompile(`^(?:` + expr + `)$`),
	}
}

// Matches reports whether name has this pattern's shape.
func (p Pattern) Matches(name string) bool {
	return p.re.MatchString(name)
}

// Expr returns the anchored regular expression.
func (p Pattern) Expr() string {
	return p.re.String()
}

const isoDate = `[0-9]{4}-[0-9]{2}-[0-9]{2}`

// copySuffix is the " (1)" a browser inserts before the extension when the
// same export is downloaded again.
var copySuffix = regexp.MustCompile(` \([0-9]+\)(\.[A-Za-z0-9]+)$`)

// BaseName returns the name patterns are matched against: the base name of
// filePath without a download copy suffix.
func BaseName(filePath string) string {
	return copySuffix.ReplaceAllString(filepath.Base(filePath), "$1")
}

func wisePattern(format models.SourceFormat, iso string) Pattern {
	return NewPattern(format,
		`statement_[0-9]+_`+iso+`_`+isoDate+`_`+isoDate+`\.csv`,
		"statement_12345678_"+iso+"_2024-01-01_2024-01-31.csv")
}

// DefaultPatterns is the ordered table of known export names. A new format
// gets one new entry here.
func DefaultPatterns() []Pattern {
	return []Pattern{
		NewPattern(models.FormatCSX,
			`[0-9]{7}-[0-9]+_Bookings_[0-9]{2}-[0-9]{2}-[0-9]{4}\.csv`,
			"0123456-01_Bookings_31-01-2024.csv"),
		wisePattern(models.FormatWiseJPY, "JPY"),
		wisePattern(models.FormatWiseCHF, "CHF"),
		wisePattern(models.FormatWiseEUR, "EUR"),
		wisePattern(models.FormatWiseGBP, "GBP"),
		NewPattern(models.FormatRevolut,
			`account-statement_`+isoDate+`_`+isoDate+`_[a-z]{2}(?:-[a-z]{2})?_[0-9a-f]+\.csv`,
			"account-statement_2024-01-01_2024-01-31_en-us_a1b2c3.csv"),
		NewPattern(models.FormatVisaDebit,
			`VisaDebit_[0-9]+_[0-9]{8}\.csv`,
			"VisaDebit_4711_20240131.csv"),
	}
}

// Detector resolves file names against an ordered pattern table.
type Detector struct {
	patterns []Pattern
	logger   logging.Logger
}

// New returns a Detector over DefaultPatterns.
func New(logger logging.Logger) *Detector {
	return NewWithPatterns(DefaultPatterns(), logger)
}

// NewWithPatterns returns a Detector over a custom table.
func NewWithPatterns(patterns []Pattern, logger logging.Logger) *Detector {
	return &Detector{
		patterns: append([]Pattern(nil), patterns...),
		logger:   logging.OrDefault(logger),
	}
}

// Patterns returns the pattern table in match order.
func (d *Detector) Patterns() []Pattern {
	return append([]Pattern(nil), d.patterns...)
}

// Detect returns the format whose pattern matches BaseName(filePath).
// Exactly one pattern must match; otherwise the result is an
// *parsererror.UnrecognizedFormatError and no format is guessed.
func (d *Detector) Detect(filePath string) (models.SourceFormat, error) {
	name := BaseName(filePath)

	var matched []models.SourceFormat
	for _, p := range d.patterns {
		if p.Matches(name) {
			matched = append(matched, p.Format)
		}
	}

	switch len(matched) {
	case 1:
		d.logger.Debug("Detected source format",
			logging.Field{Key: logging.FieldFile, Value: filePath},
			logging.Field{Key: logging.FieldFormat, Value: matched[0].String()})
		return matched[0], nil
	case 0:
		return "", &parsererror.UnrecognizedFormatError{FilePath: filePath}
	default:
		names := make([]string, len(matched))
		for i, f := range matched {
			names[i] = f.String()
		}
		return "", &parsererror.UnrecognizedFormatError{FilePath: filePath, Candidates: names}
	}
}
