// Package parsererror defines the typed errors raised while ingesting, storing
// and categorizing transactions. Callers match them with errors.As.
package parsererror

import (
	"fmt"
	"strings"
)

// UnrecognizedFormatError is returned when a raw file name matches no known
// source format, or more than one.
type UnrecognizedFormatError struct {
	FilePath   string
	Candidates []string // set when the name is ambiguous
}

func (e *UnrecognizedFormatError) Error() string {
	if len(e.Candidates) > 1 {
		return fmt.Sprintf("unrecognized format for '%s': name matches several formats (%s)",
			e.FilePath, strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("unrecognized format for '%s': name matches no known format", e.FilePath)
}

// RowSkipError reports a row that was dropped because its date did not parse.
// It is collected and logged, never returned from a parse.
type RowSkipError struct {
	FilePath string
	Row      int
	Field    string
	Value    string
	Err      error
}

func (e *RowSkipError) Error() string {
	return fmt.Sprintf("skipped row %d of '%s': %s='%s': %v",
		e.Row, e.FilePath, e.Field, e.Value, e.Err)
}

func (e *RowSkipError) Unwrap() error {
	return e.Err
}

// FormatInvariantError means a row contradicts the format definition (an
// asserted column holds another value, a required column is empty). The whole
// file is rejected.
type FormatInvariantError struct {
	FilePath string
	Format   string
	Row      int
	Field    string
	Expected string
	Actual   string
	Err      error
}

func (e *FormatInvariantError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s format violated in '%s' row %d, field %s", e.Format, e.FilePath, e.Row, e.Field)
	if e.Expected != "" {
		fmt.Fprintf(&b, ": expected '%s', got '%s'", e.Expected, e.Actual)
	} else {
		fmt.Fprintf(&b, ": got '%s'", e.Actual)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FormatInvariantError) Unwrap() error {
	return e.Err
}

// ConversionUnsupportedError is returned for a currency pair without a rate.
type ConversionUnsupportedError struct {
	From string
	To   string
}

func (e *ConversionUnsupportedError) Error() string {
	return fmt.Sprintf("conversion from %s to %s is not supported", e.From, e.To)
}

// StoreCorruptError marks a persisted ledger row that fails validation.
type StoreCorruptError struct {
	FilePath string
	Row      int
	Reason   string
	Err      error
}

func (e *StoreCorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store '%s' is corrupt at row %d: %s: %v", e.FilePath, e.Row, e.Reason, e.Err)
	}
	return fmt.Sprintf("store '%s' is corrupt at row %d: %s", e.FilePath, e.Row, e.Reason)
}

func (e *StoreCorruptError) Unwrap() error {
	return e.Err
}

// InvalidCategoryError is an answer from a category oracle outside the
// assignable category set.
type InvalidCategoryError struct {
	Input string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category input '%s'", e.Input)
}

// CategorizationError represents a categorization failure
type CategorizationError struct {
	Transaction string
	Strategy    string
	Err         error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("categorization failed for %s using %s: %v",
		e.Transaction, e.Strategy, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}
