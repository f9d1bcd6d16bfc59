// Package merge combines freshly parsed records with the stored ledger
// without ever storing the same transaction twice.
package merge

import (
	"time"

	"fjacquet/expense-ledger/internal/dateutils"
	"fjacquet/expense-ledger/internal/models"
)

// DateRange is the span of dates covered by a set of records.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the range as "YYYY-MM-DD_YYYY-MM-DD", or "" when empty.
func (dr DateRange) String() string {
	if dr.IsZero() {
		return ""
	}
	return dateutils.ToISODate(dr.Start) + "_" + dateutils.ToISODate(dr.End)
}

// IsZero reports whether the range covers no date at all.
func (dr DateRange) IsZero() bool {
	return dr.Start.IsZero() || dr.End.IsZero()
}

// Extend returns the smallest range containing dr and t.
func (dr DateRange) Extend(t time.Time) DateRange {
	if dr.IsZero() {
		return DateRange{Start: t, End: t}
	}
	if t.Before(dr.Start) {
		dr.Start = t
	}
	if t.After(dr.End) {
		dr.End = t
	}
	return dr
}

// Merge returns the smallest range containing both ranges.
func (dr DateRange) Merge(other DateRange) DateRange {
	if other.IsZero() {
		return dr
	}
	return dr.Extend(other.Start).Extend(other.End)
}

// Result is the outcome of one merge.
type Result struct {
	Ledger     *models.Ledger
	Added      []models.Record
	Duplicates int
	// AddedRange spans the dates of the added records.
	AddedRange DateRange
}

// Merge appends every candidate whose identity is neither in existing nor
// among the candidates already accepted by this call. Everything else is
// dropped. Existing records keep their position and category, and no amount
// is converted, so 4.50 CHF and 4.50 EUR are two different transactions.
//
// existing is modified in place and returned as Result.Ledger. A nil
// existing ledger starts empty.
func Merge(existing *models.Ledger, candidates []models.Record) Result {
	if existing == nil {
		existing = models.NewLedger()
	}

	result := Result{Ledger: existing}
	for _, c := range candidates {
		if !existing.Add(c) {
			result.Duplicates++
			continue
		}
		result.Added = append(result.Added, c)
		result.AddedRange = result.AddedRange.Extend(c.Date)
	}
	return result
}
