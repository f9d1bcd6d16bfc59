package models

import "fmt"

// Ledger is an ordered collection of records without two members of the same
// identity. It is owned by a single pipeline run and is not safe for
// concurrent use.
type Ledger struct {
	records []Record
	index   map[Identity]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[Identity]int)}
}

// Add appends r unless a record with the same identity is already present.
// It reports whether r was appended.
func (l *Ledger) Add(r Record) bool {
	id := r.Identity()
	if _, exists := l.index[id]; exists {
		return false
	}
	l.index[id] = len(l.records)
	l.records = append(l.records, r)
	return true
}

// Contains reports whether a record with the given identity is present.
func (l *Ledger) Contains(id Identity) bool {
	_, ok := l.index[id]
	return ok
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Record returns the record at position i.
func (l *Ledger) Record(i int) Record {
	return l.records[i]
}

// Records returns a copy of the records in ledger order.
func (l *Ledger) Records() []Record {
	return append([]Record(nil), l.records...)
}

// SetCategory assigns a category to the record at position i. No other field
// changes, so the identity index stays valid.
func (l *Ledger) SetCategory(i int, c Category) error {
	if i < 0 || i >= len(l.records) {
		return fmt.Errorf("record index %d out of range [0,%d)", i, len(l.records))
	}
	if !c.IsValid() {
		return fmt.Errorf("unknown category %q", c)
	}
	l.records[i].Category = c
	return nil
}
