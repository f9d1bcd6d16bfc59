package models

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/expense-ledger/internal/dateutils"

	"github.com/shopspring/decimal"
)

// Record is one canonical transaction.
// Amount sign convention: positive = money spent, negative = money received.
type Record struct {
	Date        time.Time
	Description string
	Category    Category
	Amount      decimal.Decimal
	Currency    Currency
	Comment     string
}

// NewRecord builds an UNSORTED record, the only category a freshly parsed
// transaction may carry. The date is truncated to the calendar day.
func NewRecord(date time.Time, description string, amount decimal.Decimal, currency Currency, comment string) (Record, error) {
	r := Record{
		Date:        dateutils.DateOf(date),
		Description: description,
		Category:    CategoryUnsorted,
		Amount:      amount,
		Currency:    currency,
		Comment:     comment,
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate checks the record invariants.
func (r Record) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("date is missing")
	}
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("description is empty")
	}
	if !r.Category.IsValid() {
		return fmt.Errorf("unknown category %q", r.Category)
	}
	if !r.Currency.IsValid() {
		return fmt.Errorf("unknown currency %q", r.Currency)
	}
	return nil
}

// Identity is the tuple that recognizes the same real-world transaction.
// Category and comment are not part of it.
type Identity struct {
	Date        string
	Description string
	Amount      string
	Currency    Currency
}

// Identity returns the dedup key of r. Amounts are compared numerically, so
// 4.50 and 4.5 give the same key.
func (r Record) Identity() Identity {
	return Identity{
		Date:        dateutils.ToISODate(r.Date),
		Description: r.Description,
		Amount:      r.Amount.String(),
		Currency:    r.Currency,
	}
}

func (id Identity) String() string {
	return fmt.Sprintf("%s|%s|%s|%s", id.Date, id.Description, id.Amount, id.Currency.Code())
}

// CompareRecords orders records by (date, description, category code, amount,
// currency code, comment). It is a total order over distinct records.
func CompareRecords(a, b Record) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := strings.Compare(a.Description, b.Description); c != 0 {
		return c
	}
	if c := strings.Compare(a.Category.Code(), b.Category.Code()); c != 0 {
		return c
	}
	if c := a.Amount.Cmp(b.Amount); c != 0 {
		return c
	}
	if c := strings.Compare(a.Currency.Code(), b.Currency.Code()); c != 0 {
		return c
	}
	return strings.Compare(a.Comment, b.Comment)
}

func (r Record) String() string {
	return fmt.Sprintf("%s %q %s %s [%s]",
		dateutils.ToISODate(r.Date), r.Description, r.Amount.String(), r.Currency.ISO(), r.Category.Name())
}
