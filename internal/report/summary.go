// Package report aggregates the ledger into time-binned, per-category totals
// and renders them for display.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fjacquet/expense-ledger/internal/currencyutils"
	"fjacquet/expense-ledger/internal/dateutils"
	"fjacquet/expense-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Granularity is the width of a summary bucket.
type Granularity string

const (
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// DefaultLastN is the number of most recent buckets kept by default.
const DefaultLastN = 10

// ParseGranularity accepts "week" or "month" in any case.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case GranularityWeek, GranularityMonth:
		return g, nil
	default:
		return "", fmt.Errorf("unknown granularity %q (expected week or month)", s)
	}
}

// Options controls Summarize.
type Options struct {
	// Granularity defaults to GranularityWeek.
	Granularity Granularity
	// Currency all amounts are converted to. Defaults to CHF.
	Currency models.Currency
	// Exclude lists categories left out of the summary.
	Exclude []models.Category
	// LastN keeps only the latest buckets. Zero or less keeps all of them.
	LastN int
}

// DefaultOptions returns weekly CHF buckets without the non-expense
// categories, limited to the latest DefaultLastN buckets.
func DefaultOptions() Options {
	return Options{
		Granularity: GranularityWeek,
		Currency:    models.CurrencyCHF,
		Exclude:     models.NonExpenseCategories(),
		LastN:       DefaultLastN,
	}
}

// Bucket holds the totals of one week or month.
type Bucket struct {
	Label  string
	Start  time.Time
	Totals map[models.Category]decimal.Decimal
}

// Total returns the sum over all categories of the bucket.
func (b Bucket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b.Totals {
		total = total.Add(v)
	}
	return total
}

// Summary is the visualization data: chronological buckets of converted
// per-category totals.
type Summary struct {
	Granularity Granularity
	Currency    models.Currency
	// Categories lists the categories present in any bucket, in display order.
	Categories []models.Category
	Buckets    []Bucket
}

// Summarize bins every record not excluded by opts into its bucket and adds
// its amount, converted to opts.Currency, to the bucket's category total.
// Buckets exist only for periods with at least one included record. A record
// that cannot be converted fails the whole summary.
func Summarize(ledger *models.Ledger, opts Options) (*Summary, error) {
	if opts.Granularity == "" {
		opts.Granularity = GranularityWeek
	}
	if opts.Currency == "" {
		opts.Currency = models.CurrencyCHF
	}
	if _, err := ParseGranularity(string(opts.Granularity)); err != nil {
		return nil, err
	}
	if !opts.Currency.IsValid() {
		return nil, fmt.Errorf("unknown summary currency %q", opts.Currency)
	}

	excluded := make(map[models.Category]bool, len(opts.Exclude))
	for _, c := range opts.Exclude {
		excluded[c] = true
	}

	buckets := make(map[time.Time]*Bucket)
	present := make(map[models.Category]bool)
	for _, r := range ledger.Records() {
		if excluded[r.Category] {
			continue
		}
		converted, err := currencyutils.Convert(r.Amount, r.Currency, opts.Currency)
		if err != nil {
			return nil, fmt.Errorf("error summarizing %s: %w", r, err)
		}

		start, label := bucketOf(r.Date, opts.Granularity)
		b, ok := buckets[start]
		if !ok {
			b = &Bucket{Label: label, Start: start, Totals: make(map[models.Category]decimal.Decimal)}
			buckets[start] = b
		}
		b.Totals[r.Category] = b.Totals[r.Category].Add(converted)
		present[r.Category] = true
	}

	summary := &Summary{
		Granularity: opts.Granularity,
		Currency:    opts.Currency,
		Buckets:     make([]Bucket, 0, len(buckets)),
	}
	for _, b := range buckets {
		summary.Buckets = append(summary.Buckets, *b)
	}
	sort.Slice(summary.Buckets, func(i, j int) bool {
		return summary.Buckets[i].Start.Before(summary.Buckets[j].Start)
	})
	if opts.LastN > 0 && len(summary.Buckets) > opts.LastN {
		summary.Buckets = summary.Buckets[len(summary.Buckets)-opts.LastN:]
	}

	for _, c := range models.Categories() {
		if present[c] && summary.hasCategory(c) {
			summary.Categories = append(summary.Categories, c)
		}
	}
	return summary, nil
}

// Total returns the sum of category c over all buckets.
func (s *Summary) Total(c models.Category) decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Buckets {
		total = total.Add(b.Totals[c])
	}
	return total
}

// GrandTotal returns the sum over all buckets and categories.
func (s *Summary) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Buckets {
		total = total.Add(b.Total())
	}
	return total
}

func (s *Summary) hasCategory(c models.Category) bool {
	for _, b := range s.Buckets {
		if _, ok := b.Totals[c]; ok {
			return true
		}
	}
	return false
}

func bucketOf(date time.Time, g Granularity) (time.Time, string) {
	if g == GranularityMonth {
		return dateutils.StartOfMonth(date), dateutils.MonthLabel(date)
	}
	return dateutils.StartOfWeek(date), dateutils.WeekLabel(date)
}
