// Package categorizer fills in the category of uncategorized ledger records.
// Keyword rules are tried first; whatever they leave open is put to an
// Oracle, usually a person at the console.
package categorizer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parsererror"
)

// OracleStrategyName is the name statistics use for oracle answers.
const OracleStrategyName = "Oracle"

// Stats summarizes one categorization pass.
type Stats struct {
	// Examined counts the UNSORTED records visited.
	Examined int
	// ByStrategy counts categorized records per strategy name.
	ByStrategy map[string]int
	// InvalidAnswers counts rejected oracle answers.
	InvalidAnswers int
	// Unresolved counts records left UNSORTED because there was no oracle.
	Unresolved int
}

// Categorized returns how many records received a category.
func (s Stats) Categorized() int {
	total := 0
	for _, n := range s.ByStrategy {
		total += n
	}
	return total
}

// Summary returns a short description such as "Keyword:3, Oracle:1".
func (s Stats) Summary() string {
	names := make([]string, 0, len(s.ByStrategy))
	for name := range s.ByStrategy {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", name, s.ByStrategy[name]))
	}
	return strings.Join(parts, ", ")
}

// Categorizer runs the categorization pass over a ledger.
type Categorizer struct {
	strategies []CategorizationStrategy
	oracle     Oracle
	logger     logging.Logger
}

// NewCategorizer creates a categorizer trying strategies in order, then
// oracle. A nil oracle leaves unmatched records UNSORTED.
func NewCategorizer(oracle Oracle, logger logging.Logger, strategies ...CategorizationStrategy) *Categorizer {
	return &Categorizer{
		strategies: strategies,
		oracle:     oracle,
		logger:     logging.OrDefault(logger),
	}
}

// CategorizeLedger assigns a category to every UNSORTED record in ledger
// order. Only the category field changes and no record moves. An oracle
// error stops the pass; the categories assigned until then are kept.
func (c *Categorizer) CategorizeLedger(ctx context.Context, ledger *models.Ledger) (Stats, error) {
	stats := Stats{ByStrategy: make(map[string]int)}

	for i := 0; i < ledger.Len(); i++ {
		r := ledger.Record(i)
		if r.Category != models.CategoryUnsorted {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Examined++

		category, strategy, err := c.categorize(ctx, r, &stats)
		if err != nil {
			return stats, &parsererror.CategorizationError{
				Transaction: r.String(),
				Strategy:    strategy,
				Err:         err,
			}
		}
		if strategy == "" {
			stats.Unresolved++
			continue
		}
		if err := ledger.SetCategory(i, category); err != nil {
			return stats, err
		}
		stats.ByStrategy[strategy]++
	}

	c.logger.Info("Categorization pass finished",
		logging.Field{Key: "examined", Value: stats.Examined},
		logging.Field{Key: "categorized", Value: stats.Categorized()},
		logging.Field{Key: "unresolved", Value: stats.Unresolved},
		logging.Field{Key: "strategies", Value: stats.Summary()})
	return stats, nil
}

// categorize returns the category for r and the name of the strategy that
// produced it. An empty strategy name means nothing produced a category.
func (c *Categorizer) categorize(ctx context.Context, r models.Record, stats *Stats) (models.Category, string, error) {
	for _, s := range c.strategies {
		category, found, err := s.Categorize(ctx, r)
		if err != nil {
			return "", s.Name(), err
		}
		if found {
			return category, s.Name(), nil
		}
	}

	if c.oracle == nil {
		return "", "", nil
	}
	category, err := c.ask(ctx, r, stats)
	if err != nil {
		return "", OracleStrategyName, err
	}
	return category, OracleStrategyName, nil
}

// ask repeats the question until the oracle answers with an assignable
// category.
func (c *Categorizer) ask(ctx context.Context, r models.Record, stats *Stats) (models.Category, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		answer, err := c.oracle.Ask(ctx, r)
		if err != nil {
			return "", err
		}
		category, err := ParseAnswer(answer)
		if err != nil {
			stats.InvalidAnswers++
			c.logger.WithError(err).Warn("Rejected category answer, asking again",
				logging.Field{Key: logging.FieldDescription, Value: r.Description})
			continue
		}
		c.logger.Debug("Record categorized by oracle",
			logging.Field{Key: logging.FieldDescription, Value: r.Description},
			logging.Field{Key: logging.FieldCategory, Value: category.Name()})
		return category, nil
	}
}

// ParseAnswer turns a raw oracle answer into an assignable category. UNSORTED
// and anything outside the category table are rejected with an
// InvalidCategoryError.
func ParseAnswer(answer string) (models.Category, error) {
	category, err := models.ParseCategory(answer)
	if err != nil || category == models.CategoryUnsorted {
		return "", &parsererror.InvalidCategoryError{Input: answer}
	}
	return category, nil
}
