package categorizer

import (
	"context"

	"fjacquet/expense-ledger/internal/models"
)

// CategorizationStrategy assigns a category to a record without asking anyone.
// Strategies are tried in order before the oracle is consulted.
type CategorizationStrategy interface {
	// Categorize returns the category for r and whether the strategy matched.
	// The category is only meaningful when found is true.
	Categorize(ctx context.Context, r models.Record) (models.Category, bool, error)

	// Name returns the name of this strategy for logging and statistics.
	Name() string
}

// RuleSource provides the ordered keyword rules. store.RuleStore satisfies it.
type RuleSource interface {
	LoadRules() ([]models.CategoryRule, error)
}

// Oracle is asked for a category when no strategy matches. It returns the
// raw answer, which may be a category code or name, or anything else typed
// by a user. An error ends the categorization pass.
type Oracle interface {
	Ask(ctx context.Context, r models.Record) (string, error)
}
