package prompt

import (
	"context"

	"fjacquet/expense-ledger/internal/categorizer"
	"fjacquet/expense-ledger/internal/models"
)

// FixedOracle gives the same answer for every record.
type FixedOracle struct {
	category models.Category
}

// NewFixedOracle creates an oracle always answering answer, given as a
// category code or name. UNSORTED is not an answer.
func NewFixedOracle(answer string) (*FixedOracle, error) {
	category, err := categorizer.ParseAnswer(answer)
	if err != nil {
		return nil, err
	}
	return &FixedOracle{category: category}, nil
}

// Category returns the category every answer names.
func (o *FixedOracle) Category() models.Category {
	return o.category
}

// Ask returns the fixed category code.
func (o *FixedOracle) Ask(ctx context.Context, _ models.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return o.category.Code(), nil
}
