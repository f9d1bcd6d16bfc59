package revolutparser

import (
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parser"
)

// Adapter implements parser.Parser for Revolut account statements.
type Adapter struct {
	parser.BaseParser
}

// NewAdapter creates a new adapter for the revolutparser.
func NewAdapter(logger logging.Logger) *Adapter {
	return &Adapter{
		BaseParser: parser.NewBaseParser(models.FormatRevolut, logger),
	}
}
