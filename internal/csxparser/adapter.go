package csxparser

import (
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parser"
)

// Adapter implements parser.Parser for Credit Suisse bookings exports.
type Adapter struct {
	parser.BaseParser
}

// NewAdapter creates a new adapter for the csxparser.
func NewAdapter(logger logging.Logger) *Adapter {
	return &Adapter{
		BaseParser: parser.NewBaseParser(models.FormatCSX, logger),
	}
}
