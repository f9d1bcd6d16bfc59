package debitparser

import (
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parser"
)

// Adapter implements parser.Parser for Visa Debit card exports.
type Adapter struct {
	parser.BaseParser
}

// NewAdapter creates a new adapter for the debitparser.
func NewAdapter(logger logging.Logger) *Adapter {
	return &Adapter{
		BaseParser: parser.NewBaseParser(models.FormatVisaDebit, logger),
	}
}
