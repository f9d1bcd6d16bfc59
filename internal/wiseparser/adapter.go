package wiseparser

import (
	"fmt"

	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parser"
)

// variants maps each Wise statement format to the currency it must contain.
var variants = map[models.SourceFormat]models.Currency{
	models.FormatWiseJPY: models.CurrencyJPY,
	models.FormatWiseCHF: models.CurrencyCHF,
	models.FormatWiseEUR: models.CurrencyEUR,
	models.FormatWiseGBP: models.CurrencyGBP,
}

// Adapter implements parser.Parser for one Wise balance statement variant.
type Adapter struct {
	parser.BaseParser
	currency models.Currency
}

// NewAdapter creates an adapter for a Wise variant such as models.FormatWiseCHF.
func NewAdapter(format models.SourceFormat, logger logging.Logger) (*Adapter, error) {
	currency, ok := variants[format]
	if !ok {
		return nil, fmt.Errorf("%s is not a Wise statement format", format)
	}
	return &Adapter{
		BaseParser: parser.NewBaseParser(format, logger),
		currency:   currency,
	}, nil
}

// Formats returns every Wise variant.
func Formats() []models.SourceFormat {
	var out []models.SourceFormat
	for _, f := range models.SourceFormats() {
		if _, ok := variants[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Currency returns the currency the variant asserts on every row.
func (a *Adapter) Currency() models.Currency {
	return a.currency
}
