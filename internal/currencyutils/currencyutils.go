// Package currencyutils provides amount parsing and the static conversion table.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

var currencyNoise = regexp.MustCompile(`(?:CHF|[€$£¥₣\s])`)

// ParseAmount parses a string representation of an amount into a decimal value
// It handles formats like "1'234.56", "1.234,56", "1234.56", "1234,56".
// A blank value is zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount converts the separators found in bank exports to the form
// accepted by decimal.NewFromString.
func StandardizeAmount(amountStr string) string {
	amountStr = currencyNoise.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	switch {
	case strings.Contains(amountStr, ",") && strings.Contains(amountStr, "."):
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// 1.234,56
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// 1,234.56
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case strings.Contains(amountStr, ","):
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			amountStr = strings.Replace(amountStr, ",", ".", 1)
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	return amountStr
}

// FormatAmount renders amount with two decimals followed by the ISO code.
func FormatAmount(amount decimal.Decimal, currency models.Currency) string {
	return amount.StringFixed(2) + " " + currency.ISO()
}

type conversionOp int

const (
	opMultiply conversionOp = iota
	opDivide
)

type rate struct {
	op     conversionOp
	factor decimal.Decimal
}

type pair struct {
	from, to models.Currency
}

// Static placeholder rates. Only listed (from, to) pairs can be converted.
var conversionTable = map[pair]rate{
	{models.CurrencyJPY, models.CurrencyCHF}: {opDivide, decimal.NewFromInt(140)},
	{models.CurrencyEUR, models.CurrencyCHF}: {opMultiply, decimal.NewFromInt(1)},
	{models.CurrencyGBP, models.CurrencyCHF}: {opMultiply, decimal.RequireFromString("1.1")},
	{models.CurrencyUSD, models.CurrencyCHF}: {opMultiply, decimal.RequireFromString("0.9")},
}

// Convert converts amount from one currency to another. Same-currency
// conversion is the identity; any pair missing from the table fails with
// a ConversionUnsupportedError.
func Convert(amount decimal.Decimal, from, to models.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	r, ok := conversionTable[pair{from, to}]
	if !ok {
		return decimal.Zero, &parsererror.ConversionUnsupportedError{From: from.ISO(), To: to.ISO()}
	}
	if r.op == opDivide {
		return amount.DivRound(r.factor, 8), nil
	}
	return amount.Mul(r.factor), nil
}
