package models

import (
	"fmt"
	"strings"
)

// Currency is the persisted code of a currency. Adding a currency also needs a
// conversion rule in currencyutils.
type Currency string

const (
	CurrencyJPY Currency = "jpy"
	CurrencyCHF Currency = "chf"
	CurrencyEUR Currency = "eur"
	CurrencyGBP Currency = "gbp"
	CurrencyUSD Currency = "usd"
)

var currencyTable = []Currency{
	CurrencyJPY,
	CurrencyCHF,
	CurrencyEUR,
	CurrencyGBP,
	CurrencyUSD,
}

// Currencies returns every known currency.
func Currencies() []Currency {
	return append([]Currency(nil), currencyTable...)
}

// ParseCurrency accepts a stored code ("chf") or an ISO token as found in bank
// exports ("CHF").
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown currency %q", s)
	}
	return c, nil
}

// IsValid reports whether c belongs to the closed currency set.
func (c Currency) IsValid() bool {
	for _, known := range currencyTable {
		if known == c {
			return true
		}
	}
	return false
}

// Code returns the persisted code.
func (c Currency) Code() string {
	return string(c)
}

// ISO returns the upper-case ISO 4217 token.
func (c Currency) ISO() string {
	return strings.ToUpper(string(c))
}

func (c Currency) String() string {
	return c.ISO()
}
