package debitparser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parser"
	"fjacquet/expense-ledger/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := "Bénéficiaire;Date;Montant;Monnaie;Buchungs-Nr.;Referenznummer;Status Kontoführung\n" +
		"PMT CARTE RATP;15.04.2025;-4,21;CHF;;;\n" +
		"PMT CARTE Parking-Relais Lausa;02.04.2025;-4,00;CHF;B-77;R-123;gebucht\n" +
		"RETRAIT BCV MONTREUX FORUM;28.03.2025;-260,00;CHF;;;\n" +
		"REMBOURSEMENT;27.03.2025;12,50;EUR;;;\n"

	a := NewAdapter(logging.NewMockLogger())
	var _ parser.Parser = a

	records, err := a.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "RATP", records[0].Description)
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, "4.21", records[0].Amount.String())
	assert.Empty(t, records[0].Comment)

	assert.Equal(t, "Parking-Relais Lausa", records[1].Description)
	assert.Equal(t, "booking no: B-77, reference: R-123", records[1].Comment)

	assert.Equal(t, "RETRAIT BCV MONTREUX FORUM", records[2].Description)
	assert.Equal(t, "260", records[2].Amount.String())

	assert.Equal(t, "-12.5", records[3].Amount.String())
	assert.Equal(t, models.CurrencyEUR, records[3].Currency)
}

func TestParse_InvalidDateSkipped(t *testing.T) {
	input := "Bénéficiaire;Date;Montant;Monnaie\n" +
		"PMT CARTE A;2025-04-15;-1,00;CHF\n" +
		"PMT CARTE B;16.04.2025;-2,00;CHF\n"

	a := NewAdapter(logging.NewMockLogger())
	records, err := a.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "B", records[0].Description)
	assert.Len(t, a.Skipped(), 1)
}

func TestParse_UnknownCurrencyIsFatal(t *testing.T) {
	input := "Bénéficiaire;Date;Montant;Monnaie\nPMT CARTE A;15.04.2025;-1,00;XXX\n"

	_, err := NewAdapter(logging.NewMockLogger()).Parse(strings.NewReader(input))

	var violation *parsererror.FormatInvariantError
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "Monnaie", violation.Field)
	assert.Equal(t, "visadebit", violation.Format)
}

func TestParse_MissingAmountColumnIsFatal(t *testing.T) {
	input := "Bénéficiaire;Date;Betrag;Monnaie\nPMT CARTE A;15.04.2025;-1,00;CHF\n"

	_, err := NewAdapter(logging.NewMockLogger()).Parse(strings.NewReader(input))

	var violation *parsererror.FormatInvariantError
	require.True(t, errors.As(err, &violation), "got %v", err)
	assert.Equal(t, "header", violation.Field)
	assert.Contains(t, err.Error(), "missing column(s) Montant")
}
