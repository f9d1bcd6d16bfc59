package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"fjacquet/expense-ledger/internal/categorizer"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coffee(t *testing.T) models.Record {
	t.Helper()
	r, err := models.NewRecord(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "COFFEE SHOP",
		decimal.RequireFromString("4.5"), models.CurrencyCHF, "")
	require.NoError(t, err)
	return r
}

func TestConsolePrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePrompter(strings.NewReader(" r \n"), &out)
	p.SetColor(false)

	answer, err := p.Ask(context.Background(), coffee(t))
	require.NoError(t, err)
	assert.Equal(t, "r", answer)

	printed := out.String()
	assert.Contains(t, printed, "COFFEE SHOP")
	assert.Contains(t, printed, "2024-03-01")
	assert.Contains(t, printed, "4.50 CHF")
	assert.Contains(t, printed, "     r: RESTAURANT\n")
	assert.Contains(t, printed, "   tbr: TO_BE_REIMBURSED\n")
	assert.NotContains(t, printed, "UNSORTED")
}

func TestConsolePrompter_RetryNotice(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePrompter(strings.NewReader("zz\ng\n"), &out)
	p.SetColor(false)
	r := coffee(t)

	_, err := p.Ask(context.Background(), r)
	require.NoError(t, err)
	out.Reset()

	answer, err := p.Ask(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "g", answer)
	assert.Equal(t, "invalid choice, try again\n", out.String())
}

func TestConsolePrompter_EOF(t *testing.T) {
	p := NewConsolePrompter(strings.NewReader("e"), io.Discard)

	answer, err := p.Ask(context.Background(), coffee(t))
	require.NoError(t, err)
	assert.Equal(t, "e", answer)

	_, err = p.Ask(context.Background(), coffee(t))
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsolePrompter_WithCategorizer(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePrompter(strings.NewReader("nope\nu\nss\n"), &out)
	p.SetColor(false)
	ledger := models.NewLedger()
	ledger.Add(coffee(t))

	stats, err := categorizer.NewCategorizer(p, nil).CategorizeLedger(context.Background(), ledger)
	require.NoError(t, err)

	assert.Equal(t, models.CategorySightseeing, ledger.Record(0).Category)
	assert.Equal(t, 2, stats.InvalidAnswers)
	assert.Equal(t, 2, strings.Count(out.String(), "invalid choice, try again"))
}

func TestFixedOracle(t *testing.T) {
	o, err := NewFixedOracle("OTHER")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, o.Category())

	answer, err := o.Ask(context.Background(), coffee(t))
	require.NoError(t, err)
	assert.Equal(t, "o", answer)

	for _, bad := range []string{"u", "", "nope"} {
		_, err := NewFixedOracle(bad)
		var invalid *parsererror.InvalidCategoryError
		assert.True(t, errors.As(err, &invalid), bad)
	}
}
