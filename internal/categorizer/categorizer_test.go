package categorizer

import (
	"context"
	"errors"
	"io"
	"testing"

	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedOracle replays answers in order and fails with io.EOF once they run out.
type scriptedOracle struct {
	answers []string
	asked   []string
}

func (o *scriptedOracle) Ask(_ context.Context, r models.Record) (string, error) {
	o.asked = append(o.asked, r.Description)
	if len(o.answers) == 0 {
		return "", io.EOF
	}
	answer := o.answers[0]
	o.answers = o.answers[1:]
	return answer, nil
}

type failingStrategy struct{}

func (failingStrategy) Name() string { return "Failing" }

func (failingStrategy) Categorize(context.Context, models.Record) (models.Category, bool, error) {
	return "", false, errors.New("strategy broke")
}

func ledgerOf(records ...models.Record) *models.Ledger {
	l := models.NewLedger()
	for _, r := range records {
		l.Add(r)
	}
	return l
}

func categories(l *models.Ledger) []models.Category {
	var out []models.Category
	for _, r := range l.Records() {
		out = append(out, r.Category)
	}
	return out
}

func TestCategorizeLedger_KeywordBeforeOracle(t *testing.T) {
	keyword := NewKeywordStrategy([]models.CategoryRule{
		{Category: models.CategoryGrocery, Keywords: []string{"MIGROS"}},
	}, false, nil)
	oracle := &scriptedOracle{answers: []string{"r"}}
	c := NewCategorizer(oracle, logging.NewMockLogger(), keyword)

	ledger := ledgerOf(newRecord(t, "MIGROS BERN", ""), newRecord(t, "COFFEE SHOP", ""))

	stats, err := c.CategorizeLedger(context.Background(), ledger)
	require.NoError(t, err)

	assert.Equal(t, []models.Category{models.CategoryGrocery, models.CategoryRestaurant}, categories(ledger))
	assert.Equal(t, []string{"COFFEE SHOP"}, oracle.asked)
	assert.Equal(t, 2, stats.Examined)
	assert.Equal(t, 2, stats.Categorized())
	assert.Equal(t, "Keyword:1, Oracle:1", stats.Summary())
}

func TestCategorizeLedger_SkipsAlreadyCategorized(t *testing.T) {
	done := newRecord(t, "RENT MARCH", "")
	done.Category = models.CategoryRent
	oracle := &scriptedOracle{answers: []string{"g"}}
	ledger := ledgerOf(done, newRecord(t, "BAKERY", ""))

	stats, err := NewCategorizer(oracle, nil).CategorizeLedger(context.Background(), ledger)
	require.NoError(t, err)

	assert.Equal(t, []string{"BAKERY"}, oracle.asked)
	assert.Equal(t, 1, stats.Examined)
	assert.Equal(t, []models.Category{models.CategoryRent, models.CategoryGrocery}, categories(ledger))
}

func TestCategorizeLedger_RepromptsOnInvalidAnswer(t *testing.T) {
	oracle := &scriptedOracle{answers: []string{"x", "u", "", "GROCERY"}}
	mockLog := logging.NewMockLogger()
	ledger := ledgerOf(newRecord(t, "BAKERY", ""))

	stats, err := NewCategorizer(oracle, mockLog).CategorizeLedger(context.Background(), ledger)
	require.NoError(t, err)

	assert.Equal(t, models.CategoryGrocery, ledger.Record(0).Category)
	assert.Len(t, oracle.asked, 4)
	assert.Equal(t, 3, stats.InvalidAnswers)
	assert.Len(t, mockLog.GetEntriesByLevel("WARN"), 3)
}

func TestCategorizeLedger_OracleErrorAborts(t *testing.T) {
	oracle := &scriptedOracle{answers: []string{"g"}}
	ledger := ledgerOf(newRecord(t, "FIRST", ""), newRecord(t, "SECOND", ""), newRecord(t, "THIRD", ""))

	stats, err := NewCategorizer(oracle, nil).CategorizeLedger(context.Background(), ledger)

	var catErr *parsererror.CategorizationError
	require.True(t, errors.As(err, &catErr))
	assert.Equal(t, OracleStrategyName, catErr.Strategy)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, stats.Categorized())
	assert.Equal(t,
		[]models.Category{models.CategoryGrocery, models.CategoryUnsorted, models.CategoryUnsorted},
		categories(ledger))
}

func TestCategorizeLedger_StrategyErrorAborts(t *testing.T) {
	ledger := ledgerOf(newRecord(t, "FIRST", ""))

	_, err := NewCategorizer(&scriptedOracle{}, nil, failingStrategy{}).CategorizeLedger(context.Background(), ledger)

	var catErr *parsererror.CategorizationError
	require.True(t, errors.As(err, &catErr))
	assert.Equal(t, "Failing", catErr.Strategy)
}

func TestCategorizeLedger_WithoutOracle(t *testing.T) {
	keyword := NewKeywordStrategy([]models.CategoryRule{
		{Category: models.CategoryTransportation, Keywords: []string{"SBB"}},
	}, false, nil)
	ledger := ledgerOf(newRecord(t, "SBB TICKET", ""), newRecord(t, "UNKNOWN", ""))

	stats, err := NewCategorizer(nil, nil, keyword).CategorizeLedger(context.Background(), ledger)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Unresolved)
	assert.Equal(t, []models.Category{models.CategoryTransportation, models.CategoryUnsorted}, categories(ledger))
}

func TestCategorizeLedger_NeverReordersOrChangesOtherFields(t *testing.T) {
	before := []models.Record{newRecord(t, "B", "note"), newRecord(t, "A", "")}
	ledger := ledgerOf(before...)

	_, err := NewCategorizer(&scriptedOracle{answers: []string{"o", "e"}}, nil).CategorizeLedger(context.Background(), ledger)
	require.NoError(t, err)

	for i, r := range ledger.Records() {
		assert.Equal(t, before[i].Identity(), r.Identity())
		assert.Equal(t, before[i].Comment, r.Comment)
	}
}

func TestCategorizeLedger_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCategorizer(&scriptedOracle{answers: []string{"g"}}, nil).
		CategorizeLedger(ctx, ledgerOf(newRecord(t, "A", "")))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseAnswer(t *testing.T) {
	for _, in := range []string{"g", "G", " tbr ", "RESTAURANT"} {
		_, err := ParseAnswer(in)
		assert.NoError(t, err, in)
	}
	for _, in := range []string{"", "u", "UNSORTED", "grocery store"} {
		_, err := ParseAnswer(in)
		var invalid *parsererror.InvalidCategoryError
		assert.True(t, errors.As(err, &invalid), in)
	}
}
