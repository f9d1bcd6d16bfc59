package importcmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"fjacquet/expense-ledger/internal/config"
	"fjacquet/expense-ledger/internal/container"
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/pipeline"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookings = "Bookings\nIBAN,CH00\nCurrency,CHF\nPeriod,March\n\n" +
	"Booking Date,Text,Debit,Credit,Value Date,Balance\n" +
	"01.03.2024,COFFEE SHOP,4.50,,01.03.2024,95.50\n" +
	"02.03.2024,SALARY,,5000.00,02.03.2024,5095.50\n"

func newContainer(t *testing.T, fs afero.Fs, defaultCategory string) *container.Container {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Store.File = "/exports/expense_database.csv"
	cfg.Store.RulesFile = "/exports/rules.yaml"
	cfg.Input.Directory = "/exports"
	cfg.Report.Currency = "chf"
	cfg.Report.Granularity = "week"
	cfg.Categorization.DefaultCategory = defaultCategory

	c, err := container.NewContainerWithOptions(cfg, container.Options{
		Fs:     fs,
		In:     strings.NewReader(""),
		Out:    &bytes.Buffer{},
		Logger: logging.NewMockLogger(),
	})
	require.NoError(t, err)
	return c
}

func TestImport_ScansInputDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/exports/1234567-01_Bookings_31-03-2024.csv", []byte(bookings), 0600))
	c := newContainer(t, fs, "")

	var out bytes.Buffer
	report, err := Import(context.Background(), c, nil, pipeline.Options{}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Added)
	assert.Contains(t, out.String(), "found 2 new items")

	// The ledger now sits in the scanned directory and must not be imported.
	out.Reset()
	report, err = Import(context.Background(), c, nil, pipeline.Options{}, &out)
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Zero(t, report.Added)
	assert.Equal(t, 2, report.Duplicates)
}

func TestImport_CategorizeUnattended(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/downloads/1234567-01_Bookings_31-03-2024.csv"
	require.NoError(t, afero.WriteFile(fs, path, []byte(bookings), 0600))
	c := newContainer(t, fs, "o")

	var out bytes.Buffer
	report, err := Import(context.Background(), c, []string{path}, pipeline.Options{Categorize: true}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Categorization.Categorized())
	assert.Contains(t, out.String(), "Categorized 2 of 2 transactions (Oracle:2)")

	ledger, err := c.GetLedgerStore().Load()
	require.NoError(t, err)
	require.Equal(t, 2, ledger.Len())
	for _, r := range ledger.Records() {
		assert.Equal(t, models.CategoryOther, r.Category)
	}
}

func TestImport_NoFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/exports", 0750))
	c := newContainer(t, fs, "")

	var out bytes.Buffer
	report, err := Import(context.Background(), c, nil, pipeline.Options{}, &out)
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.Contains(t, out.String(), "No export files found")

	exists, err := afero.Exists(fs, "/exports/expense_database.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestImport_MissingInput(t *testing.T) {
	c := newContainer(t, afero.NewMemMapFs(), "")

	_, err := Import(context.Background(), c, []string{"/missing.csv"}, pipeline.Options{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "input not found")
}

func TestCmd_Metadata(t *testing.T) {
	assert.Equal(t, "import [file or directory...]", Cmd.Use)
	assert.NotNil(t, Cmd.Flags().Lookup("categorize"))
	assert.NotNil(t, Cmd.Flags().Lookup("dry-run"))
	assert.Contains(t, Cmd.Long, "0123456-01_Bookings_31-01-2024.csv")
	assert.Contains(t, Cmd.Long, "VisaDebit_4711_20240131.csv")
}
