package summary

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fjacquet/expense-ledger/internal/config"
	"fjacquet/expense-ledger/internal/container"
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/report"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Store.File = "/ledger.csv"
	cfg.Report.Currency = "chf"
	cfg.Report.Granularity = "week"
	cfg.Report.LastN = 10
	return cfg
}

func changedSet(names ...string) func(string) bool {
	return func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name    string
		flags   Flags
		changed []string
		want    report.Options
		wantErr bool
	}{
		{
			name: "configuration only",
			want: report.Options{
				Granularity: report.GranularityWeek,
				Currency:    models.CurrencyCHF,
				Exclude:     models.NonExpenseCategories(),
				LastN:       10,
			},
		},
		{
			name:    "flags override",
			flags:   Flags{Granularity: "MONTH", Currency: "EUR", LastN: 0, All: true},
			changed: []string{"granularity", "currency", "last"},
			want: report.Options{
				Granularity: report.GranularityMonth,
				Currency:    models.CurrencyEUR,
				LastN:       0,
			},
		},
		{
			name:  "unchanged flag values are ignored",
			flags: Flags{Granularity: "day", Currency: "xxx"},
			want: report.Options{
				Granularity: report.GranularityWeek,
				Currency:    models.CurrencyCHF,
				Exclude:     models.NonExpenseCategories(),
				LastN:       10,
			},
		},
		{name: "bad granularity", flags: Flags{Granularity: "day"}, changed: []string{"granularity"}, wantErr: true},
		{name: "bad currency", flags: Flags{Currency: "sek"}, changed: []string{"currency"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Options(testConfig(), tt.flags, changedSet(tt.changed...))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func seed(t *testing.T, fs afero.Fs) *container.Container {
	t.Helper()
	c, err := container.NewContainerWithOptions(testConfig(), container.Options{
		Fs:     fs,
		In:     strings.NewReader(""),
		Out:    &bytes.Buffer{},
		Logger: logging.NewMockLogger(),
	})
	require.NoError(t, err)

	ledger := models.NewLedger()
	add := func(day int, desc, amount string, cur models.Currency, cat models.Category) {
		r, err := models.NewRecord(time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC), desc,
			decimal.RequireFromString(amount), cur, "")
		require.NoError(t, err)
		r.Category = cat
		ledger.Add(r)
	}
	add(4, "LUNCH", "20", models.CurrencyCHF, models.CategoryRestaurant)
	add(5, "TRAIN", "10", models.CurrencyCHF, models.CategoryTransportation)
	add(6, "SALARY", "-5000", models.CurrencyCHF, models.CategoryIncome)
	require.NoError(t, c.GetLedgerStore().Save(ledger))
	return c
}

func TestRender_JSON(t *testing.T) {
	c := seed(t, afero.NewMemMapFs())
	opts, err := Options(c.GetConfig(), Flags{}, changedSet())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Render(c, opts, report.FormatJSON, &out))

	var decoded struct {
		Categories []string `json:"categories"`
		Buckets    []struct {
			Start string `json:"start"`
			Total string `json:"total"`
		} `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, []string{"RESTAURANT", "TRANSPORTATION"}, decoded.Categories)
	require.Len(t, decoded.Buckets, 1)
	assert.Equal(t, "2024-03-04", decoded.Buckets[0].Start)
	assert.Equal(t, "30.00", decoded.Buckets[0].Total)
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}

func TestRender_TableIncludesAllWhenAsked(t *testing.T) {
	c := seed(t, afero.NewMemMapFs())
	opts, err := Options(c.GetConfig(), Flags{All: true}, changedSet())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Render(c, opts, report.FormatTable, &out))

	assert.Contains(t, out.String(), "INCOME")
	assert.Contains(t, out.String(), "-4970.00")
}

func TestRender_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := seed(t, fs)

	assert.ErrorContains(t, Render(c, report.DefaultOptions(), "xml", &bytes.Buffer{}), "unsupported report format")

	require.NoError(t, afero.WriteFile(fs, "/ledger.csv", []byte("date,description,type,amount,currency,comment\nnot-a-date,A,u,1,chf,\n"), 0600))
	assert.ErrorContains(t, Render(c, report.DefaultOptions(), report.FormatTable, &bytes.Buffer{}), "error loading ledger")
}
