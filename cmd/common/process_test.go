package common_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"fjacquet/expense-ledger/cmd/common"
	"fjacquet/expense-ledger/internal/categorizer"
	"fjacquet/expense-ledger/internal/merge"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parsererror"
	"fjacquet/expense-ledger/internal/pipeline"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExportFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, path := range []string{
		"/exports/b.csv",
		"/exports/a.CSV",
		"/exports/notes.txt",
		"/exports/expense_database.csv",
		"/exports/nested/c.csv",
		"/other/single.csv",
	} {
		require.NoError(t, afero.WriteFile(fs, path, []byte("x"), 0600))
	}
	return fs
}

func TestResolveInputs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		exclude []string
		want    []string
		wantErr bool
	}{
		{
			name: "default directory",
			want: []string{"/exports/a.CSV", "/exports/b.csv", "/exports/expense_database.csv"},
		},
		{
			name:    "store file excluded by path",
			exclude: []string{"/exports/expense_database.csv"},
			want:    []string{"/exports/a.CSV", "/exports/b.csv"},
		},
		{
			name:    "store file excluded by name",
			exclude: []string{"expense_database.csv"},
			want:    []string{"/exports/a.CSV", "/exports/b.csv"},
		},
		{
			name: "explicit file and directory keep argument order",
			args: []string{"/other/single.csv", "/exports/nested"},
			want: []string{"/other/single.csv", "/exports/nested/c.csv"},
		},
		{
			name:    "missing input",
			args:    []string{"/nowhere.csv"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := common.ResolveInputs(newExportFs(t), tt.args, "/exports", tt.exclude...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintRunReport(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	report := &pipeline.Report{
		Files: []pipeline.FileReport{
			{
				Path:       "/in/1234567-01_Bookings_31-03-2024.csv",
				Format:     models.FormatCSX,
				Added:      2,
				Duplicates: 1,
				Skipped: []parsererror.RowSkipError{
					{FilePath: "bookings.csv", Row: 2, Field: "Booking Date", Value: "2024-03-02", Err: errors.New("bad date")},
				},
			},
			{
				Path: "/in/notes.txt",
				Err:  &parsererror.UnrecognizedFormatError{FilePath: "notes.txt"},
			},
		},
		Added: 2,
		Range: merge.DateRange{Start: day(1), End: day(3)},
		Total: 7,
		Categorization: &categorizer.Stats{
			Examined:   3,
			ByStrategy: map[string]int{"Keyword": 1, "Oracle": 1},
			Unresolved: 1,
		},
	}

	var out bytes.Buffer
	common.PrintRunReport(&out, report)

	text := out.String()
	assert.Contains(t, text, "1234567-01_Bookings_31-03-2024.csv (csx): found 2 new items (1 already known, 1 rows skipped)")
	assert.Contains(t, text, "skipped row 2 of 'bookings.csv'")
	assert.Contains(t, text, "notes.txt: not imported:")
	assert.Contains(t, text, "Added 2 transactions dated 2024-03-01_2024-03-03, ledger holds 7")
	assert.Contains(t, text, "Categorized 2 of 3 transactions (Keyword:1, Oracle:1)")
	assert.Contains(t, text, "1 transactions are still unsorted")
}

func TestPrintRunReport_LabelOnly(t *testing.T) {
	var out bytes.Buffer
	common.PrintRunReport(&out, &pipeline.Report{Categorization: &categorizer.Stats{}})

	assert.Equal(t, "Categorized 0 of 0 transactions\n", out.String())
}

func TestContext(t *testing.T) {
	cmd := &cobra.Command{}
	assert.NotNil(t, common.Context(cmd))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd.SetContext(ctx)
	assert.Equal(t, ctx, common.Context(cmd))
}
