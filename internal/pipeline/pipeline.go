// Package pipeline drives one ingestion run: detect the format of every
// input file, parse it, merge the records into the stored ledger, optionally
// categorize, and save the ledger once.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/expense-ledger/internal/categorizer"
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/merge"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parser"
	"fjacquet/expense-ledger/internal/parsererror"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
)

// Detector picks the source format of an input file.
type Detector interface {
	Detect(filePath string) (models.SourceFormat, error)
}

// ParserProvider returns a parser for a source format.
type ParserProvider interface {
	GetParser(format models.SourceFormat) (parser.Parser, error)
}

// LedgerStore loads and persists the ledger.
type LedgerStore interface {
	Load() (*models.Ledger, error)
	Save(ledger *models.Ledger) error
}

// LedgerCategorizer runs the categorization pass.
type LedgerCategorizer interface {
	CategorizeLedger(ctx context.Context, ledger *models.Ledger) (categorizer.Stats, error)
}

// FileReport is the outcome of one input file.
type FileReport struct {
	Path       string
	Format     models.SourceFormat
	Parsed     int
	Added      int
	Duplicates int
	Skipped    []parsererror.RowSkipError
	Range      merge.DateRange
	// Err is set when the file was left out of the run.
	Err error
}

// Report is the outcome of a run.
type Report struct {
	Files      []FileReport
	Added      int
	Duplicates int
	// Range spans the dates of all added records.
	Range merge.DateRange
	// Categorization is set when the categorization pass ran.
	Categorization *categorizer.Stats
	Total          int
}

// Failed returns the reports of the files left out of the run.
func (r *Report) Failed() []FileReport {
	var failed []FileReport
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// SkippedRows returns how many rows were skipped over all files.
func (r *Report) SkippedRows() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Skipped)
	}
	return n
}

// Options controls a run.
type Options struct {
	// Categorize runs the categorization pass after merging.
	Categorize bool
	// Progress receives a progress bar over the input files when set.
	Progress io.Writer
	// DryRun skips saving the ledger.
	DryRun bool
}

// Pipeline wires the run's collaborators.
type Pipeline struct {
	fs          afero.Fs
	detector    Detector
	parsers     ParserProvider
	store       LedgerStore
	categorizer LedgerCategorizer
	logger      logging.Logger
}

// New creates a pipeline reading input files from fs. A nil fs means the OS
// filesystem. cat may be nil when runs never categorize.
func New(fs afero.Fs, detector Detector, parsers ParserProvider, store LedgerStore, cat LedgerCategorizer, logger logging.Logger) *Pipeline {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Pipeline{
		fs:          fs,
		detector:    detector,
		parsers:     parsers,
		store:       store,
		categorizer: cat,
		logger:      logging.OrDefault(logger),
	}
}

// Run ingests paths in order. A file that cannot be detected, opened or
// parsed is reported and skipped; the remaining files still run. A store
// that cannot be loaded or saved fails the run. When the categorization pass
// stops on an error, the ledger is saved with the categories assigned so far
// and the error is returned along with the report.
func (p *Pipeline) Run(ctx context.Context, paths []string, opts Options) (*Report, error) {
	ledger, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading ledger: %w", err)
	}

	report := &Report{Files: make([]FileReport, 0, len(paths))}
	bar := p.newProgressBar(opts.Progress, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		fr := p.ingestFile(path, ledger)
		report.Files = append(report.Files, fr)
		if fr.Err == nil {
			report.Added += fr.Added
			report.Duplicates += fr.Duplicates
			report.Range = report.Range.Merge(fr.Range)
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				p.logger.WithError(err).Debug("Failed to update progress bar")
			}
		}
	}

	var catErr error
	if opts.Categorize && p.categorizer != nil {
		stats, err := p.categorizer.CategorizeLedger(ctx, ledger)
		report.Categorization = &stats
		catErr = err
	}

	report.Total = ledger.Len()
	if opts.DryRun {
		p.logger.Info("Dry run, ledger not saved",
			logging.Field{Key: logging.FieldAdded, Value: report.Added})
	} else if err := p.store.Save(ledger); err != nil {
		return report, fmt.Errorf("error saving ledger: %w", err)
	}

	p.logger.Info("Run finished",
		logging.Field{Key: "files", Value: len(paths)},
		logging.Field{Key: "failed_files", Value: len(report.Failed())},
		logging.Field{Key: logging.FieldAdded, Value: report.Added},
		logging.Field{Key: logging.FieldDuplicates, Value: report.Duplicates},
		logging.Field{Key: logging.FieldSkipped, Value: report.SkippedRows()},
		logging.Field{Key: logging.FieldCount, Value: report.Total})

	if catErr != nil {
		return report, catErr
	}
	return report, nil
}

// Label runs only the categorization pass over the stored ledger and saves it.
func (p *Pipeline) Label(ctx context.Context) (*Report, error) {
	return p.Run(ctx, nil, Options{Categorize: true})
}

// ingestFile merges the records of one file into ledger. Failures are
// returned in the report so the caller can go on with the next file.
func (p *Pipeline) ingestFile(path string, ledger *models.Ledger) FileReport {
	fr := FileReport{Path: path}
	logger := p.logger.WithFields(logging.Field{Key: logging.FieldFile, Value: filepath.Base(path)})

	format, err := p.detector.Detect(path)
	if err != nil {
		fr.Err = err
		logger.WithError(err).Warn("Skipping file with unrecognized format")
		return fr
	}
	fr.Format = format

	prs, err := p.parsers.GetParser(format)
	if err != nil {
		fr.Err = err
		logger.WithError(err).Error("No parser for format")
		return fr
	}

	records, err := parser.ParseFile(p.fs, prs, path)
	fr.Skipped = prs.Skipped()
	if err != nil {
		fr.Err = err
		logger.WithError(err).Error("Failed to parse file")
		return fr
	}
	fr.Parsed = len(records)

	result := merge.Merge(ledger, records)
	fr.Added = len(result.Added)
	fr.Duplicates = result.Duplicates
	fr.Range = result.AddedRange

	logger.Info(fmt.Sprintf("found %d new items", fr.Added),
		logging.Field{Key: logging.FieldFormat, Value: format.String()},
		logging.Field{Key: logging.FieldAdded, Value: fr.Added},
		logging.Field{Key: logging.FieldDuplicates, Value: fr.Duplicates},
		logging.Field{Key: logging.FieldSkipped, Value: len(fr.Skipped)})
	return fr
}

func (p *Pipeline) newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if w == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing files"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}
