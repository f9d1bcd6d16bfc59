// Package container provides dependency injection for the expense-ledger
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"
	"io"
	"os"

	"fjacquet/expense-ledger/internal/categorizer"
	"fjacquet/expense-ledger/internal/config"
	"fjacquet/expense-ledger/internal/detector"
	"fjacquet/expense-ledger/internal/factory"
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/pipeline"
	"fjacquet/expense-ledger/internal/prompt"
	"fjacquet/expense-ledger/internal/report"
	"fjacquet/expense-ledger/internal/store"

	"github.com/spf13/afero"
)

// Options overrides the process-wide collaborators of a container. Zero
// values fall back to the OS filesystem, stdin and stdout, and a logger
// built from the configuration.
type Options struct {
	Fs     afero.Fs
	In     io.Reader
	Out    io.Writer
	Logger logging.Logger
	// NoColor disables colors in the console prompter.
	NoColor bool
}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	fs          afero.Fs
	detector    *detector.Detector
	parsers     *factory.Registry
	ledgerStore *store.LedgerStore
	ruleStore   *store.RuleStore
	keyword     *categorizer.KeywordStrategy
	oracle      categorizer.Oracle
	categorizer *categorizer.Categorizer
	pipeline    *pipeline.Pipeline
	generator   *report.Generator
}

// NewContainer creates and wires all application dependencies on the OS
// filesystem and the process's standard streams.
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithOptions(cfg, Options{})
}

// NewContainerWithOptions is NewContainer with overridable collaborators.
func NewContainerWithOptions(cfg *config.Config, opts Options) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = cfg.NewLogger()
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	ledgerStore := store.NewLedgerStore(fs, cfg.Store.File, logger)
	ruleStore := store.NewRuleStore(fs, cfg.Store.RulesFile, logger)
	keyword, err := categorizer.NewKeywordStrategyFromSource(ruleStore, cfg.Categorization.CaseSensitive, logger)
	if err != nil {
		return nil, err
	}

	oracle, err := newOracle(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid default category: %w", err)
	}

	cat := categorizer.NewCategorizer(oracle, logger, keyword)
	det := detector.New(logger)
	parsers := factory.DefaultRegistry(logger)

	logger.Info("Container initialized successfully",
		logging.Field{Key: "parsers_count", Value: len(parsers.Formats())},
		logging.Field{Key: "rules_count", Value: len(keyword.Rules())},
		logging.Field{Key: logging.FieldStoreFile, Value: cfg.Store.File},
		logging.Field{Key: "unattended", Value: cfg.Categorization.DefaultCategory != ""})

	return &Container{
		logger:      logger,
		config:      cfg,
		fs:          fs,
		detector:    det,
		parsers:     parsers,
		ledgerStore: ledgerStore,
		ruleStore:   ruleStore,
		keyword:     keyword,
		oracle:      oracle,
		categorizer: cat,
		pipeline:    pipeline.New(fs, det, parsers, ledgerStore, cat, logger),
		generator:   report.NewGenerator(logger),
	}, nil
}

func newOracle(cfg *config.Config, opts Options) (categorizer.Oracle, error) {
	if cfg.Categorization.DefaultCategory != "" {
		return prompt.NewFixedOracle(cfg.Categorization.DefaultCategory)
	}

	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	console := prompt.NewConsolePrompter(in, out)
	if opts.NoColor {
		console.SetColor(false)
	}
	return console, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetFs returns the filesystem every component reads and writes.
func (c *Container) GetFs() afero.Fs {
	return c.fs
}

// GetDetector returns the format detector.
func (c *Container) GetDetector() *detector.Detector {
	return c.detector
}

// GetParsers returns the parser registry.
func (c *Container) GetParsers() *factory.Registry {
	return c.parsers
}

// GetLedgerStore returns the ledger store.
func (c *Container) GetLedgerStore() *store.LedgerStore {
	return c.ledgerStore
}

// GetRuleStore returns the keyword rule store.
func (c *Container) GetRuleStore() *store.RuleStore {
	return c.ruleStore
}

// GetKeywordStrategy returns the rule-based categorization strategy.
func (c *Container) GetKeywordStrategy() *categorizer.KeywordStrategy {
	return c.keyword
}

// GetOracle returns the oracle asked when no rule matches.
func (c *Container) GetOracle() categorizer.Oracle {
	return c.oracle
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetPipeline returns the ingestion pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetReportGenerator returns the summary renderer.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	// Currently no resources need explicit cleanup
	c.logger.Debug("Container closed")
	return nil
}
