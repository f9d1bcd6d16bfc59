// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/expense-ledger/internal/config"
	"fjacquet/expense-ledger/internal/container"
	"fjacquet/expense-ledger/internal/logging"

	"github.com/spf13/cobra"
)

// GlobalFlags holds the persistent flags shared by every command. A flag
// overrides the configuration only when it was set on the command line.
type GlobalFlags struct {
	ConfigFile      string
	LogLevel        string
	LogFormat       string
	StoreFile       string
	RulesFile       string
	DefaultCategory string
	NoColor         bool
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "expense-ledger",
		Short: "Import bank exports into one deduplicated, categorized expense ledger.",
		Long: `expense-ledger reads transaction exports from several banks (CSX, Wise,
Revolut, Visa Debit), merges them into a single CSV ledger without storing
any transaction twice, asks for the category of new transactions and prints
weekly or monthly expense summaries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer != nil {
				if err := appContainer.Close(); err != nil {
					appContainer.GetLogger().WithError(err).Warn("Failed to close container")
				}
			}
		},
	}

	// Flags are the persistent flags of Cmd.
	Flags = GlobalFlags{}

	// ContainerOptions overrides the collaborators of the container built
	// before each command runs.
	ContainerOptions container.Options

	appContainer *container.Container
	initOnce     sync.Once
)

func init() {
	// Assigned here rather than in the Cmd literal: initContainer reads Cmd's
	// flags, which would otherwise form an initialization cycle.
	Cmd.PersistentPreRunE = initContainer
}

// Init registers the persistent flags. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		pf := Cmd.PersistentFlags()
		pf.StringVar(&Flags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.expense-ledger, ./.expense-ledger or .)")
		pf.StringVar(&Flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
		pf.StringVar(&Flags.LogFormat, "log-format", "", "Log format (text or json)")
		pf.StringVarP(&Flags.StoreFile, "store", "s", "", "Ledger CSV file")
		pf.StringVarP(&Flags.RulesFile, "rules", "r", "", "Keyword rules YAML file")
		pf.StringVar(&Flags.DefaultCategory, "default-category", "", "Answer every category question with this category instead of asking")
		pf.BoolVar(&Flags.NoColor, "no-color", false, "Disable colored prompts")
	})
}

// initContainer loads the configuration, applies the command-line overrides
// and wires the container used by the command.
func initContainer(cmd *cobra.Command, args []string) error {
	config.LoadEnv(ContainerOptions.Logger)

	cfg, err := config.InitializeConfigWithFile(Flags.ConfigFile)
	if err != nil {
		return err
	}

	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := ContainerOptions
	opts.NoColor = opts.NoColor || Flags.NoColor
	c, err := container.NewContainerWithOptions(cfg, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	appContainer = c
	return nil
}

// applyOverrides copies the persistent flags set on the command line into
// cfg. Subcommands share the flag values of Cmd.
func applyOverrides(cfg *config.Config) {
	changed := func(name string) bool {
		f := Cmd.PersistentFlags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("log-level") {
		cfg.Log.Level = Flags.LogLevel
	}
	if changed("log-format") {
		cfg.Log.Format = Flags.LogFormat
	}
	if changed("store") {
		cfg.Store.File = Flags.StoreFile
	}
	if changed("rules") {
		cfg.Store.RulesFile = Flags.RulesFile
	}
	if changed("default-category") {
		cfg.Categorization.DefaultCategory = Flags.DefaultCategory
	}
}

// GetContainer returns the container of the running command, or nil before
// the command started.
func GetContainer() *container.Container {
	return appContainer
}

// GetConfig returns the configuration of the running command, or nil.
func GetConfig() *config.Config {
	if appContainer == nil {
		return nil
	}
	return appContainer.GetConfig()
}

// GetLogger returns the logger of the running command, falling back to the
// default logger before the container exists.
func GetLogger() logging.Logger {
	if appContainer == nil {
		return logging.OrDefault(nil)
	}
	return appContainer.GetLogger()
}

// RequireContainer returns the container or an error telling that the command
// ran without the root pre-run hook.
func RequireContainer() (*container.Container, error) {
	if appContainer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return appContainer, nil
}
