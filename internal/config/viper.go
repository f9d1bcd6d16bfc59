package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration,
// e.g. LEDGER_STORE_FILE for store.file.
const EnvPrefix = "LEDGER"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Store struct {
		File      string `mapstructure:"file" yaml:"file"`
		RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
	} `mapstructure:"store" yaml:"store"`

	Input struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"input" yaml:"input"`

	Report struct {
		Currency    string `mapstructure:"currency" yaml:"currency"`
		Granularity string `mapstructure:"granularity" yaml:"granularity"`
		LastN       int    `mapstructure:"last_n" yaml:"last_n"`
	} `mapstructure:"report" yaml:"report"`

	Categorization struct {
		CaseSensitive bool `mapstructure:"case_sensitive" yaml:"case_sensitive"`
		// DefaultCategory answers every question when set, for unattended runs.
		DefaultCategory string `mapstructure:"default_category" yaml:"default_category"`
	} `mapstructure:"categorization" yaml:"categorization"`
}

// InitializeConfig loads the configuration from config.yaml found in
// $HOME/.expense-ledger, ./.expense-ledger or the current directory, if any.
func InitializeConfig() (*Config, error) {
	return InitializeConfigWithFile("")
}

// InitializeConfigWithFile loads the configuration from configFile, or
// searches the default locations when configFile is empty. An explicit file
// must exist.
func InitializeConfigWithFile(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.expense-ledger")
		v.AddConfigPath(".expense-ledger")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile != "":
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		case errors.As(err, &notFound):
			// defaults and environment only
		default:
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.file", "expense_database.csv")
	v.SetDefault("store.rules_file", "rules.yaml")

	v.SetDefault("input.directory", ".")

	v.SetDefault("report.currency", "chf")
	v.SetDefault("report.granularity", "week")
	v.SetDefault("report.last_n", 10)

	v.SetDefault("categorization.case_sensitive", false)
	v.SetDefault("categorization.default_category", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Store.File) == "" {
		return fmt.Errorf("store.file must not be empty")
	}

	if _, err := models.ParseCurrency(config.Report.Currency); err != nil {
		return fmt.Errorf("report.currency: %w", err)
	}

	switch strings.ToLower(config.Report.Granularity) {
	case "week", "month":
	default:
		return fmt.Errorf("report.granularity must be 'week' or 'month', got: %s", config.Report.Granularity)
	}

	if config.Report.LastN < 0 {
		return fmt.Errorf("report.last_n must not be negative, got: %d", config.Report.LastN)
	}

	if answer := config.Categorization.DefaultCategory; answer != "" {
		c, err := models.ParseCategory(answer)
		if err != nil {
			return fmt.Errorf("categorization.default_category: %w", err)
		}
		if c == models.CategoryUnsorted {
			return fmt.Errorf("categorization.default_category cannot be %s", c.Name())
		}
	}

	return nil
}

// Validate checks the configuration after it has been changed in code, e.g.
// by command-line overrides.
func (c *Config) Validate() error {
	if err := validateConfig(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ReportCurrency returns the configured summary currency.
func (c *Config) ReportCurrency() models.Currency {
	currency, err := models.ParseCurrency(c.Report.Currency)
	if err != nil {
		return models.CurrencyCHF
	}
	return currency
}

// NewLogger creates the application logger from the log settings.
func (c *Config) NewLogger() logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(c.Log.Level), strings.ToLower(c.Log.Format))
}
