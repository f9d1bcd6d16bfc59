package store

import (
	"errors"
	"fmt"
	"os"

	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultRulesFile is the rule file name used when none is configured.
const DefaultRulesFile = "rules.yaml"

type rulesFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// RuleStore reads the ordered keyword rules used by the categorizer.
type RuleStore struct {
	fs     afero.Fs
	path   string
	logger logging.Logger
}

// NewRuleStore creates a rule store for path on fs. A nil fs means the OS
// filesystem; an empty path means DefaultRulesFile.
func NewRuleStore(fs afero.Fs, path string, logger logging.Logger) *RuleStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		path = DefaultRulesFile
	}
	return &RuleStore{
		fs:     fs,
		path:   path,
		logger: logging.OrDefault(logger),
	}
}

// Path returns the rule file path.
func (s *RuleStore) Path() string {
	return s.path
}

// LoadRules returns the rules in file order. A missing file means no rules.
// The category of a rule may be written as a code ("g") or a name
// ("GROCERY").
func (s *RuleStore) LoadRules() ([]models.CategoryRule, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Rules file not found, keyword categorization disabled",
				logging.Field{Key: logging.FieldRulesFile, Value: s.path})
			return []models.CategoryRule{}, nil
		}
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", s.path, err)
	}

	rules := make([]models.CategoryRule, 0, len(file.Rules))
	for i, entry := range file.Rules {
		category, err := models.ParseCategory(entry.Category)
		if err != nil {
			return nil, fmt.Errorf("rule %d in %s: %w", i+1, s.path, err)
		}
		rule := models.CategoryRule{Category: category, Keywords: entry.Keywords}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d in %s: %w", i+1, s.path, err)
		}
		rules = append(rules, rule)
	}

	s.logger.Debug("Loaded categorization rules",
		logging.Field{Key: logging.FieldRulesFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return rules, nil
}
