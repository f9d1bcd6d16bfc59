package categorizer

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
)

// KeywordStrategy matches records against ordered keyword rules. The first
// rule with a keyword contained in the description or the comment wins.
type KeywordStrategy struct {
	rules         []models.CategoryRule
	caseSensitive bool
	logger        logging.Logger
}

// NewKeywordStrategy creates a strategy over a fixed rule list.
func NewKeywordStrategy(rules []models.CategoryRule, caseSensitive bool, logger logging.Logger) *KeywordStrategy {
	return &KeywordStrategy{
		rules:         rules,
		caseSensitive: caseSensitive,
		logger:        logging.OrDefault(logger),
	}
}

// NewKeywordStrategyFromSource creates a strategy whose rules are loaded from
// source. A source that fails to load is an error; a nil source means no
// rules.
func NewKeywordStrategyFromSource(source RuleSource, caseSensitive bool, logger logging.Logger) (*KeywordStrategy, error) {
	s := NewKeywordStrategy(nil, caseSensitive, logger)
	if source == nil {
		return s, nil
	}
	rules, err := source.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("error loading keyword rules: %w", err)
	}
	s.rules = rules
	s.logger.WithField(logging.FieldCount, len(rules)).Debug("Loaded rules for KeywordStrategy")
	return s, nil
}

// Name returns the name of this strategy for logging and statistics.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Rules returns the rules in match order.
func (s *KeywordStrategy) Rules() []models.CategoryRule {
	return append([]models.CategoryRule(nil), s.rules...)
}

// Categorize returns the category of the first matching rule.
func (s *KeywordStrategy) Categorize(ctx context.Context, r models.Record) (models.Category, bool, error) {
	description := s.normalize(r.Description)
	comment := s.normalize(r.Comment)

	for _, rule := range s.rules {
		for _, keyword := range rule.Keywords {
			if strings.TrimSpace(keyword) == "" {
				continue
			}
			k := s.normalize(keyword)
			if strings.Contains(description, k) || strings.Contains(comment, k) {
				s.logger.WithFields(
					logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
					logging.Field{Key: logging.FieldDescription, Value: r.Description},
					logging.Field{Key: "keyword", Value: keyword},
					logging.Field{Key: logging.FieldCategory, Value: rule.Category.Name()},
				).Debug("Record categorized using keyword matching")
				return rule.Category, true, nil
			}
		}
	}
	return "", false, nil
}

func (s *KeywordStrategy) normalize(v string) string {
	if s.caseSensitive {
		return v
	}
	return strings.ToUpper(v)
}
