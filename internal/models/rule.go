package models

import (
	"fmt"
	"strings"
)

// CategoryRule assigns Category to a record whose description or comment
// contains any of Keywords. Rules are evaluated in list order.
type CategoryRule struct {
	Category Category `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Validate checks that the rule targets an assignable category and has at
// least one non-blank keyword.
func (r CategoryRule) Validate() error {
	if !r.Category.IsValid() {
		return fmt.Errorf("unknown category %q", r.Category)
	}
	if r.Category == CategoryUnsorted {
		return fmt.Errorf("a rule cannot assign %s", CategoryUnsorted.Name())
	}
	for _, k := range r.Keywords {
		if strings.TrimSpace(k) != "" {
			return nil
		}
	}
	return fmt.Errorf("rule for %s has no keywords", r.Category.Name())
}
