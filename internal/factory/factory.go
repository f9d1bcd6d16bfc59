// Package factory maps each source format to the parser that reads it.
package factory

import (
	"fmt"
	"sort"

	"fjacquet/expense-ledger/internal/csxparser"
	"fjacquet/expense-ledger/internal/debitparser"
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/models"
	"fjacquet/expense-ledger/internal/parser"
	"fjacquet/expense-ledger/internal/revolutparser"
	"fjacquet/expense-ledger/internal/wiseparser"
)

// Constructor builds a fresh parser.
type Constructor func(logger logging.Logger) parser.Parser

// Registry holds one parser constructor per source format.
type Registry struct {
	constructors map[models.SourceFormat]Constructor
	logger       logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		constructors: make(map[models.SourceFormat]Constructor),
		logger:       logging.OrDefault(logger),
	}
}

// DefaultRegistry returns a registry with every built-in parser.
func DefaultRegistry(logger logging.Logger) *Registry {
	r := NewRegistry(logger)
	r.MustRegister(models.FormatCSX, func(l logging.Logger) parser.Parser {
		return csxparser.NewAdapter(l)
	})
	for _, format := range wiseparser.Formats() {
		format := format
		r.MustRegister(format, func(l logging.Logger) parser.Parser {
			a, err := wiseparser.NewAdapter(format, l)
			if err != nil {
				panic(err)
			}
			return a
		})
	}
	r.MustRegister(models.FormatRevolut, func(l logging.Logger) parser.Parser {
		return revolutparser.NewAdapter(l)
	})
	r.MustRegister(models.FormatVisaDebit, func(l logging.Logger) parser.Parser {
		return debitparser.NewAdapter(l)
	})
	return r
}

// Register adds the constructor for format. A format can be registered once.
func (r *Registry) Register(format models.SourceFormat, ctor Constructor) error {
	if !format.IsValid() {
		return fmt.Errorf("unknown source format: %s", format)
	}
	if _, exists := r.constructors[format]; exists {
		return fmt.Errorf("duplicate parser for format: %s", format)
	}
	r.constructors[format] = ctor
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(format models.SourceFormat, ctor Constructor) {
	if err := r.Register(format, ctor); err != nil {
		panic(err)
	}
}

// GetParser returns a new parser for format, sharing the registry's logger.
func (r *Registry) GetParser(format models.SourceFormat) (parser.Parser, error) {
	ctor, ok := r.constructors[format]
	if !ok {
		return nil, fmt.Errorf("unknown parser type: %s", format)
	}
	return ctor(r.logger), nil
}

// Formats returns the registered formats in sorted order.
func (r *Registry) Formats() []models.SourceFormat {
	out := make([]models.SourceFormat, 0, len(r.constructors))
	for f := range r.constructors {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
