// Package models provides the data structures used throughout the application.
package models

import (
	"fmt"
	"strings"
)

// Category is the persisted code of a transaction category.
//
// DO NOT change the code of an existing category: codes are written to the
// ledger store and must keep their meaning. New categories get a new code
// appended to categoryTable.
type Category string

// Categories
const (
	CategoryRestaurant     Category = "r"
	CategoryGrocery        Category = "g"
	CategoryTransportation Category = "tp"
	CategoryIncome         Category = "i" // not counted as an expense
	CategoryCommunications Category = "c"
	CategoryAdministrative Category = "a" // tax, city registration fee, etc
	CategoryRent           Category = "rent"
	CategoryHousehold      Category = "h" // non-food items for daily use
	CategoryInsurance      Category = "in"
	CategoryParty          Category = "p"
	CategoryEntertainment  Category = "e"
	CategorySightseeing    Category = "ss"
	CategoryTransfer       Category = "tf"  // between own accounts, not an expense
	CategoryToBeReimbursed Category = "tbr" // not an expense
	CategoryOther          Category = "o"
	CategoryUnsorted       Category = "u"
)

type categoryEntry struct {
	category Category
	name     string
	expense  bool
}

// categoryTable is append-only. Its order is the display order.
var categoryTable = []categoryEntry{
	{CategoryRestaurant, "RESTAURANT", true},
	{CategoryGrocery, "GROCERY", true},
	{CategoryTransportation, "TRANSPORTATION", true},
	{CategoryIncome, "INCOME", false},
	{CategoryCommunications, "COMMUNICATIONS", true},
	{CategoryAdministrative, "ADMINISTRATIVE", true},
	{CategoryRent, "RENT", true},
	{CategoryHousehold, "HOUSEHOLD", true},
	{CategoryInsurance, "INSURANCE", true},
	{CategoryParty, "PARTY", true},
	{CategoryEntertainment, "ENTERTAINMENT", true},
	{CategorySightseeing, "SIGHTSEEING", true},
	{CategoryTransfer, "TRANSFER", false},
	{CategoryToBeReimbursed, "TO_BE_REIMBURSED", false},
	{CategoryOther, "OTHER", true},
	{CategoryUnsorted, "UNSORTED", true},
}

func lookupCategory(c Category) (categoryEntry, bool) {
	for _, e := range categoryTable {
		if e.category == c {
			return e, true
		}
	}
	return categoryEntry{}, false
}

// Categories returns every known category in display order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryTable))
	for _, e := range categoryTable {
		out = append(out, e.category)
	}
	return out
}

// ParseCategory resolves a stored code ("tp") or a display name ("TRANSPORTATION").
// Codes are matched case-insensitively since every code is lower case.
func ParseCategory(s string) (Category, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("empty category")
	}
	if e, ok := lookupCategory(Category(strings.ToLower(v))); ok {
		return e.category, nil
	}
	for _, e := range categoryTable {
		if strings.EqualFold(e.name, v) {
			return e.category, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Code returns the persisted code.
func (c Category) Code() string {
	return string(c)
}

// Name returns the display name, or the raw value for unknown categories.
func (c Category) Name() string {
	if e, ok := lookupCategory(c); ok {
		return e.name
	}
	return string(c)
}

func (c Category) String() string {
	return c.Name()
}

// IsValid reports whether c belongs to the closed category set.
func (c Category) IsValid() bool {
	_, ok := lookupCategory(c)
	return ok
}

// IsExpense reports whether amounts in this category count as spending.
// Income, transfers between own accounts and reimbursable costs do not.
func (c Category) IsExpense() bool {
	e, ok := lookupCategory(c)
	return ok && e.expense
}

// NonExpenseCategories returns the categories excluded from expense totals.
func NonExpenseCategories() []Category {
	var out []Category
	for _, e := range categoryTable {
		if !e.expense {
			out = append(out, e.category)
		}
	}
	return out
}
