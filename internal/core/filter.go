package core

import "strings"

// ExpenseFilter narrows the expense collection for display. Every field is
// optional; set fields combine with AND. Filtering never mutates the
// underlying collection.
type ExpenseFilter struct {
	// Category must match the expense category name exactly.
	Category string
	// StartDate and EndDate are inclusive bounds, compared lexically.
	StartDate Date
	EndDate   Date
	// SearchTerm is matched case-insensitively against the description or
	// the category name.
	SearchTerm string
}

// IsZero reports whether no constraint is set.
func (f ExpenseFilter) IsZero() bool {
	return f.Category == "" && f.StartDate == "" && f.EndDate == "" && f.SearchTerm == ""
}

// Match reports whether a single expense passes all set constraints.
func (f ExpenseFilter) Match(e Expense) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.StartDate != "" && e.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && e.Date > f.EndDate {
		return false
	}
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		if !strings.Contains(strings.ToLower(e.Description), term) &&
			!strings.Contains(strings.ToLower(e.Category), term) {
			return false
		}
	}
	return true
}

// Apply returns the matching subset in original order. The result is always a
// fresh slice; an empty filter yields a copy of the full collection.
func (f ExpenseFilter) Apply(expenses []Expense) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
