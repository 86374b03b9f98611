// Package tracker owns the in-process session state: the three collections,
// the active filter, and the derived summary. It replaces ambient global
// state with an explicit store object handed to whoever needs access.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"spendbook/internal/core"
	"spendbook/internal/storage"
)

// ErrNotFound is returned for updates and deletes against unknown IDs.
var ErrNotFound = errors.New("record not found")

// DefaultCategoryColor is used for category names that no longer resolve to
// a stored category (deleting a category leaves references dangling).
const DefaultCategoryColor = "#6B7280"

// Tracker serializes every mutation behind one mutex, persists it through
// the storage adapter, and recomputes the summary and the filtered view
// from scratch before returning. Readers never observe stale derived state.
type Tracker struct {
	mu    sync.Mutex
	store *storage.Store
	now   func() time.Time

	expenses   []core.Expense
	categories []core.Category
	salaries   []core.Salary

	filter   core.ExpenseFilter
	summary  core.ExpenseSummary
	filtered []core.Expense

	// generation increments on every mutation; derived-output caches key
	// on it for invalidation.
	generation uint64
}

type Option func(*Tracker)

// WithClock fixes the instant used for the summary's month window.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New loads the persisted collections and computes the initial derived state.
func New(ctx context.Context, store *storage.Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}

	expenses, categories, salaries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}
	t.expenses = expenses
	t.categories = categories
	t.salaries = salaries
	t.recompute()

	return t, nil
}

// AddExpense validates the draft, assigns it a fresh ID, and commits it.
func (t *Tracker) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.ID = uuid.NewString()

	t.mu.Lock()
	defer t.mu.Unlock()

	next := append(copyOf(t.expenses), e)
	if err := t.store.SaveExpenses(ctx, next); err != nil {
		return core.Expense{}, err
	}
	t.expenses = next
	t.recompute()
	return e, nil
}

// UpdateExpense replaces the stored expense with the same ID.
func (t *Tracker) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := copyOf(t.expenses)
	i := indexExpense(next, e.ID)
	if i < 0 {
		return ErrNotFound
	}
	next[i] = e
	if err := t.store.SaveExpenses(ctx, next); err != nil {
		return err
	}
	t.expenses = next
	t.recompute()
	return nil
}

func (t *Tracker) DeleteExpense(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := copyOf(t.expenses)
	i := indexExpense(next, id)
	if i < 0 {
		return ErrNotFound
	}
	next = append(next[:i], next[i+1:]...)
	if err := t.store.SaveExpenses(ctx, next); err != nil {
		return err
	}
	t.expenses = next
	t.recompute()
	return nil
}

func (t *Tracker) AddSalary(ctx context.Context, s core.Salary) (core.Salary, error) {
	if err := s.Validate(); err != nil {
		return core.Salary{}, err
	}
	s.ID = uuid.NewString()

	t.mu.Lock()
	defer t.mu.Unlock()

	next := append(copyOf(t.salaries), s)
	if err := t.store.SaveSalaries(ctx, next); err != nil {
		return core.Salary{}, err
	}
	t.salaries = next
	t.recompute()
	return s, nil
}

func (t *Tracker) UpdateSalary(ctx context.Context, s core.Salary) error {
	if err := s.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := copyOf(t.salaries)
	i := indexSalary(next, s.ID)
	if i < 0 {
		return ErrNotFound
	}
	next[i] = s
	if err := t.store.SaveSalaries(ctx, next); err != nil {
		return err
	}
	t.salaries = next
	t.recompute()
	return nil
}

func (t *Tracker) DeleteSalary(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := copyOf(t.salaries)
	i := indexSalary(next, id)
	if i < 0 {
		return ErrNotFound
	}
	next = append(next[:i], next[i+1:]...)
	if err := t.store.SaveSalaries(ctx, next); err != nil {
		return err
	}
	t.salaries = next
	t.recompute()
	return nil
}

func (t *Tracker) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	c.ID = uuid.NewString()
	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := append(copyOf(t.categories), c)
	if err := t.store.SaveCategories(ctx, next); err != nil {
		return core.Category{}, err
	}
	t.categories = next
	t.bump()
	return c, nil
}

func (t *Tracker) UpdateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := copyOf(t.categories)
	i := indexCategory(next, c.ID)
	if i < 0 {
		return ErrNotFound
	}
	next[i] = c
	if err := t.store.SaveCategories(ctx, next); err != nil {
		return err
	}
	t.categories = next
	t.bump()
	return nil
}

// DeleteCategory removes the category only. Expenses keep referencing the
// name and render with DefaultCategoryColor from then on; the original
// behavior is preserved on purpose rather than blocking the delete.
func (t *Tracker) DeleteCategory(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := copyOf(t.categories)
	i := indexCategory(next, id)
	if i < 0 {
		return ErrNotFound
	}
	next = append(next[:i], next[i+1:]...)
	if err := t.store.SaveCategories(ctx, next); err != nil {
		return err
	}
	t.categories = next
	t.bump()
	return nil
}

// SetFilter replaces the active filter and refreshes the visible subset.
// The underlying collection is untouched.
func (t *Tracker) SetFilter(f core.ExpenseFilter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter = f
	t.filtered = t.filter.Apply(t.expenses)
}

func (t *Tracker) Filter() core.ExpenseFilter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter
}

// Summary returns the aggregate computed at the latest committed mutation.
func (t *Tracker) Summary() core.ExpenseSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary
}

// Expenses returns the currently visible (filtered) subset.
func (t *Tracker) Expenses() []core.Expense {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyOf(t.filtered)
}

// AllExpenses returns the full collection regardless of filter.
func (t *Tracker) AllExpenses() []core.Expense {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyOf(t.expenses)
}

func (t *Tracker) Salaries() []core.Salary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyOf(t.salaries)
}

func (t *Tracker) Categories() []core.Category {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyOf(t.categories)
}

// CategoryColor resolves a category name to its display color, falling back
// to the default for dangling references.
func (t *Tracker) CategoryColor(name string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.categories {
		if c.Name == name {
			return c.Color
		}
	}
	return DefaultCategoryColor
}

// MonthlyTotals rolls the full expense collection up per month.
func (t *Tracker) MonthlyTotals() []core.MonthTotal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return core.MonthlyTotals(t.expenses)
}

// Generation identifies the current committed state; it changes with every
// mutation.
func (t *Tracker) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

// recompute rebuilds every derived output from the committed collections.
// Deliberately non-incremental: collections are a single user's history.
func (t *Tracker) recompute() {
	t.summary = core.ComputeSummary(t.expenses, t.salaries, t.now())
	t.filtered = t.filter.Apply(t.expenses)
	t.generation++
}

// bump marks a mutation that does not change summary inputs (categories).
func (t *Tracker) bump() {
	t.generation++
}

func copyOf[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func indexExpense(in []core.Expense, id string) int {
	for i, v := range in {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func indexSalary(in []core.Salary, id string) int {
	for i, v := range in {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func indexCategory(in []core.Category, id string) int {
	for i, v := range in {
		if v.ID == id {
			return i
		}
	}
	return -1
}
