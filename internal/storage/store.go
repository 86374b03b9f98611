// Package storage persists the three collections to a local key-value byte
// store under fixed keys, defaulting the category set on first run.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"spendbook/internal/core"
	applog "spendbook/internal/log"
)

const (
	expensesKey   = "expenses"
	categoriesKey = "categories"
	salariesKey   = "salaries"
)

// Store is the persistence adapter. Malformed payloads are treated as empty
// collections rather than fatal errors; only KV I/O failures propagate.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// DefaultCategories is the category set seeded on first run.
func DefaultCategories() []core.Category {
	return []core.Category{
		{ID: "1", Name: "Food", Color: "#EF4444"},
		{ID: "2", Name: "Transport", Color: "#3B82F6"},
		{ID: "3", Name: "Entertainment", Color: "#EC4899"},
		{ID: "4", Name: "Shopping", Color: "#8B5CF6"},
		{ID: "5", Name: "Housing", Color: "#10B981"},
		{ID: "6", Name: "Utilities", Color: "#F59E0B"},
		{ID: "7", Name: "Healthcare", Color: "#06B6D4"},
		{ID: "8", Name: "Other", Color: "#6B7280"},
	}
}

// Load reads all three collections. The default category set is seeded and
// persisted only when the categories key was never written; a saved empty
// list stays empty.
func (s *Store) Load(ctx context.Context) ([]core.Expense, []core.Category, []core.Salary, error) {
	expenses, _, err := loadJSON[core.Expense](ctx, s.kv, expensesKey)
	if err != nil {
		return nil, nil, nil, err
	}

	categories, found, err := loadJSON[core.Category](ctx, s.kv, categoriesKey)
	if err != nil {
		return nil, nil, nil, err
	}
	if !found {
		categories = DefaultCategories()
		if err := s.SaveCategories(ctx, categories); err != nil {
			return nil, nil, nil, fmt.Errorf("seed default categories: %w", err)
		}
		slog.InfoContext(ctx, "Seeded default categories", "count", len(categories))
	}

	salaries, _, err := loadJSON[core.Salary](ctx, s.kv, salariesKey)
	if err != nil {
		return nil, nil, nil, err
	}

	return expenses, categories, salaries, nil
}

func (s *Store) SaveExpenses(ctx context.Context, expenses []core.Expense) error {
	return s.saveJSON(ctx, expensesKey, expenses)
}

func (s *Store) SaveCategories(ctx context.Context, categories []core.Category) error {
	return s.saveJSON(ctx, categoriesKey, categories)
}

func (s *Store) SaveSalaries(ctx context.Context, salaries []core.Salary) error {
	return s.saveJSON(ctx, salariesKey, salaries)
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// loadJSON decodes the collection under key, reporting whether the key was
// present. A payload that fails to parse is logged and dropped wholesale,
// including any records decoded before the error, so a corrupted store never
// takes the application down and never yields phantom records.
func loadJSON[T any](ctx context.Context, kv KV, key string) ([]T, bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.WarnContext(ctx, "Discarding malformed stored collection",
			"key", key, applog.FieldError, err, "bytes", len(raw))
		return nil, true, nil
	}
	return out, true, nil
}

func (s *Store) saveJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
