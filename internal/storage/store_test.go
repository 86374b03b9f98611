package storage

import (
	"context"
	"testing"

	"spendbook/internal/core"
)

func TestLoadSeedsDefaultCategoriesOnce(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	st := New(kv)

	_, cats, _, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 8 {
		t.Fatalf("seeded %d categories, want 8", len(cats))
	}
	if cats[0].Name != "Food" || cats[7].Name != "Other" {
		t.Fatalf("unexpected seed order: %v", cats)
	}

	// Seeding must have been persisted, not just returned.
	if _, err := kv.Get(ctx, categoriesKey); err != nil {
		t.Fatalf("categories not persisted after first load: %v", err)
	}

	// A second load keeps whatever the store holds, without reseeding.
	custom := []core.Category{{ID: "x", Name: "Custom", Color: "#000000"}}
	if err := st.SaveCategories(ctx, custom); err != nil {
		t.Fatal(err)
	}
	_, cats, _, err = st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 1 || cats[0].Name != "Custom" {
		t.Fatalf("second load reseeded: %v", cats)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := New(NewMemoryKV())

	expenses := []core.Expense{
		{ID: "e1", Amount: core.Money{Cents: 5000}, Category: "Food", Date: "2024-01-05", Description: "groceries"},
	}
	salaries := []core.Salary{
		{ID: "s1", Amount: core.Money{Cents: 200000}, Date: "2024-01-01", Description: "paycheck"},
	}
	if err := st.SaveExpenses(ctx, expenses); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveSalaries(ctx, salaries); err != nil {
		t.Fatal(err)
	}

	gotExp, _, gotSal, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotExp) != 1 || gotExp[0] != expenses[0] {
		t.Fatalf("expenses round trip = %v", gotExp)
	}
	if len(gotSal) != 1 || gotSal[0] != salaries[0] {
		t.Fatalf("salaries round trip = %v", gotSal)
	}
}

func TestLoadMalformedPayloadFailsSafe(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"syntax error", "{not json"},
		// A type mismatch surfaces only after valid records have already
		// been decoded; the partial result must be dropped wholesale.
		{"type mismatch after valid record", `[{"id":"e1","amount":{"cents":5000},"category":"Food","date":"2024-01-05","description":"groceries"},{"id":5}]`},
		{"wrong top-level type", `{"id":"e1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemoryKV()
			if err := kv.Put(ctx, expensesKey, []byte(tc.payload)); err != nil {
				t.Fatal(err)
			}

			expenses, _, _, err := New(kv).Load(ctx)
			if err != nil {
				t.Fatalf("malformed payload must not fail the load: %v", err)
			}
			if len(expenses) != 0 {
				t.Fatalf("expenses = %v, want empty", expenses)
			}
		})
	}
}

func TestLoadKeepsExplicitlyEmptiedCategories(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	st := New(kv)

	// First load seeds the defaults.
	if _, _, _, err := st.Load(ctx); err != nil {
		t.Fatal(err)
	}

	// Deleting every category is a deliberate state; the next load must not
	// resurrect the defaults.
	if err := st.SaveCategories(ctx, nil); err != nil {
		t.Fatal(err)
	}
	_, cats, _, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 0 {
		t.Fatalf("emptied categories reseeded: %v", cats)
	}
}

func TestMemoryKVIsolation(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	val := []byte("abc")
	if err := kv.Put(ctx, "k", val); err != nil {
		t.Fatal(err)
	}
	val[0] = 'z'

	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller buffer: %q", got)
	}

	if _, err := kv.Get(ctx, "missing"); err != ErrKeyNotFound {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}
