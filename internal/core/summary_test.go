package core

import (
	"reflect"
	"testing"
	"time"
)

func jan(day int) Date { return NewDate(2024, 1, day) }

func sampleExpenses() []Expense {
	return []Expense{
		{ID: "e1", Amount: Money{Cents: 5000}, Category: "Food", Date: jan(5), Description: "groceries"},
		{ID: "e2", Amount: Money{Cents: 12000}, Category: "Rent", Date: jan(1), Description: "january rent"},
	}
}

func sampleSalaries() []Salary {
	return []Salary{
		{ID: "s1", Amount: Money{Cents: 200000}, Date: jan(1), Description: "paycheck"},
	}
}

func TestComputeSummary(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	sum := ComputeSummary(sampleExpenses(), sampleSalaries(), now)

	if sum.Total.Cents != 17000 {
		t.Fatalf("total = %d, want 17000", sum.Total.Cents)
	}
	if sum.Highest == nil || sum.Highest.Amount.Cents != 12000 {
		t.Fatalf("highest = %+v, want amount 12000", sum.Highest)
	}
	if sum.Recent == nil || sum.Recent.Date != "2024-01-05" {
		t.Fatalf("recent = %+v, want date 2024-01-05", sum.Recent)
	}
	if sum.MonthlySalary.Cents != 200000 {
		t.Fatalf("monthly salary = %d, want 200000", sum.MonthlySalary.Cents)
	}
	if sum.RemainingBudget.Cents != 183000 {
		t.Fatalf("remaining budget = %d, want 183000", sum.RemainingBudget.Cents)
	}
	// Two distinct days
	if want := 17000.0 / 2; sum.Average != want {
		t.Fatalf("average = %f, want %f", sum.Average, want)
	}
}

func TestComputeSummaryEmpty(t *testing.T) {
	sum := ComputeSummary(nil, nil, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	if sum.Total.Cents != 0 {
		t.Fatalf("total = %d, want 0", sum.Total.Cents)
	}
	if sum.Highest != nil || sum.Recent != nil {
		t.Fatalf("expected nil highest/recent, got %+v / %+v", sum.Highest, sum.Recent)
	}
	if sum.Average != 0 {
		t.Fatalf("average = %f, want 0", sum.Average)
	}
	if sum.MonthlySalary.Cents != 0 || sum.RemainingBudget.Cents != 0 {
		t.Fatalf("monthly salary = %d, remaining = %d, want 0/0", sum.MonthlySalary.Cents, sum.RemainingBudget.Cents)
	}
	if len(sum.CategoryTotals) != 0 {
		t.Fatalf("category totals = %v, want empty", sum.CategoryTotals)
	}
}

func TestComputeSummaryCategoryTotals(t *testing.T) {
	expenses := []Expense{
		{Amount: Money{Cents: 100}, Category: "Food", Date: jan(1), Description: "a"},
		{Amount: Money{Cents: 200}, Category: "Transport", Date: jan(2), Description: "b"},
		{Amount: Money{Cents: 300}, Category: "Food", Date: jan(3), Description: "c"},
	}
	sum := ComputeSummary(expenses, nil, time.Now())

	want := []CategoryTotal{
		{Name: "Food", Amount: Money{Cents: 400}},
		{Name: "Transport", Amount: Money{Cents: 200}},
	}
	if !reflect.DeepEqual(sum.CategoryTotals, want) {
		t.Fatalf("category totals = %v, want %v", sum.CategoryTotals, want)
	}

	// Sum of category totals equals the grand total.
	var catSum int64
	for _, ct := range sum.CategoryTotals {
		catSum += ct.Amount.Cents
	}
	if catSum != sum.Total.Cents {
		t.Fatalf("sum of category totals = %d, total = %d", catSum, sum.Total.Cents)
	}
}

func TestComputeSummaryTieBreak(t *testing.T) {
	// Two expenses share the maximum amount and the latest date; the one
	// seen first in collection order must win, on every call.
	expenses := []Expense{
		{ID: "first", Amount: Money{Cents: 500}, Category: "Food", Date: jan(9), Description: "a"},
		{ID: "second", Amount: Money{Cents: 500}, Category: "Other", Date: jan(9), Description: "b"},
	}
	for i := 0; i < 5; i++ {
		sum := ComputeSummary(expenses, nil, time.Now())
		if sum.Highest == nil || sum.Highest.ID != "first" {
			t.Fatalf("run %d: highest = %+v, want ID first", i, sum.Highest)
		}
		if sum.Recent == nil || sum.Recent.ID != "first" {
			t.Fatalf("run %d: recent = %+v, want ID first", i, sum.Recent)
		}
	}
}

func TestComputeSummaryIdempotent(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	a := ComputeSummary(sampleExpenses(), sampleSalaries(), now)
	b := ComputeSummary(sampleExpenses(), sampleSalaries(), now)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated computation differs:\n%+v\n%+v", a, b)
	}
}

func TestComputeSummaryDayKeyTruncation(t *testing.T) {
	// An embedded time suffix must not split one calendar day into two.
	expenses := []Expense{
		{Amount: Money{Cents: 100}, Category: "Food", Date: "2024-01-05T09:00:00", Description: "a"},
		{Amount: Money{Cents: 300}, Category: "Food", Date: "2024-01-05", Description: "b"},
	}
	sum := ComputeSummary(expenses, nil, time.Now())
	if sum.Average != 400 {
		t.Fatalf("average = %f, want 400 (single day)", sum.Average)
	}
}

func TestComputeSummaryNegativeBudget(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	expenses := []Expense{
		{Amount: Money{Cents: 5000}, Category: "Food", Date: jan(2), Description: "a"},
	}
	sum := ComputeSummary(expenses, nil, now)
	if sum.RemainingBudget.Cents != -5000 {
		t.Fatalf("remaining budget = %d, want -5000 (no clamping)", sum.RemainingBudget.Cents)
	}
}

func TestMonthlyTotals(t *testing.T) {
	expenses := []Expense{
		{Amount: Money{Cents: 100}, Category: "Food", Date: NewDate(2024, 2, 1), Description: "a"},
		{Amount: Money{Cents: 200}, Category: "Food", Date: NewDate(2024, 1, 10), Description: "b"},
		{Amount: Money{Cents: 300}, Category: "Rent", Date: NewDate(2024, 2, 20), Description: "c"},
	}
	got := MonthlyTotals(expenses)
	want := []MonthTotal{
		{Month: "2024-01", Total: Money{Cents: 200}},
		{Month: "2024-02", Total: Money{Cents: 400}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("monthly totals = %v, want %v", got, want)
	}

	if got := MonthlyTotals(nil); len(got) != 0 {
		t.Fatalf("monthly totals of empty input = %v, want empty", got)
	}
}
