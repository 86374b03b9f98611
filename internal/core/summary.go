package core

import (
	"sort"
	"time"
)

// CategoryTotal is an amount accumulated under one category name.
type CategoryTotal struct {
	Name   string
	Amount Money
}

// MonthTotal is the expense total for one YYYY-MM month.
type MonthTotal struct {
	Month string
	Total Money
}

// ExpenseSummary is derived from the full expense and salary collections at a
// point in time. It is never persisted; every mutation recomputes it from
// scratch.
type ExpenseSummary struct {
	// Total is the sum over all expenses, regardless of month.
	Total Money
	// Average is Total divided by the number of distinct calendar days with
	// at least one expense, in cents. Equals Total when there are no expenses.
	Average float64
	// Highest and Recent are copies of the max-amount and latest-date
	// expenses, nil when the collection is empty.
	Highest *Expense
	Recent  *Expense
	// CategoryTotals holds one entry per distinct category name, in
	// first-seen order.
	CategoryTotals []CategoryTotal
	// MonthlySalary and RemainingBudget cover the calendar month of the
	// instant the summary was computed at. RemainingBudget may be negative.
	MonthlySalary   Money
	RemainingBudget Money
}

// ComputeSummary aggregates expenses and salaries into an ExpenseSummary.
// It is a pure function of its inputs; the current instant is passed in so
// the month window is deterministic and testable.
//
// Tie-break for Highest and Recent: among equal amounts or dates the expense
// seen first in collection order wins, matching the first element of a stable
// descending sort.
func ComputeSummary(expenses []Expense, salaries []Salary, now time.Time) ExpenseSummary {
	var sum ExpenseSummary

	var (
		highestIdx = -1
		recentIdx  = -1
		days       = map[Date]struct{}{}
		catIdx     = map[string]int{}
	)
	for i, e := range expenses {
		sum.Total.Cents += e.Amount.Cents

		if highestIdx < 0 || e.Amount.Cents > expenses[highestIdx].Amount.Cents {
			highestIdx = i
		}
		if recentIdx < 0 || e.Date > expenses[recentIdx].Date {
			recentIdx = i
		}

		days[e.Date.DayKey()] = struct{}{}

		if j, ok := catIdx[e.Category]; ok {
			sum.CategoryTotals[j].Amount.Cents += e.Amount.Cents
		} else {
			catIdx[e.Category] = len(sum.CategoryTotals)
			sum.CategoryTotals = append(sum.CategoryTotals, CategoryTotal{Name: e.Category, Amount: e.Amount})
		}
	}

	if highestIdx >= 0 {
		h := expenses[highestIdx]
		sum.Highest = &h
	}
	if recentIdx >= 0 {
		r := expenses[recentIdx]
		sum.Recent = &r
	}

	if len(days) > 0 {
		sum.Average = float64(sum.Total.Cents) / float64(len(days))
	} else {
		sum.Average = float64(sum.Total.Cents)
	}

	month := MonthOf(now)
	for _, s := range salaries {
		if s.Date.InMonth(month) {
			sum.MonthlySalary.Cents += s.Amount.Cents
		}
	}
	var monthlyExpenses int64
	for _, e := range expenses {
		if e.Date.InMonth(month) {
			monthlyExpenses += e.Amount.Cents
		}
	}
	sum.RemainingBudget.Cents = sum.MonthlySalary.Cents - monthlyExpenses

	return sum
}

// MonthlyTotals rolls expenses up into per-month totals, sorted by month in
// ascending chronological order. It feeds the spending timeline chart.
func MonthlyTotals(expenses []Expense) []MonthTotal {
	byMonth := map[string]int64{}
	for _, e := range expenses {
		byMonth[e.Date.MonthKey()] += e.Amount.Cents
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthTotal, 0, len(months))
	for _, m := range months {
		out = append(out, MonthTotal{Month: m, Total: Money{Cents: byMonth[m]}})
	}
	return out
}
