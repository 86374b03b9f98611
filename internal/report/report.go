package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"spendbook/internal/core"
	"spendbook/internal/currency"
)

//go:embed templates/report.html
var templatesFS embed.FS

// Generator renders the financial overview as a standalone HTML document.
type Generator struct {
	tpl  *template.Template
	fmtr *currency.Formatter
}

// NewGenerator parses the embedded report template.
func NewGenerator(fmtr *currency.Formatter) (*Generator, error) {
	tpl, err := template.ParseFS(templatesFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Generator{tpl: tpl, fmtr: fmtr}, nil
}

type categoryRow struct {
	Name   string
	Amount string
}

type expenseRow struct {
	Description string
	Category    string
	Date        string
	Amount      string
}

type reportData struct {
	GeneratedAt     string
	Currency        string
	Total           string
	Average         string
	MonthlySalary   string
	RemainingBudget string
	OverBudget      bool
	ExpenseCount    int
	Highest         *expenseRow
	Recent          *expenseRow
	Categories      []categoryRow
}

func (g *Generator) row(e *core.Expense) *expenseRow {
	if e == nil {
		return nil
	}
	return &expenseRow{
		Description: e.Description,
		Category:    e.Category,
		Date:        formatDate(e.Date),
		Amount:      g.fmtr.FormatCents(e.Amount.Cents),
	}
}

// RenderHTML writes the report for the given summary.
func (g *Generator) RenderHTML(w io.Writer, sum core.ExpenseSummary, expenseCount int, generatedAt time.Time) error {
	avg, err := currency.Convert(sum.Average/100, currency.BaseCode, g.fmtr.Code())
	if err != nil {
		avg = sum.Average / 100
	}
	data := reportData{
		GeneratedAt:     generatedAt.Format("January 2, 2006 at 3:04 PM"),
		Currency:        g.fmtr.Code(),
		Total:           g.fmtr.FormatCents(sum.Total.Cents),
		Average:         g.fmtr.Format(avg),
		MonthlySalary:   g.fmtr.FormatCents(sum.MonthlySalary.Cents),
		RemainingBudget: g.fmtr.FormatCents(sum.RemainingBudget.Cents),
		OverBudget:      sum.RemainingBudget.Cents < 0,
		ExpenseCount:    expenseCount,
		Highest:         g.row(sum.Highest),
		Recent:          g.row(sum.Recent),
	}
	for _, ct := range sum.CategoryTotals {
		data.Categories = append(data.Categories, categoryRow{
			Name:   ct.Name,
			Amount: g.fmtr.FormatCents(ct.Amount.Cents),
		})
	}
	if err := g.tpl.Execute(w, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func formatDate(d core.Date) string {
	t, err := time.Parse(core.DateLayout, string(d.DayKey()))
	if err != nil {
		return string(d)
	}
	return t.Format("Jan 2, 2006")
}
