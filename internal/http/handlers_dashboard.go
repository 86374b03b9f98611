package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"spendbook/internal/currency"
	applog "spendbook/internal/log"
	"spendbook/internal/report"
)

// handleDashboard renders the financial overview partial.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	sum := s.tracker.Summary()
	fmtr := s.formatter()

	avg, err := currency.Convert(sum.Average/100, currency.BaseCode, fmtr.Code())
	if err != nil {
		avg = sum.Average / 100
	}

	type catRow struct {
		Name   string
		Color  string
		Amount string
	}
	data := struct {
		Total           string
		Average         string
		MonthlySalary   string
		RemainingBudget string
		OverBudget      bool
		HighestDesc     string
		HighestAmount   string
		RecentDesc      string
		RecentDate      string
		Categories      []catRow
		Currency        string
	}{
		Total:           fmtr.FormatCents(sum.Total.Cents),
		Average:         fmtr.Format(avg),
		MonthlySalary:   fmtr.FormatCents(sum.MonthlySalary.Cents),
		RemainingBudget: fmtr.FormatCents(sum.RemainingBudget.Cents),
		OverBudget:      sum.RemainingBudget.Cents < 0,
		Currency:        fmtr.Code(),
	}
	if sum.Highest != nil {
		data.HighestDesc = sum.Highest.Description
		data.HighestAmount = fmtr.FormatCents(sum.Highest.Amount.Cents)
	}
	if sum.Recent != nil {
		data.RecentDesc = sum.Recent.Description
		data.RecentDate = string(sum.Recent.Date.DayKey())
	}
	for _, ct := range sum.CategoryTotals {
		data.Categories = append(data.Categories, catRow{
			Name:   ct.Name,
			Color:  s.tracker.CategoryColor(ct.Name),
			Amount: fmtr.FormatCents(ct.Amount.Cents),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template error", applog.FieldError, err)
		_, _ = w.Write([]byte(`<div class="error">Could not render dashboard</div>`))
	}
}

// handleSetCurrency switches the display currency for all rendered amounts.
func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	code := strings.ToUpper(strings.TrimSpace(r.Form.Get("code")))
	fmtr, err := currency.NewFormatter(code)
	if err != nil {
		writeErrorFragment(w, http.StatusUnprocessableEntity, "Unsupported currency: "+code)
		return
	}
	s.setFormatter(fmtr)

	slog.InfoContext(r.Context(), "Display currency changed", applog.FieldCurrency, code)
	writeSuccessFragment(w, `{"currency:changed": true}`, "Currency set to "+code)
}

// chartKey identifies a rendered chart by name, currency, and the tracker
// generation it was computed from.
func (s *Server) chartKey(name string) string {
	return fmt.Sprintf("%s|%s|%d", name, s.formatter().Code(), s.tracker.Generation())
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, name string, render func() ([]byte, error)) {
	key := s.chartKey(name)
	if png, ok := s.chartCache.Get(key); ok {
		writePNG(w, png)
		return
	}

	png, err := render()
	if err != nil {
		slog.ErrorContext(r.Context(), "Chart render error", applog.FieldError, err, "chart", name)
		http.Error(w, "chart render failed", http.StatusInternalServerError)
		return
	}
	if png == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.chartCache.Set(key, png)
	writePNG(w, png)
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "category", func() ([]byte, error) {
		return report.CategoryBarChart(s.tracker.Summary().CategoryTotals, s.tracker.CategoryColor, s.formatter())
	})
}

func (s *Server) handleDistributionChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "distribution", func() ([]byte, error) {
		return report.DistributionPieChart(s.tracker.Summary().CategoryTotals, s.tracker.CategoryColor)
	})
}

func (s *Server) handleTimelineChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "timeline", func() ([]byte, error) {
		return report.MonthlyTrendChart(s.tracker.MonthlyTotals(), s.formatter())
	})
}

// handleExportReport renders the overview as a downloadable HTML document.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	gen, err := report.NewGenerator(s.formatter())
	if err != nil {
		slog.ErrorContext(r.Context(), "Report generator error", applog.FieldError, err)
		http.Error(w, "report unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expense-report.html"`)
	if err := gen.RenderHTML(w, s.tracker.Summary(), len(s.tracker.AllExpenses()), time.Now()); err != nil {
		slog.ErrorContext(r.Context(), "Report render error", applog.FieldError, err)
	}
}
