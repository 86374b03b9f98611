package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"spendbook/internal/core"
	applog "spendbook/internal/log"
	"spendbook/internal/tracker"
)

const expensesChanged = `{"expenses:changed": true}`

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	e, err := parseExpenseForm(r)
	if err != nil {
		writeErrorFragment(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.tracker.AddExpense(r.Context(), e)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense create error", applog.FieldError, err, applog.FieldAmount, e.Amount.Cents)
		writeErrorFragment(w, http.StatusInternalServerError, "Could not save expense")
		return
	}

	slog.InfoContext(r.Context(), "Expense created", applog.FieldExpenseID, saved.ID, applog.FieldAmount, saved.Amount.Cents, applog.FieldCategory, saved.Category)
	writeSuccessFragment(w, expensesChanged, "Expense recorded: "+saved.Description)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeErrorFragment(w, http.StatusUnprocessableEntity, "Missing expense id")
		return
	}
	e, err := parseExpenseForm(r)
	if err != nil {
		writeErrorFragment(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	e.ID = id

	if err := s.tracker.UpdateExpense(r.Context(), e); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			writeErrorFragment(w, http.StatusNotFound, "Expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Expense update error", applog.FieldError, err, applog.FieldExpenseID, id)
		writeErrorFragment(w, http.StatusInternalServerError, "Could not update expense")
		return
	}

	writeSuccessFragment(w, expensesChanged, "Expense updated")
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeErrorFragment(w, http.StatusUnprocessableEntity, "Missing expense id")
		return
	}

	if err := s.tracker.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			writeErrorFragment(w, http.StatusNotFound, "Expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Expense delete error", applog.FieldError, err, applog.FieldExpenseID, id)
		writeErrorFragment(w, http.StatusInternalServerError, "Could not delete expense")
		return
	}

	writeSuccessFragment(w, expensesChanged, "Expense deleted")
}

type expenseRowView struct {
	ID          string
	Description string
	Category    string
	Color       string
	Date        string
	Amount      string
}

// handleExpenseList applies the filter from query parameters and renders the
// visible subset as a partial.
func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	q := r.URL.Query()
	filter := core.ExpenseFilter{
		Category:   sanitizeInput(q.Get("category")),
		StartDate:  core.Date(strings.TrimSpace(q.Get("start"))),
		EndDate:    core.Date(strings.TrimSpace(q.Get("end"))),
		SearchTerm: sanitizeInput(q.Get("q")),
	}
	s.tracker.SetFilter(filter)

	fmtr := s.formatter()
	data := struct {
		Rows     []expenseRowView
		Filtered bool
	}{Filtered: !filter.IsZero()}
	for _, e := range s.tracker.Expenses() {
		data.Rows = append(data.Rows, expenseRowView{
			ID:          e.ID,
			Description: e.Description,
			Category:    e.Category,
			Color:       s.tracker.CategoryColor(e.Category),
			Date:        string(e.Date.DayKey()),
			Amount:      fmtr.FormatCents(e.Amount.Cents),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "expense_list.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Expense list template error", applog.FieldError, err)
		_, _ = w.Write([]byte(`<div class="error">Could not render expenses</div>`))
	}
}
