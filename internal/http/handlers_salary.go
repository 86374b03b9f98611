package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	applog "spendbook/internal/log"
	"spendbook/internal/tracker"
)

const salariesChanged = `{"salaries:changed": true}`

func (s *Server) handleCreateSalary(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	sal, err := parseSalaryForm(r)
	if err != nil {
		writeErrorFragment(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.tracker.AddSalary(r.Context(), sal)
	if err != nil {
		slog.ErrorContext(r.Context(), "Salary create error", applog.FieldError, err, applog.FieldAmount, sal.Amount.Cents)
		writeErrorFragment(w, http.StatusInternalServerError, "Could not save salary")
		return
	}

	slog.InfoContext(r.Context(), "Salary created", applog.FieldSalaryID, saved.ID, applog.FieldAmount, saved.Amount.Cents)
	writeSuccessFragment(w, salariesChanged, "Salary recorded")
}

func (s *Server) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeErrorFragment(w, http.StatusUnprocessableEntity, "Missing salary id")
		return
	}
	sal, err := parseSalaryForm(r)
	if err != nil {
		writeErrorFragment(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	sal.ID = id

	if err := s.tracker.UpdateSalary(r.Context(), sal); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			writeErrorFragment(w, http.StatusNotFound, "Salary not found")
			return
		}
		slog.ErrorContext(r.Context(), "Salary update error", applog.FieldError, err, applog.FieldSalaryID, id)
		writeErrorFragment(w, http.StatusInternalServerError, "Could not update salary")
		return
	}

	writeSuccessFragment(w, salariesChanged, "Salary updated")
}

func (s *Server) handleDeleteSalary(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeErrorFragment(w, http.StatusUnprocessableEntity, "Missing salary id")
		return
	}

	if err := s.tracker.DeleteSalary(r.Context(), id); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			writeErrorFragment(w, http.StatusNotFound, "Salary not found")
			return
		}
		slog.ErrorContext(r.Context(), "Salary delete error", applog.FieldError, err, applog.FieldSalaryID, id)
		writeErrorFragment(w, http.StatusInternalServerError, "Could not delete salary")
		return
	}

	writeSuccessFragment(w, salariesChanged, "Salary deleted")
}
