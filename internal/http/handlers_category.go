package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	applog "spendbook/internal/log"
	"spendbook/internal/tracker"
)

const categoriesChanged = `{"categories:changed": true}`

type categoryView struct {
	ID    string
	Name  string
	Color string
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	c, err := parseCategoryForm(r)
	if err != nil {
		writeErrorFragment(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.tracker.AddCategory(r.Context(), c)
	if err != nil {
		slog.ErrorContext(r.Context(), "Category create error", applog.FieldError, err, applog.FieldCategory, c.Name)
		writeErrorFragment(w, http.StatusInternalServerError, "Could not save category")
		return
	}

	slog.InfoContext(r.Context(), "Category created", applog.FieldCategoryID, saved.ID, applog.FieldCategory, saved.Name)
	writeSuccessFragment(w, categoriesChanged, "Category added: "+saved.Name)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeErrorFragment(w, http.StatusUnprocessableEntity, "Missing category id")
		return
	}
	c, err := parseCategoryForm(r)
	if err != nil {
		writeErrorFragment(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.ID = id

	if err := s.tracker.UpdateCategory(r.Context(), c); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			writeErrorFragment(w, http.StatusNotFound, "Category not found")
			return
		}
		slog.ErrorContext(r.Context(), "Category update error", applog.FieldError, err, applog.FieldCategoryID, id)
		writeErrorFragment(w, http.StatusInternalServerError, "Could not update category")
		return
	}

	writeSuccessFragment(w, categoriesChanged, "Category updated")
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseMutationForm(w, r) {
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		writeErrorFragment(w, http.StatusUnprocessableEntity, "Missing category id")
		return
	}

	if err := s.tracker.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			writeErrorFragment(w, http.StatusNotFound, "Category not found")
			return
		}
		slog.ErrorContext(r.Context(), "Category delete error", applog.FieldError, err, applog.FieldCategoryID, id)
		writeErrorFragment(w, http.StatusInternalServerError, "Could not delete category")
		return
	}

	writeSuccessFragment(w, categoriesChanged, "Category deleted")
}
