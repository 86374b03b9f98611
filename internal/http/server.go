// Package http serves the web UI: page and partial rendering, form-based
// mutations, chart images, and the report export.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendbook/internal/cache"
	"spendbook/internal/currency"
	applog "spendbook/internal/log"
	"spendbook/internal/tracker"
	appweb "spendbook/web"
)

type Server struct {
	http.Server
	templates   *template.Template
	tracker     *tracker.Tracker
	rateLimiter *rateLimiter

	// fmtr renders amounts in the selected display currency; it is swapped
	// wholesale when the user picks another currency.
	fmtrMu sync.RWMutex
	fmtr   *currency.Formatter

	// chartCache holds rendered PNGs keyed on chart name, currency, and
	// tracker generation. A mutation changes the generation and the stale
	// entries age out via TTL and LRU eviction.
	chartCache *cache.LRU[[]byte]

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, trk *tracker.Tracker, fmtr *currency.Formatter) (*Server, error) {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		tracker:     trk,
		rateLimiter: newRateLimiter(),
		fmtr:        fmtr,
		chartCache:  cache.NewLRU[[]byte](32, 5*time.Minute),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/expenses", s.withSecurityHeaders(s.handleCreateExpense))
	mux.HandleFunc("/expenses/update", s.withSecurityHeaders(s.handleUpdateExpense))
	mux.HandleFunc("/expenses/delete", s.withSecurityHeaders(s.handleDeleteExpense))
	mux.HandleFunc("/salaries", s.withSecurityHeaders(s.handleCreateSalary))
	mux.HandleFunc("/salaries/update", s.withSecurityHeaders(s.handleUpdateSalary))
	mux.HandleFunc("/salaries/delete", s.withSecurityHeaders(s.handleDeleteSalary))
	mux.HandleFunc("/categories", s.withSecurityHeaders(s.handleCreateCategory))
	mux.HandleFunc("/categories/update", s.withSecurityHeaders(s.handleUpdateCategory))
	mux.HandleFunc("/categories/delete", s.withSecurityHeaders(s.handleDeleteCategory))
	mux.HandleFunc("/currency", s.withSecurityHeaders(s.handleSetCurrency))

	// UI partials
	mux.HandleFunc("/ui/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/ui/expenses", s.withSecurityHeaders(s.handleExpenseList))

	mux.HandleFunc("/charts/category.png", s.withSecurityHeaders(s.handleCategoryChart))
	mux.HandleFunc("/charts/distribution.png", s.withSecurityHeaders(s.handleDistributionChart))
	mux.HandleFunc("/charts/timeline.png", s.withSecurityHeaders(s.handleTimelineChart))
	mux.HandleFunc("/export/report", s.withSecurityHeaders(s.handleExportReport))

	return s, nil
}

// Shutdown stops the server and its background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) formatter() *currency.Formatter {
	s.fmtrMu.RLock()
	defer s.fmtrMu.RUnlock()
	return s.fmtr
}

func (s *Server) setFormatter(f *currency.Formatter) {
	s.fmtrMu.Lock()
	defer s.fmtrMu.Unlock()
	s.fmtr = f
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", applog.FieldClientIP, clientIP, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	fmtr := s.formatter()
	data := struct {
		Today      string
		Categories []categoryView
		Currencies []currency.Config
		Currency   string
	}{
		Today:    time.Now().Format("2006-01-02"),
		Currency: fmtr.Code(),
	}
	for _, c := range s.tracker.Categories() {
		data.Categories = append(data.Categories, categoryView{ID: c.ID, Name: c.Name, Color: c.Color})
	}
	data.Currencies = currency.Supported()

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", applog.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
