// Command spendbook-report renders the current financial overview to disk:
// an HTML report plus the three chart PNGs.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"spendbook/internal/config"
	"spendbook/internal/currency"
	applog "spendbook/internal/log"
	"spendbook/internal/report"
	"spendbook/internal/storage"
	"spendbook/internal/tracker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentReport})
	applog.SetDefault(logger)

	cfg := config.Load()
	outDir := flag.String("out", cfg.ReportDir, "output directory")
	code := flag.String("currency", cfg.Currency, "display currency code")
	flag.Parse()

	cfg.ReportDir = *outDir
	cfg.Currency = *code
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	kv, err := storage.NewSQLiteKV(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open database", applog.FieldError, err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer func() { _ = kv.Close() }()

	ctx := context.Background()
	trk, err := tracker.New(ctx, storage.New(kv))
	if err != nil {
		logger.Error("Failed to load collections", applog.FieldError, err)
		os.Exit(1)
	}

	fmtr, err := currency.NewFormatter(cfg.Currency)
	if err != nil {
		logger.Error("Invalid display currency", applog.FieldError, err, applog.FieldCurrency, cfg.Currency)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.ReportDir, 0o755); err != nil {
		logger.Error("Failed to create output directory", applog.FieldError, err, "dir", cfg.ReportDir)
		os.Exit(1)
	}

	gen, err := report.NewGenerator(fmtr)
	if err != nil {
		logger.Error("Failed to build report generator", applog.FieldError, err)
		os.Exit(1)
	}

	htmlPath := filepath.Join(cfg.ReportDir, "report.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		logger.Error("Failed to create report file", applog.FieldError, err, "path", htmlPath)
		os.Exit(1)
	}
	sum := trk.Summary()
	renderErr := gen.RenderHTML(f, sum, len(trk.AllExpenses()), time.Now())
	if closeErr := f.Close(); renderErr == nil {
		renderErr = closeErr
	}
	if renderErr != nil {
		logger.Error("Failed to render report", applog.FieldError, renderErr)
		os.Exit(1)
	}
	logger.Info("Report written", "path", htmlPath, applog.FieldCurrency, cfg.Currency)

	charts := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{"category.png", func() ([]byte, error) {
			return report.CategoryBarChart(sum.CategoryTotals, trk.CategoryColor, fmtr)
		}},
		{"distribution.png", func() ([]byte, error) {
			return report.DistributionPieChart(sum.CategoryTotals, trk.CategoryColor)
		}},
		{"timeline.png", func() ([]byte, error) {
			return report.MonthlyTrendChart(trk.MonthlyTotals(), fmtr)
		}},
	}
	for _, c := range charts {
		png, err := c.render()
		if err != nil {
			logger.Error("Chart render failed", applog.FieldError, err, "chart", c.name)
			os.Exit(1)
		}
		if png == nil {
			logger.Info("Skipping chart with no data", "chart", c.name)
			continue
		}
		path := filepath.Join(cfg.ReportDir, c.name)
		if err := os.WriteFile(path, png, 0o644); err != nil {
			logger.Error("Failed to write chart", applog.FieldError, err, "path", path)
			os.Exit(1)
		}
		logger.Info("Chart written", "path", path)
	}
}
