package report

import (
	"bytes"
	"testing"

	"spendbook/internal/core"
	"spendbook/internal/currency"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func testColor(name string) string {
	if name == "Food" {
		return "#EF4444"
	}
	return "#6B7280"
}

func usdFormatter(t *testing.T) *currency.Formatter {
	t.Helper()
	fmtr, err := currency.NewFormatter("USD")
	if err != nil {
		t.Fatal(err)
	}
	return fmtr
}

func TestCategoryBarChart(t *testing.T) {
	totals := []core.CategoryTotal{
		{Name: "Food", Amount: core.Money{Cents: 5000}},
		{Name: "Housing", Amount: core.Money{Cents: 12000}},
	}
	png, err := CategoryBarChart(totals, testColor, usdFormatter(t))
	if err != nil {
		t.Fatalf("CategoryBarChart: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("output is not a PNG")
	}
}

func TestCategoryBarChartEmpty(t *testing.T) {
	png, err := CategoryBarChart(nil, testColor, usdFormatter(t))
	if err != nil || png != nil {
		t.Fatalf("empty input: png=%v err=%v", png, err)
	}

	// Zero-amount buckets do not produce bars either.
	totals := []core.CategoryTotal{{Name: "Food", Amount: core.Money{Cents: 0}}}
	png, err = CategoryBarChart(totals, testColor, usdFormatter(t))
	if err != nil || png != nil {
		t.Fatalf("zero amounts: png=%v err=%v", png, err)
	}
}

func TestDistributionPieChart(t *testing.T) {
	totals := []core.CategoryTotal{
		{Name: "Food", Amount: core.Money{Cents: 5000}},
		{Name: "Housing", Amount: core.Money{Cents: 12000}},
	}
	png, err := DistributionPieChart(totals, testColor)
	if err != nil {
		t.Fatalf("DistributionPieChart: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("output is not a PNG")
	}
}

func TestMonthlyTrendChart(t *testing.T) {
	months := []core.MonthTotal{
		{Month: "2024-01", Total: core.Money{Cents: 17000}},
		{Month: "2024-02", Total: core.Money{Cents: 9000}},
		{Month: "2024-03", Total: core.Money{Cents: 14000}},
	}
	png, err := MonthlyTrendChart(months, usdFormatter(t))
	if err != nil {
		t.Fatalf("MonthlyTrendChart: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("output is not a PNG")
	}
}

func TestMonthlyTrendChartNeedsTwoPoints(t *testing.T) {
	months := []core.MonthTotal{{Month: "2024-01", Total: core.Money{Cents: 17000}}}
	png, err := MonthlyTrendChart(months, usdFormatter(t))
	if err != nil || png != nil {
		t.Fatalf("single point: png=%v err=%v", png, err)
	}
}
