// Package report is the export collaborator: it renders the summary as an
// HTML document and rasterizes the analysis charts to PNG.
package report

import (
	"bytes"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"spendbook/internal/core"
	"spendbook/internal/currency"
)

// ColorFunc resolves a category name to a display color hex token.
type ColorFunc func(name string) string

func colorOf(fn ColorFunc, name string) drawing.Color {
	hex := fn(name)
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	return drawing.ColorFromHex(hex)
}

// CategoryBarChart renders spending-by-category bars in the display
// currency. Returns nil bytes when there is nothing to draw.
func CategoryBarChart(totals []core.CategoryTotal, colorFor ColorFunc, fmtr *currency.Formatter) ([]byte, error) {
	bars := make([]chart.Value, 0, len(totals))
	for _, ct := range totals {
		if ct.Amount.Cents <= 0 {
			continue
		}
		col := colorOf(colorFor, ct.Name)
		bars = append(bars, chart.Value{
			Value: fmtr.CentsValue(ct.Amount.Cents),
			Label: ct.Name,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
	}
	if len(bars) == 0 {
		return nil, nil
	}

	graph := chart.BarChart{
		Title:    "Spending by Category",
		Width:    900,
		Height:   450,
		BarWidth: 60,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmtr.Format(f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DistributionPieChart renders the category share of total spend.
func DistributionPieChart(totals []core.CategoryTotal, colorFor ColorFunc) ([]byte, error) {
	values := make([]chart.Value, 0, len(totals))
	for _, ct := range totals {
		if ct.Amount.Cents <= 0 {
			continue
		}
		col := colorOf(colorFor, ct.Name)
		values = append(values, chart.Value{
			Value: ct.Amount.Units(),
			Label: ct.Name,
			Style: chart.Style{FillColor: col},
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	graph := chart.PieChart{
		Title:  "Distribution",
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MonthlyTrendChart renders the spending timeline. go-chart needs at least
// two points for a time series, so months with fewer are skipped.
func MonthlyTrendChart(months []core.MonthTotal, fmtr *currency.Formatter) ([]byte, error) {
	if len(months) < 2 {
		return nil, nil
	}

	xValues := make([]time.Time, 0, len(months))
	yValues := make([]float64, 0, len(months))
	for _, mt := range months {
		t, err := time.Parse("2006-01", mt.Month)
		if err != nil {
			continue
		}
		xValues = append(xValues, t)
		yValues = append(yValues, fmtr.CentsValue(mt.Total.Cents))
	}
	if len(xValues) < 2 {
		return nil, nil
	}

	lineColor := drawing.ColorFromHex("3B82F6")
	graph := chart.Chart{
		Title:  "Monthly Spending",
		Width:  900,
		Height: 450,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmtr.Format(f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Monthly Spending",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					FillColor:   lineColor.WithAlpha(64),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
