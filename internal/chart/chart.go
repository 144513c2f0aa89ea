// Package chart renders query results as PNG charts.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("chart: no data to plot")

const (
	width  = 8 * vg.Inch
	height = 6 * vg.Inch
)

var accent = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// Scatter plots x against y.
func Scatter(title, xLabel, yLabel string, points []model.Point) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}
	xys := make(plotter.XYs, len(points))
	for i, p := range points {
		xys[i].X, xys[i].Y = p.X, p.Y
	}

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	s.GlyphStyle.Color = accent
	s.GlyphStyle.Radius = vg.Points(2)

	p := newPlot(title, xLabel, yLabel)
	p.Add(s, plotter.NewGrid())
	return p, nil
}

// Bars draws one horizontal bar per label, the first label on top.
func Bars(title, valueLabel string, labels []string, values []float64) (*plot.Plot, error) {
	if len(labels) == 0 {
		return nil, ErrNoData
	}
	if len(labels) != len(values) {
		return nil, fmt.Errorf("bars: %d labels for %d values", len(labels), len(values))
	}

	n := len(values)
	vs := make(plotter.Values, n)
	names := make([]string, n)
	for i := range values {
		vs[n-1-i] = values[i]
		names[n-1-i] = labels[i]
	}

	bars, err := plotter.NewBarChart(vs, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = accent
	bars.LineStyle.Width = 0

	p := newPlot(title, valueLabel, "")
	p.Add(bars)
	p.NominalY(names...)
	return p, nil
}

// CategoryCounts renders TopCategories results.
func CategoryCounts(rows []model.CategoryCount) (*plot.Plot, error) {
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i], values[i] = r.Category, float64(r.Count)
	}
	return Bars("Most common categories", "recipes", labels, values)
}

// CategoryRatings renders TopRatedCategories results.
func CategoryRatings(rows []model.CategoryRating) (*plot.Plot, error) {
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i], values[i] = r.Category, r.AvgRating
	}
	return Bars("Highest rated categories", "mean rating", labels, values)
}

// Timeline draws recipe counts per year as a line.
func Timeline(years []model.YearCount) (*plot.Plot, error) {
	if len(years) == 0 {
		return nil, ErrNoData
	}
	xys := make(plotter.XYs, len(years))
	names := make([]string, len(years))
	for i, y := range years {
		xys[i].X, xys[i].Y = float64(i), float64(y.Count)
		names[i] = y.Year
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	line.Color = accent
	points.Color = accent

	p := newPlot("Recipes per year", "year", "recipes")
	p.Add(line, points, plotter.NewGrid())
	p.NominalX(names...)
	return p, nil
}

// PNG encodes p as a PNG image.
func PNG(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}
