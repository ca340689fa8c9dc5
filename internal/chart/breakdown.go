// Package chart builds the monthly expense breakdown bar chart.
//
// The chart itself is drawn in the browser by Chart.js; this package owns the
// server side of that contract: pairing labels with amounts, the fixed
// configuration object and the HTML fragment that instantiates the chart.
package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"math"

	"smartbudget/internal/core"
)

// Fixed chart configuration.
const (
	Kind            = "bar"
	Title           = "Monthly Expense Breakdown"
	DatasetLabel    = "Expenses (€)"
	BarColor        = "rgba(54, 162, 235, 0.6)"
	BarThickness    = 25
	CanvasID        = "breakdownChart"
	LibraryURL      = "https://cdn.jsdelivr.net/npm/chart.js"
	LibraryOrigin   = "https://cdn.jsdelivr.net"
	ShowLegend      = false
	Responsive      = true
	KeepAspectRatio = false
)

// EChartsAssetsOrigin hosts the scripts the go-echarts page loads.
const EChartsAssetsOrigin = "https://go-echarts.github.io"

var (
	// ErrSeriesMismatch is returned when labels and values differ in length.
	ErrSeriesMismatch = errors.New("labels and values differ in length")
	// ErrSeriesValue is returned for NaN, infinite or out of range values.
	ErrSeriesValue = errors.New("value cannot be charted")
)

// maxSeriesValue is the largest magnitude whose cents a float64 holds exactly.
const maxSeriesValue = 1 << 53 / 100

// Point pairs one category label with its amount.
type Point struct {
	Label  string
	Amount core.Money
}

// Breakdown is the read-only view-model bound to the chart.
type Breakdown struct {
	Points []Point
}

// NewBreakdown builds a breakdown from aggregated amounts, keeping order.
func NewBreakdown(rows []core.CategoryAmount) Breakdown {
	points := make([]Point, len(rows))
	for i, r := range rows {
		points[i] = Point{Label: r.Name, Amount: r.Amount}
	}
	return Breakdown{Points: points}
}

// FromSeries pairs two index-aligned sequences. Values are amounts in euros
// and are rounded to whole cents, so 0.004 charts as 0.
func FromSeries(labels []string, values []float64) (Breakdown, error) {
	if len(labels) != len(values) {
		return Breakdown{}, fmt.Errorf("%w: %d labels, %d values", ErrSeriesMismatch, len(labels), len(values))
	}
	points := make([]Point, len(labels))
	for i := range labels {
		v := values[i]
		if math.IsNaN(v) || math.Abs(v) > maxSeriesValue {
			return Breakdown{}, fmt.Errorf("%w: %q = %v", ErrSeriesValue, labels[i], v)
		}
		points[i] = Point{Label: labels[i], Amount: core.FromFloat(v)}
	}
	return Breakdown{Points: points}, nil
}

// Len is the number of bars.
func (b Breakdown) Len() int {
	return len(b.Points)
}

// Labels returns the category axis, never nil.
func (b Breakdown) Labels() []string {
	out := make([]string, len(b.Points))
	for i, p := range b.Points {
		out[i] = p.Label
	}
	return out
}

// Values returns the amounts in currency units, never nil.
func (b Breakdown) Values() []float64 {
	out := make([]float64, len(b.Points))
	for i, p := range b.Points {
		out[i] = p.Amount.Euros()
	}
	return out
}

type (
	// Config is the object handed to `new Chart(ctx, config)`.
	Config struct {
		Type    string  `json:"type"`
		Data    Data    `json:"data"`
		Options Options `json:"options"`
	}

	Data struct {
		Labels   []string  `json:"labels"`
		Datasets []Dataset `json:"datasets"`
	}

	Dataset struct {
		Label           string    `json:"label"`
		Data            []float64 `json:"data"`
		BackgroundColor string    `json:"backgroundColor"`
		BarThickness    int       `json:"barThickness"`
	}

	Options struct {
		Responsive          bool    `json:"responsive"`
		Plugins             Plugins `json:"plugins"`
		MaintainAspectRatio bool    `json:"maintainAspectRatio"`
	}

	Plugins struct {
		Title  TitleOptions  `json:"title"`
		Legend LegendOptions `json:"legend"`
	}

	TitleOptions struct {
		Display bool   `json:"display"`
		Text    string `json:"text"`
	}

	LegendOptions struct {
		Display bool `json:"display"`
	}
)

// Config binds the breakdown to the fixed single-dataset configuration.
func (b Breakdown) Config() Config {
	return Config{
		Type: Kind,
		Data: Data{
			Labels: b.Labels(),
			Datasets: []Dataset{{
				Label:           DatasetLabel,
				Data:            b.Values(),
				BackgroundColor: BarColor,
				BarThickness:    BarThickness,
			}},
		},
		Options: Options{
			Responsive: Responsive,
			Plugins: Plugins{
				Title:  TitleOptions{Display: true, Text: Title},
				Legend: LegendOptions{Display: ShowLegend},
			},
			MaintainAspectRatio: KeepAspectRatio,
		},
	}
}

// JSON serializes the config for embedding in an inline script.
// encoding/json escapes <, > and & so the output is safe inside <script>.
func (c Config) JSON() (template.JS, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal chart config: %w", err)
	}
	return template.JS(raw), nil
}
