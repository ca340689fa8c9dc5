package chart

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// NewECharts builds the same breakdown as a go-echarts bar chart, for
// clients that want a standalone page rendered without Chart.js.
func NewECharts(b Breakdown) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: Title, Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: Title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(ShowLegend)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	items := make([]opts.BarData, 0, b.Len())
	for _, p := range b.Points {
		items = append(items, opts.BarData{Name: p.Label, Value: p.Amount.Euros()})
	}
	bar.SetXAxis(b.Labels()).
		AddSeries(DatasetLabel, items,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: BarColor}),
			charts.WithBarChartOpts(opts.BarChart{BarWidth: strconv.Itoa(BarThickness)}),
		)
	return bar
}

// WriteECharts renders the go-echarts page for b.
func WriteECharts(w io.Writer, b Breakdown) error {
	if err := NewECharts(b).Render(w); err != nil {
		return fmt.Errorf("render echarts page: %w", err)
	}
	return nil
}
