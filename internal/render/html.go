package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"
)

// pixelsPerInch converts figure inches to HTML canvas size.
const pixelsPerInch = 96

// HTML renders an interactive go-echarts page.
type HTML struct {
	// AssetsHost serves the echarts javascript. Empty uses the go-echarts
	// default.
	AssetsHost string
}

// Render writes fig as a self-contained HTML page.
func (h HTML) Render(w io.Writer, fig *Figure) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  fig.Title,
			ChartID:    "vetoplot_" + uuid.NewString()[:8],
			Width:      fmt.Sprintf("%dpx", int(fig.Width*pixelsPerInch)),
			Height:     fmt.Sprintf("%dpx", int(fig.Height*pixelsPerInch)),
			AssetsHost: h.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{Title: fig.Title, Subtitle: fig.Caption}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "log", Min: fig.XMin, Max: fig.XMax, Name: fig.XLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "log", Min: fig.YMin, Max: fig.YMax, Name: fig.YLabel, NameLocation: "middle", NameGap: 40}),
	)

	for _, series := range []struct {
		s     *Series
		color string
	}{
		{fig.Triggers, hexColor(triggerColor)},
		{fig.Injections, hexColor(injectionColor)},
	} {
		if series.s.Len() == 0 {
			continue
		}
		xs, ys, _ := positive(series.s.X, series.s.Y)
		data := make([]opts.ScatterData, len(xs))
		for i := range xs {
			data[i] = opts.ScatterData{Value: []interface{}{xs[i], ys[i]}}
		}
		scatter.AddSeries(series.s.Name, data,
			charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "diamond", SymbolSize: 5}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: series.color}),
		)
	}

	for _, c := range fig.Contours {
		xs, ys, _ := positive(c.X, c.Y)
		if len(xs) < 2 {
			continue
		}
		data := make([]opts.LineData, len(xs))
		for i := range xs {
			data[i] = opts.LineData{Value: []interface{}{xs[i], ys[i]}}
		}
		lineType := "solid"
		if c.Style.Dashed {
			lineType = "dashed"
		}
		line := charts.NewLine()
		line.AddSeries(c.Label(), data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: hexColor(c.Style.Color), Width: float32(c.Style.Width), Type: lineType}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(c.Style.Color)}),
		)
		scatter.Overlap(line)
	}

	return scatter.Render(w)
}
