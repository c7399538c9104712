package render

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/vetoplot/internal/contour"
	"github.com/banshee-data/vetoplot/internal/monitoring"
)

// Static renders with gonum/plot. Format is any extension accepted by
// plot.WriterTo.
type Static struct {
	Format string
}

// Render draws fig on log-log axes and writes it to w.
func (s Static) Render(w io.Writer, fig *Figure) error {
	p, err := s.build(fig)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(vg.Length(fig.Width)*vg.Inch, vg.Length(fig.Height)*vg.Inch, s.Format)
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", s.Format, err)
	}
	return nil
}

func (s Static) build(fig *Figure) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fig.Title
	if fig.Caption != "" {
		p.Title.Text += "\n" + fig.Caption
	}
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	for _, series := range []struct {
		s     *Series
		glyph draw.GlyphStyle
	}{
		{fig.Triggers, draw.GlyphStyle{Color: triggerColor, Radius: vg.Points(2), Shape: draw.CrossGlyph{}}},
		{fig.Injections, draw.GlyphStyle{Color: injectionColor, Radius: vg.Points(2), Shape: draw.CrossGlyph{}}},
	} {
		if series.s.Len() == 0 {
			continue
		}
		xs, ys, dropped := positive(series.s.X, series.s.Y)
		if dropped > 0 {
			monitoring.Logf("render: dropped %d non-positive %s points", dropped, series.s.Name)
		}
		if len(xs) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys(xs, ys))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", series.s.Name, err)
		}
		sc.GlyphStyle = series.glyph
		p.Add(sc)
		p.Legend.Add(series.s.Name, sc)
	}

	for _, c := range fig.Contours {
		xs, ys, _ := positive(c.X, c.Y)
		if len(xs) < 2 {
			continue
		}
		line, err := plotter.NewLine(xys(xs, ys))
		if err != nil {
			return nil, fmt.Errorf("contour %g: %w", c.Threshold, err)
		}
		line.Color = c.Style.Color
		line.Width = vg.Points(c.Style.Width)
		if c.Style.Dashed {
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(line)
		if c.Style.Kind == contour.Operating {
			p.Legend.Add(c.Label(), line)
		}
	}

	p.X.Min, p.X.Max = fig.XMin, fig.XMax
	p.Y.Min, p.Y.Max = fig.YMin, fig.YMax

	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = 10
	p.Legend.YOffs = -10

	return p, nil
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	return pts
}
