// Package render draws a veto scatter figure to a static image or an
// interactive HTML page.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/banshee-data/vetoplot/internal/contour"
	"github.com/banshee-data/vetoplot/internal/fsutil"
)

var (
	triggerColor   = color.RGBA{B: 255, A: 255}
	injectionColor = color.RGBA{R: 255, A: 255}
)

// Series is a set of scatter points.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// Len returns the number of points.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return min(len(s.X), len(s.Y))
}

// Curve is one new SNR contour.
type Curve struct {
	Threshold float64
	X         []float64
	Y         []float64
	Style     contour.Style
}

// Label is the legend text of the curve.
func (c Curve) Label() string {
	return fmt.Sprintf("New SNR = %g", c.Threshold)
}

// Figure is everything drawn on one plot. Triggers and Injections are nil
// when the corresponding file was not supplied.
type Figure struct {
	Title   string
	Caption string
	XLabel  string
	YLabel  string

	XMin, XMax float64
	YMin, YMax float64

	Triggers   *Series
	Injections *Series
	Contours   []Curve

	// Width and Height in inches.
	Width  float64
	Height float64
}

// Validate checks the figure can be drawn on log axes.
func (f *Figure) Validate() error {
	if !(f.XMin > 0 && f.XMax > f.XMin) {
		return fmt.Errorf("invalid x range [%g, %g]", f.XMin, f.XMax)
	}
	if !(f.YMin > 0 && f.YMax > f.YMin) {
		return fmt.Errorf("invalid y range [%g, %g]", f.YMin, f.YMax)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid figure size %gx%g", f.Width, f.Height)
	}
	return nil
}

// Renderer writes a figure in one output format.
type Renderer interface {
	Render(w io.Writer, fig *Figure) error
}

// ForPath picks a renderer from the extension of path.
func ForPath(path string) (Renderer, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "html", "htm":
		return HTML{}, nil
	case "png", "jpg", "jpeg", "svg", "pdf", "eps", "tif", "tiff":
		return Static{Format: ext}, nil
	case "":
		return nil, fmt.Errorf("output file %q has no extension", path)
	default:
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}
}

// Save renders fig to path on fsys. The parent directory must exist. The
// file is only created once rendering has succeeded.
func Save(fsys fsutil.FileSystem, path string, fig *Figure) (err error) {
	r, err := ForPath(path)
	if err != nil {
		return err
	}
	if err := fig.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, fig); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if _, err := buf.WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// hexColor formats c as #rrggbb.
func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// positive drops points that a log axis cannot place.
func positive(xs, ys []float64) (px, py []float64, dropped int) {
	n := min(len(xs), len(ys))
	px = make([]float64, 0, n)
	py = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if xs[i] > 0 && ys[i] > 0 && !math.IsInf(xs[i], 1) && !math.IsInf(ys[i], 1) {
			px = append(px, xs[i])
			py = append(py, ys[i])
		}
	}
	return px, py, n - len(px)
}
