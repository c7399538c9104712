package render

import (
	"bytes"
	"errors"
	"io/fs"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/vetoplot/internal/contour"
	"github.com/banshee-data/vetoplot/internal/fsutil"
)

func testFigure(t *testing.T) *Figure {
	t.Helper()

	res, err := contour.Compute(2, 6, contour.Params{ChisqIndex: 6, ChisqNHigh: 2})
	require.NoError(t, err)
	styles := contour.Styles(res.Thresholds, 6)

	curves := make([]Curve, len(res.Thresholds))
	for i, th := range res.Thresholds {
		curves[i] = Curve{Threshold: th, X: res.SNRs, Y: res.Curve(i), Style: styles[i]}
	}

	return &Figure{
		Title:      "Coherent SNR vs H1 Chi Square",
		Caption:    "Blue crosses: background triggers.",
		XLabel:     "Coherent SNR",
		YLabel:     "H1 Chi Square",
		XMin:       4,
		XMax:       50,
		YMin:       1,
		YMax:       200,
		Triggers:   &Series{Name: "Triggers", X: []float64{5, 8, 12, 0}, Y: []float64{3, 0.005, 40, 2}},
		Injections: &Series{Name: "Injections", X: []float64{9, 20}, Y: []float64{4, 15}},
		Contours:   curves,
		Width:      6,
		Height:     4,
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Renderer
		wantErr bool
	}{
		{"out/plot.png", Static{Format: "png"}, false},
		{"out/plot.PNG", Static{Format: "png"}, false},
		{"plot.svg", Static{Format: "svg"}, false},
		{"plot.pdf", Static{Format: "pdf"}, false},
		{"plot.html", HTML{}, false},
		{"plot", nil, true},
		{"plot.gif", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ForPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSavePNG(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.MkdirAll("plots", 0o755))

	require.NoError(t, Save(mfs, "plots/veto.png", testFigure(t)))

	data, err := mfs.ReadFile("plots/veto.png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "not a PNG")
}

func TestSaveSVG(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	require.NoError(t, Save(mfs, "veto.svg", testFigure(t)))

	data, err := mfs.ReadFile("veto.svg")
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "New SNR = 6")
}

func TestSaveHTML(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	require.NoError(t, Save(mfs, "veto.html", testFigure(t)))

	data, err := mfs.ReadFile("veto.html")
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, "echarts")
	assert.Contains(t, page, "Triggers")
	assert.Contains(t, page, "Injections")
	assert.Contains(t, page, "New SNR = 6.5")
	assert.Contains(t, page, `"log"`)
}

func TestHTMLAssetsHost(t *testing.T) {
	const host = "http://localhost:8080/assets/"

	var buf bytes.Buffer
	if err := (HTML{AssetsHost: host}).Render(&buf, testFigure(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), host+"echarts.min.js") {
		t.Errorf("page does not load echarts from %s", host)
	}

	buf.Reset()
	if err := (HTML{}).Render(&buf, testFigure(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), host) {
		t.Errorf("default renderer should not use %s", host)
	}
}

func TestSaveWithoutInjections(t *testing.T) {
	fig := testFigure(t)
	fig.Injections = nil

	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, Save(mfs, "veto.html", fig))
	data, err := mfs.ReadFile("veto.html")
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "Injections"))
}

func TestSaveMissingDirectory(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	err := Save(mfs, "missing/veto.png", testFigure(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestSaveRejectsBadFigure(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Figure)
	}{
		{"zero x min", func(f *Figure) { f.XMin = 0 }},
		{"inverted x", func(f *Figure) { f.XMin, f.XMax = 50, 4 }},
		{"negative y min", func(f *Figure) { f.YMin = -1 }},
		{"nan y max", func(f *Figure) { f.YMax = math.NaN() }},
		{"no width", func(f *Figure) { f.Width = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig := testFigure(t)
			tt.mutate(fig)
			mfs := fsutil.NewMemoryFileSystem()
			assert.Error(t, Save(mfs, "veto.png", fig))
			assert.False(t, mfs.Exists("veto.png"), "nothing should be written")
		})
	}
}

func TestPositive(t *testing.T) {
	xs, ys, dropped := positive(
		[]float64{1, 0, 3, -1, math.Inf(1), 6},
		[]float64{1, 2, math.NaN(), 4, 5, 6},
	)
	assert.Equal(t, []float64{1, 6}, xs)
	assert.Equal(t, []float64{1, 6}, ys)
	assert.Equal(t, 4, dropped)
}

func TestSeriesLen(t *testing.T) {
	var s *Series
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 2, (&Series{X: []float64{1, 2, 3}, Y: []float64{1, 2}}).Len())
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#0000ff", hexColor(triggerColor))
	assert.Equal(t, "#ff0000", hexColor(injectionColor))
}
