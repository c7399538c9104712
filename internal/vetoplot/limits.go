package vetoplot

import (
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/vetoplot/internal/config"
)

// Fixed upper bounds of a zoomed plot.
const (
	ZoomXMax = 50
	ZoomYMax = 200
)

const (
	xPadding = 1.1
	yPadding = 10
	yMin     = 1
)

// maxOf returns the largest value across the non-empty series.
func maxOf(series ...[]float64) (float64, bool) {
	var (
		m  float64
		ok bool
	)
	for _, s := range series {
		if len(s) == 0 {
			continue
		}
		if v := floats.Max(s); !ok || v > m {
			m, ok = v, true
		}
	}
	return m, ok
}

// axisLimits derives the plot ranges. snrs and vetoes hold the series of
// every supplied file; at least one of each must be non-empty.
func axisLimits(o *config.Options, snrs, vetoes [][]float64) (x, y config.Limits) {
	maxSNR, _ := maxOf(snrs...)
	maxVeto, _ := maxOf(vetoes...)

	x = config.Limits{Min: o.SnglSNRThreshold, Max: xPadding * maxSNR}
	y = config.Limits{Min: yMin, Max: yPadding * maxVeto}
	if o.ZoomIn {
		x.Max, y.Max = ZoomXMax, ZoomYMax
	}

	// keep the range usable when every trigger sits below the lower bound
	if x.Max <= x.Min {
		x.Max = 10 * x.Min
	}
	if y.Max <= y.Min {
		y.Max = 10 * y.Min
	}

	if o.XLims != nil {
		x = *o.XLims
	}
	if o.YLims != nil {
		y = *o.YLims
	}
	return x, y
}
