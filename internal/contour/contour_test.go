package contour

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultParams = Params{ChisqIndex: 6, ChisqNHigh: 2}

func TestSampleSNRs(t *testing.T) {
	snrs := SampleSNRs()
	require.Len(t, snrs, 730)

	assert.Equal(t, 4.0, snrs[0])
	assert.InDelta(t, 29.9, snrs[259], 1e-9)
	assert.Equal(t, 30.0, snrs[260])
	assert.Equal(t, 499.0, snrs[729])
	for i := 1; i < len(snrs); i++ {
		assert.Greater(t, snrs[i], snrs[i-1], "sample %d not increasing", i)
	}
}

func TestArange(t *testing.T) {
	assert.Len(t, Arange(4, 30, 0.1), 260)
	assert.Len(t, Arange(30, 500, 1), 470)
	assert.Equal(t, []float64{0, 0.5}, Arange(0, 1, 0.5))
	assert.Nil(t, Arange(1, 1, 0.5))
	assert.Nil(t, Arange(0, 1, 0))
}

func TestComputeOperatingInDefaults(t *testing.T) {
	res, err := Compute(2, 6, defaultParams)
	require.NoError(t, err)

	rows, cols := res.Grid.Dims()
	assert.Equal(t, 8, rows)
	assert.Equal(t, 730, cols)
	assert.Equal(t, 1, res.Chosen)
	assert.Empty(t, cmp.Diff(DefaultThresholds, res.Thresholds))
	assert.Len(t, res.SNRs, 730)
}

func TestComputeAppendsOperating(t *testing.T) {
	res, err := Compute(2, 6.3, defaultParams)
	require.NoError(t, err)

	rows, _ := res.Grid.Dims()
	assert.Equal(t, 9, rows)
	require.Len(t, res.Thresholds, 9)
	assert.Equal(t, 8, res.Chosen)
	assert.Equal(t, 6.3, res.Thresholds[8])
	assert.Len(t, DefaultThresholds, 8, "defaults must not grow")
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	in := make([]float64, 2, 8)
	in[0], in[1] = 7, 8
	res, err := Compute(4, 9, defaultParams, in...)
	require.NoError(t, err)

	assert.Equal(t, []float64{7, 8, 9}, res.Thresholds)
	assert.Equal(t, 2, res.Chosen)
	assert.Equal(t, []float64{7, 8}, in)
	assert.Equal(t, 0.0, in[:3][2], "spare capacity written")
}

func TestComputeRejects(t *testing.T) {
	tests := []struct {
		name      string
		dof       int
		operating float64
		params    Params
	}{
		{"zero dof", 0, 6, defaultParams},
		{"negative dof", -3, 6, defaultParams},
		{"zero index", 2, 6, Params{ChisqIndex: 0, ChisqNHigh: 2}},
		{"negative nhigh", 2, 6, Params{ChisqIndex: 6, ChisqNHigh: -1}},
		{"zero operating", 2, 0, defaultParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.dof, tt.operating, tt.params)
			assert.Error(t, err)
		})
	}
}

func TestNewSNRChisqBelowThreshold(t *testing.T) {
	assert.Equal(t, Unreachable, NewSNRChisq(5, 6, 2, defaultParams))
	assert.Equal(t, Unreachable, NewSNRChisq(6, 6, 2, defaultParams))
}

func TestNewSNRChisqKnownValue(t *testing.T) {
	// snr = 2^(1/6)·t gives norm = 2, so chisq = dof·3^(1/3)
	snr := 6 * math.Pow(2, 1.0/6)
	assert.InDelta(t, 2*math.Cbrt(3), NewSNRChisq(snr, 6, 2, defaultParams), 1e-9)
}

func TestNewSNRChisqInvertsNewSNR(t *testing.T) {
	for _, threshold := range DefaultThresholds {
		for _, snr := range []float64{threshold + 0.1, 15, 42, 300} {
			for _, dof := range []int{2, 30, 62} {
				chisq := NewSNRChisq(snr, threshold, dof, defaultParams)
				got := NewSNR(snr, chisq, dof, defaultParams)
				assert.InDelta(t, threshold, got, 1e-6, "snr=%g threshold=%g dof=%d", snr, threshold, dof)
			}
		}
	}
}

func TestNewSNRBelowReducedOne(t *testing.T) {
	assert.Equal(t, 9.0, NewSNR(9, 10, 10, defaultParams))
	assert.Equal(t, 9.0, NewSNR(9, 0.005, 2, defaultParams))
	assert.Less(t, NewSNR(9, 40, 10, defaultParams), 9.0)
}

func TestCurvesIncreaseWithSNR(t *testing.T) {
	res, err := Compute(2, 6, defaultParams)
	require.NoError(t, err)

	for i := range res.Thresholds {
		curve := res.Curve(i)
		require.Len(t, curve, len(res.SNRs))
		for j := 1; j < len(curve); j++ {
			assert.GreaterOrEqual(t, curve[j], curve[j-1])
			assert.Greater(t, curve[j], 0.0)
		}
	}
}

func TestCurvesOrderedByThreshold(t *testing.T) {
	res, err := Compute(30, 6, defaultParams, 6, 8, 10)
	require.NoError(t, err)

	// lower thresholds need more chi-square to pull the SNR down to them
	j := len(res.SNRs) - 1
	assert.Greater(t, res.Grid.At(0, j), res.Grid.At(1, j))
	assert.Greater(t, res.Grid.At(1, j), res.Grid.At(2, j))
}
