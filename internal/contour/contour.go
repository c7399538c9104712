// Package contour computes the chi-square values that place a trigger exactly
// on a reweighted ("new") SNR threshold, for drawing over a veto scatter plot.
package contour

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

// Unreachable is returned by NewSNRChisq when no chi-square value can bring
// the SNR down to the threshold. It is tiny but positive so it stays valid
// on a log axis.
const Unreachable = 1e-20

// DefaultThresholds are the new-SNR contours drawn when none are given.
var DefaultThresholds = []float64{5.5, 6, 6.5, 7, 8, 9, 10, 11}

// Params are the reweighting exponents.
type Params struct {
	// ChisqIndex is q in the reweighting formula.
	ChisqIndex float64
	// ChisqNHigh is n in the reweighting formula.
	ChisqNHigh float64
}

func (p Params) validate() error {
	if p.ChisqIndex <= 0 || p.ChisqNHigh <= 0 {
		return fmt.Errorf("chisq exponents must be positive, got index=%g nhigh=%g", p.ChisqIndex, p.ChisqNHigh)
	}
	return nil
}

// NewSNR reweights snr by the reduced chi-square chisq/dof:
//
//	ρ̂ = ρ                                 if χ²/dof ≤ 1
//	ρ̂ = ρ · [(1 + (χ²/dof)^(q/n)) / 2]^(-1/q) otherwise
func NewSNR(snr, chisq float64, dof int, p Params) float64 {
	reduced := chisq / float64(dof)
	if reduced <= 1 {
		return snr
	}
	return snr * math.Pow(0.5*(1+math.Pow(reduced, p.ChisqIndex/p.ChisqNHigh)), -1/p.ChisqIndex)
}

// NewSNRChisq inverts NewSNR: it returns the chi-square at which a trigger
// with the given snr has new SNR equal to threshold.
func NewSNRChisq(snr, threshold float64, dof int, p Params) float64 {
	norm := math.Pow(snr/threshold, p.ChisqIndex)
	if norm <= 1 {
		return Unreachable
	}
	return float64(dof) * math.Pow(2*norm-1, p.ChisqNHigh/p.ChisqIndex)
}

// Arange returns start, start+step, ... up to but excluding stop.
func Arange(start, stop, step float64) []float64 {
	if step <= 0 || stop <= start {
		return nil
	}
	// tolerance keeps (30-4)/0.1 from rounding up to 261 samples
	n := int(math.Ceil((stop-start)/step - 1e-9))
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// SampleSNRs is the x grid of every contour: fine steps where contours bend,
// coarse steps out to very loud triggers.
func SampleSNRs() []float64 {
	return append(Arange(4, 30, 0.1), Arange(30, 500, 1)...)
}

// Result holds contour curves for a threshold list.
type Result struct {
	// Grid has one row per threshold and one column per SNR sample.
	Grid *mat.Dense
	SNRs []float64
	// Thresholds may be longer than the input when the operating
	// threshold had to be appended.
	Thresholds []float64
	// Chosen is the index of the operating threshold.
	Chosen int
}

// Curve returns the chi-square values of threshold i, aligned with SNRs.
func (r *Result) Curve(i int) []float64 {
	return r.Grid.RawRowView(i)
}

// Compute evaluates NewSNRChisq over SampleSNRs for each threshold. With no
// thresholds, DefaultThresholds are used. The operating threshold is
// appended unless already present (exact match); the input slice is not
// modified.
func Compute(dof int, operating float64, p Params, thresholds ...float64) (*Result, error) {
	if dof <= 0 {
		return nil, fmt.Errorf("degrees of freedom must be positive, got %d", dof)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if operating <= 0 {
		return nil, errors.New("operating new SNR threshold must be positive")
	}
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}

	list := append([]float64(nil), thresholds...)
	chosen := lo.IndexOf(list, operating)
	if chosen < 0 {
		list = append(list, operating)
		chosen = len(list) - 1
	}

	snrs := SampleSNRs()
	grid := mat.NewDense(len(list), len(snrs), nil)
	for i, threshold := range list {
		row := grid.RawRowView(i)
		for j, snr := range snrs {
			row[j] = NewSNRChisq(snr, threshold, dof, p)
		}
	}

	return &Result{Grid: grid, SNRs: snrs, Thresholds: list, Chosen: chosen}, nil
}
