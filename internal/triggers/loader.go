// Package triggers extracts the SNR and chi-square veto series plotted by
// vetoplot from a trigger or found-injection file.
package triggers

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/banshee-data/vetoplot/internal/config"
	"github.com/banshee-data/vetoplot/internal/monitoring"
	"github.com/banshee-data/vetoplot/internal/trigstore"
)

// VetoFloor replaces veto values of exactly zero so they survive a log axis.
const VetoFloor = 0.005

// Source is the read side of a trigger file.
type Source interface {
	Path() string
	Dataset(ctx context.Context, path string) ([]float64, error)
}

var _ Source = (*trigstore.Store)(nil)

// Request selects what Load extracts.
type Request struct {
	SNRKind  config.SNRKind
	VetoKind config.VetoKind
	// IFO is the detector of single-IFO SNR and of the veto statistic.
	IFO string
	// IFOs are combined in quadrature for coincident SNR.
	IFOs []string
	// Vetoes drops triggers whose end time falls inside a segment.
	Vetoes Segments
}

// Set is one file's worth of plot data. SNR and Veto, when both present,
// have one entry per trigger.
type Set struct {
	SNR  Optional[[]float64]
	Veto Optional[[]float64]
	// DOF is deduplicated in first-seen order.
	DOF Optional[[]int]
}

// FirstDOF returns the degrees of freedom used for contours.
func (s Set) FirstDOF() (int, bool) {
	dof, ok := s.DOF.Get()
	if !ok || len(dof) == 0 {
		return 0, false
	}
	return dof[0], true
}

// Load reads the requested series from src. A nil src stands for a file that
// was not supplied and yields a Set with every field absent.
func Load(ctx context.Context, src Source, req Request) (Set, error) {
	if src == nil {
		return Set{}, nil
	}

	snr, err := loadSNR(ctx, src, req)
	if err != nil {
		return Set{}, err
	}

	var veto, dofs []float64
	if req.VetoKind != "" {
		valuePath, dofPath, err := VetoPaths(req.VetoKind, req.IFO)
		if err != nil {
			return Set{}, err
		}
		if veto, err = src.Dataset(ctx, valuePath); err != nil {
			return Set{}, err
		}
		if dofs, err = src.Dataset(ctx, dofPath); err != nil {
			return Set{}, err
		}
		// an empty veto series means the statistic was not recorded
		if len(veto) > 0 && (len(veto) != len(snr) || len(dofs) != len(veto)) {
			return Set{}, fmt.Errorf("%s: %d SNR rows but %d veto and %d dof rows",
				src.Path(), len(snr), len(veto), len(dofs))
		}
	}

	if len(req.Vetoes) > 0 {
		keep, err := unvetoed(ctx, src, req.Vetoes, len(snr))
		if err != nil {
			return Set{}, err
		}
		snr = lo.Filter(snr, func(_ float64, i int) bool { return keep[i] })
		if len(veto) > 0 {
			veto = lo.Filter(veto, func(_ float64, i int) bool { return keep[i] })
			dofs = lo.Filter(dofs, func(_ float64, i int) bool { return keep[i] })
		}
	}

	set := Set{SNR: Some(snr)}
	if req.VetoKind != "" {
		set.Veto = Some(FloorZeros(veto))
		set.DOF = Some(uniqueDOF(src.Path(), dofs))
	}
	monitoring.Logf("loaded %d triggers from %s", len(snr), src.Path())
	return set, nil
}

func loadSNR(ctx context.Context, src Source, req Request) ([]float64, error) {
	if req.SNRKind != config.SNRCoincident {
		path, err := SNRPath(req.SNRKind, req.IFO)
		if err != nil {
			return nil, err
		}
		return src.Dataset(ctx, path)
	}

	if len(req.IFOs) == 0 {
		return nil, fmt.Errorf("coincident SNR needs at least one detector")
	}
	var sum []float64
	for _, ifo := range req.IFOs {
		path := SingleSNRPath(ifo)
		single, err := src.Dataset(ctx, path)
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = make([]float64, len(single))
		}
		if len(single) != len(sum) {
			return nil, fmt.Errorf("%s: %s has %d rows, expected %d", src.Path(), path, len(single), len(sum))
		}
		for i, v := range single {
			sum[i] += v * v
		}
	}
	for i := range sum {
		sum[i] = math.Sqrt(sum[i])
	}
	return sum, nil
}

// unvetoed marks which of n triggers survive the veto segments.
func unvetoed(ctx context.Context, src Source, vetoes Segments, n int) ([]bool, error) {
	times, err := src.Dataset(ctx, trigstore.DatasetPath(trigstore.NetworkGroup, EndTimeField))
	if err != nil {
		return nil, err
	}
	if len(times) != n {
		return nil, fmt.Errorf("%s: %d end times for %d triggers", src.Path(), len(times), n)
	}

	keep := make([]bool, n)
	dropped := 0
	for i, t := range times {
		keep[i] = !vetoes.Contains(t)
		if !keep[i] {
			dropped++
		}
	}
	monitoring.Logf("vetoes removed %d of %d triggers from %s", dropped, n, src.Path())
	return keep, nil
}

// FloorZeros returns a copy of vals with exact zeros replaced by VetoFloor.
func FloorZeros(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v == 0 {
			v = VetoFloor
		}
		out[i] = v
	}
	return out
}

func uniqueDOF(path string, raw []float64) []int {
	dofs := lo.Uniq(lo.Map(raw, func(v float64, _ int) int { return int(math.Round(v)) }))
	if len(dofs) > 1 {
		log.Warn().Str("file", path).Ints("dof", dofs).Msg("multiple chi-square degrees of freedom; using the first")
	}
	return dofs
}
