// Package vetoplot ties option validation, trigger loading, contour
// computation and rendering into a single plot run.
package vetoplot

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/banshee-data/vetoplot/internal/config"
	"github.com/banshee-data/vetoplot/internal/contour"
	"github.com/banshee-data/vetoplot/internal/fsutil"
	"github.com/banshee-data/vetoplot/internal/monitoring"
	"github.com/banshee-data/vetoplot/internal/render"
	"github.com/banshee-data/vetoplot/internal/triggers"
	"github.com/banshee-data/vetoplot/internal/trigstore"
)

// Run validates opts, builds the figure and writes it to opts.OutputFile.
func Run(ctx context.Context, opts *config.Options, fsys fsutil.FileSystem) error {
	fig, err := Prepare(ctx, opts, fsys)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(opts.OutputFile); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := render.Save(fsys, opts.OutputFile, fig); err != nil {
		return err
	}

	log.Info().
		Str("output", opts.OutputFile).
		Int("triggers", fig.Triggers.Len()).
		Int("injections", fig.Injections.Len()).
		Msg("plot written")
	return nil
}

// Prepare does everything up to rendering and returns the figure to draw.
// Options are validated before any file is opened.
func Prepare(ctx context.Context, opts *config.Options, fsys fsutil.FileSystem) (*render.Figure, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	trig, err := trigstore.Open(ctx, opts.TrigFile)
	if err != nil {
		return nil, err
	}
	defer trig.Close()

	ifos, err := selectIFOs(ctx, trig, opts)
	if err != nil {
		return nil, err
	}

	vetoes, err := triggers.ReadSegments(fsys, opts.VetoFiles...)
	if err != nil {
		return nil, err
	}

	req := triggers.Request{
		SNRKind:  opts.SNRKind,
		VetoKind: opts.VetoKind,
		IFO:      opts.IFO,
		IFOs:     ifos,
		Vetoes:   vetoes,
	}

	trigSet, err := triggers.Load(ctx, trig, req)
	if err != nil {
		return nil, fmt.Errorf("load triggers: %w", err)
	}

	injSet, err := loadInjections(ctx, opts, req)
	if err != nil {
		return nil, err
	}

	snrs := nonEmpty(trigSet.SNR, injSet.SNR)
	if len(snrs) == 0 {
		return nil, ErrNoXData
	}
	vetoVals := nonEmpty(trigSet.Veto, injSet.Veto)
	if len(vetoVals) == 0 {
		return nil, ErrNoYData
	}

	dof, ok := trigSet.FirstDOF()
	if !ok {
		dof, ok = injSet.FirstDOF()
	}
	if !ok {
		return nil, fmt.Errorf("%w: no chi-square degrees of freedom", ErrNoYData)
	}

	res, err := contour.Compute(dof, opts.NewSNRThreshold, contour.Params{
		ChisqIndex: opts.ChisqIndex,
		ChisqNHigh: opts.ChisqNHigh,
	})
	if err != nil {
		return nil, fmt.Errorf("compute contours: %w", err)
	}
	monitoring.Logf("contours: dof=%d thresholds=%v operating index=%d", dof, res.Thresholds, res.Chosen)

	return buildFigure(opts, trigSet, injSet, res), nil
}

// selectIFOs checks the requested detectors against the trigger file and
// returns the detectors used for coincident SNR.
func selectIFOs(ctx context.Context, trig *trigstore.Store, opts *config.Options) ([]string, error) {
	available, err := trig.Detectors(ctx)
	if err != nil {
		return nil, err
	}

	if opts.IFO != "" && !lo.Contains(available, opts.IFO) {
		return nil, fmt.Errorf("%w: %s not in %s (have %v)", ErrIFONotFound, opts.IFO, trig.Path(), available)
	}
	if len(opts.IFOs) == 0 {
		return available, nil
	}
	if missing, _ := lo.Difference(opts.IFOs, available); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v not in %s (have %v)", ErrIFONotFound, missing, trig.Path(), available)
	}
	return lo.Uniq(opts.IFOs), nil
}

// loadInjections returns an empty Set when no found-injection file was given.
func loadInjections(ctx context.Context, opts *config.Options, req triggers.Request) (triggers.Set, error) {
	if !opts.HasInjections() {
		return triggers.Load(ctx, nil, req)
	}

	inj, err := trigstore.Open(ctx, opts.FoundFile)
	if err != nil {
		return triggers.Set{}, err
	}
	defer inj.Close()

	set, err := triggers.Load(ctx, inj, req)
	if err != nil {
		return triggers.Set{}, fmt.Errorf("load injections: %w", err)
	}
	return set, nil
}

// nonEmpty collects the present, non-empty series.
func nonEmpty(series ...triggers.Optional[[]float64]) [][]float64 {
	var out [][]float64
	for _, s := range series {
		if v, ok := s.Get(); ok && len(v) > 0 {
			out = append(out, v)
		}
	}
	return out
}

func buildFigure(opts *config.Options, trigSet, injSet triggers.Set, res *contour.Result) *render.Figure {
	xLims, yLims := axisLimits(opts,
		nonEmpty(trigSet.SNR, injSet.SNR),
		nonEmpty(trigSet.Veto, injSet.Veto),
	)
	title, caption := titleAndCaption(opts)

	fig := &render.Figure{
		Title:   title,
		Caption: caption,
		XLabel:  xLabel(opts.SNRKind, opts.IFO),
		YLabel:  yLabel(opts.VetoKind, opts.IFO),
		XMin:    xLims.Min,
		XMax:    xLims.Max,
		YMin:    yLims.Min,
		YMax:    yLims.Max,
		Width:   opts.FigureWidth,
		Height:  opts.FigureHeight,
	}
	fig.Triggers = series("Triggers", trigSet)
	fig.Injections = series("Injections", injSet)

	styles := contour.Styles(res.Thresholds, opts.NewSNRThreshold)
	for i, th := range res.Thresholds {
		fig.Contours = append(fig.Contours, render.Curve{
			Threshold: th,
			X:         res.SNRs,
			Y:         res.Curve(i),
			Style:     styles[i],
		})
	}
	return fig
}

// series pairs SNR and veto values; nil when the file has nothing to draw.
func series(name string, set triggers.Set) *render.Series {
	snr, okX := set.SNR.Get()
	veto, okY := set.Veto.Get()
	if !okX || !okY || len(veto) == 0 || len(snr) != len(veto) {
		return nil
	}
	return &render.Series{Name: name, X: snr, Y: veto}
}
