package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/banshee-data/vetoplot/internal/config"
	"github.com/banshee-data/vetoplot/internal/fsutil"
	"github.com/banshee-data/vetoplot/internal/monitoring"
	"github.com/banshee-data/vetoplot/internal/trigstore"
	"github.com/banshee-data/vetoplot/internal/version"
)

// plotFunc executes one plot run.
type plotFunc func(ctx context.Context, opts *config.Options) error

func newApp(d *config.Defaults, run plotFunc) *cli.App {
	// each flag set needs its own flag values
	flags := func() []cli.Flag { return append(logFlags(), plotFlags(d)...) }
	plot := func(cCtx *cli.Context) error {
		setupLogging(cCtx)
		opts, err := optionsFromContext(cCtx, d)
		if err != nil {
			return err
		}
		return run(cCtx.Context, opts)
	}

	return &cli.App{
		Name:            "vetoplot",
		Usage:           "plot chi-square veto statistics against SNR with new SNR contours",
		Version:         version.String(),
		HideHelpCommand: true,
		Flags:           flags(),
		Action:          plot,
		Commands: []*cli.Command{
			{
				Name:   "plot",
				Usage:  "draw a veto scatter plot (default)",
				Flags:  flags(),
				Action: plot,
			},
			importCSVCommand(),
		},
	}
}

func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Usage: "log debug messages"},
		&cli.BoolFlag{Name: "log-json", Usage: "log JSON lines instead of console text"},
	}
}

func plotFlags(d *config.Defaults) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "trig-file", Usage: "trigger file to plot"},
		&cli.StringFlag{Name: "found-file", Usage: "found-injection file to overlay"},
		&cli.StringSliceFlag{Name: "veto-file", Usage: "segment file whose triggers are removed (repeatable)"},
		&cli.StringFlag{Name: "output-file", Aliases: []string{"o"}, Usage: "output image (.png .svg .pdf ...) or .html page"},
		&cli.StringFlag{Name: "y-variable", Usage: "veto statistic: standard, bank or auto"},
		&cli.StringFlag{Name: "snr-type", Value: string(config.SNRCoherent), Usage: "x-axis SNR: coherent, single, coincident, null or reweighted"},
		&cli.StringFlag{Name: "ifo", Usage: "detector of the veto statistic and single-IFO SNR"},
		&cli.StringSliceFlag{Name: "ifos", Usage: "detectors combined for coincident SNR (default: all in the trigger file)"},
		&cli.BoolFlag{Name: "zoom-in", Usage: "limit the axes to SNR 50 and chi-square 200"},
		&cli.StringFlag{Name: "plot-title", Usage: "override the plot title"},
		&cli.StringFlag{Name: "plot-caption", Usage: "override the plot caption"},
		&cli.Float64SliceFlag{Name: "x-lims", Usage: "x-axis range as min,max"},
		&cli.Float64SliceFlag{Name: "y-lims", Usage: "y-axis range as min,max"},
		&cli.Float64Flag{Name: "newsnr-threshold", Value: d.NewSNRThreshold, Usage: "operating new SNR threshold"},
		&cli.Float64Flag{Name: "chisq-index", Value: d.ChisqIndex, Usage: "new SNR chi-square index q"},
		&cli.Float64Flag{Name: "chisq-nhigh", Value: d.ChisqNHigh, Usage: "new SNR high-chi-square exponent n"},
		&cli.Float64Flag{Name: "sngl-snr-threshold", Value: d.SnglSNRThreshold, Usage: "single-IFO SNR threshold, the x-axis minimum"},
		&cli.Float64Flag{Name: "figure-width", Value: d.FigureWidth, Usage: "figure width in inches"},
		&cli.Float64Flag{Name: "figure-height", Value: d.FigureHeight, Usage: "figure height in inches"},
	}
}

func setupLogging(cCtx *cli.Context) {
	runID := monitoring.Setup(monitoring.LogConfig{
		Verbose: cCtx.Bool("verbose"),
		JSON:    cCtx.Bool("log-json"),
		Out:     os.Stderr,
	})
	log.Debug().Str("version", version.String()).Str("run_id", runID).Msg("starting")
}

// optionsFromContext maps parsed flags onto Options. Validation is left to
// Options.Validate.
func optionsFromContext(cCtx *cli.Context, d *config.Defaults) (*config.Options, error) {
	opts := config.NewOptions(d)
	opts.TrigFile = cCtx.String("trig-file")
	opts.FoundFile = cCtx.String("found-file")
	opts.VetoFiles = cCtx.StringSlice("veto-file")
	opts.OutputFile = cCtx.String("output-file")
	opts.VetoKind = config.VetoKind(strings.ToLower(cCtx.String("y-variable")))
	opts.SNRKind = config.SNRKind(strings.ToLower(cCtx.String("snr-type")))
	opts.IFO = cCtx.String("ifo")
	opts.IFOs = cCtx.StringSlice("ifos")
	opts.ZoomIn = cCtx.Bool("zoom-in")
	opts.PlotTitle = cCtx.String("plot-title")
	opts.PlotCaption = cCtx.String("plot-caption")
	opts.NewSNRThreshold = cCtx.Float64("newsnr-threshold")
	opts.ChisqIndex = cCtx.Float64("chisq-index")
	opts.ChisqNHigh = cCtx.Float64("chisq-nhigh")
	opts.SnglSNRThreshold = cCtx.Float64("sngl-snr-threshold")
	opts.FigureWidth = cCtx.Float64("figure-width")
	opts.FigureHeight = cCtx.Float64("figure-height")

	var err error
	if opts.XLims, err = config.ParseLimits(cCtx.Float64Slice("x-lims")); err != nil {
		return nil, fmt.Errorf("--x-lims: %w", err)
	}
	if opts.YLims, err = config.ParseLimits(cCtx.Float64Slice("y-lims")); err != nil {
		return nil, fmt.Errorf("--y-lims: %w", err)
	}
	return opts, nil
}

func importCSVCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-csv",
		Usage: "build a trigger file from a CSV whose header names dataset paths",
		Flags: append(logFlags(),
			&cli.StringFlag{Name: "csv", Required: true, Usage: "input CSV, header like network/coherent_snr,H1/chisq,..."},
			&cli.StringFlag{Name: "out", Required: true, Usage: "trigger file to create"},
			&cli.StringSliceFlag{Name: "ifos", Usage: "extra detectors to record even without columns"},
		),
		Action: func(cCtx *cli.Context) error {
			setupLogging(cCtx)
			return importCSV(cCtx.Context, fsutil.OSFileSystem{}, cCtx.String("csv"), cCtx.String("out"), cCtx.StringSlice("ifos"))
		},
	}
}

func importCSV(ctx context.Context, fsys fsutil.FileSystem, csvPath, out string, ifos []string) error {
	if fsys.Exists(out) {
		return fmt.Errorf("%s already exists", out)
	}
	f, err := fsys.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := trigstore.Create(ctx, out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer s.Close()

	if len(ifos) > 0 {
		if err := s.SetDetectors(ctx, ifos...); err != nil {
			return err
		}
	}
	rows, err := trigstore.ImportCSV(ctx, s, f)
	if err != nil {
		return fmt.Errorf("import %s: %w", csvPath, err)
	}

	detectors, err := s.Detectors(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("out", out).Int("rows", rows).Strs("detectors", detectors).Msg("trigger file written")
	return nil
}
