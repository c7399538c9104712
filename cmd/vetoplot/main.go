// Command vetoplot draws chi-square veto scatter plots with new SNR contours
// from trigger and found-injection files.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/banshee-data/vetoplot/internal/config"
	"github.com/banshee-data/vetoplot/internal/fsutil"
	"github.com/banshee-data/vetoplot/internal/vetoplot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaults, err := config.LoadDefaults()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load defaults")
	}

	app := newApp(defaults, func(ctx context.Context, opts *config.Options) error {
		return vetoplot.Run(ctx, opts, fsutil.OSFileSystem{})
	})
	if err := app.RunContext(ctx, os.Args); err != nil {
		stop()
		log.Fatal().Err(err).Msg("vetoplot failed")
	}
}
