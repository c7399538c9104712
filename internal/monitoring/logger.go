// Package monitoring configures process-wide logging for vetoplot.
package monitoring

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogConfig is the logging setup chosen at process start.
type LogConfig struct {
	// Verbose enables debug-level output.
	Verbose bool
	// JSON switches from the human console writer to JSON lines.
	JSON bool
	// Out defaults to os.Stderr.
	Out io.Writer
}

// Logf is the package-level diagnostic logger used by library packages. Setup
// points it at zerolog; tests may replace or mute it with SetLogger.
var Logf func(format string, v ...interface{}) = func(format string, v ...interface{}) {
	log.Debug().Msg(fmt.Sprintf(format, v...))
}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Setup installs the global zerolog logger and returns the run identifier
// attached to every record.
func Setup(cfg LogConfig) string {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	runID := uuid.NewString()
	log.Logger = zerolog.New(out).With().Timestamp().Str("run", runID[:8]).Logger()

	SetLogger(func(format string, v ...interface{}) {
		log.Debug().Msg(fmt.Sprintf(format, v...))
	})
	return runID
}
