package vetoplot

import (
	"errors"

	"github.com/banshee-data/vetoplot/internal/config"
)

// Fatal conditions of a plot run.
var (
	ErrIFORequired = config.ErrIFORequired
	ErrIFONotFound = errors.New("detector not in trigger file")
	ErrNoXData     = errors.New("no data for the x-axis in trigger or injection file")
	ErrNoYData     = errors.New("no data for the y-axis in trigger or injection file")
)
