package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of the environment variables read by LoadDefaults.
const EnvPrefix = "vetoplot"

// ErrIFORequired is returned when the requested plot needs a single detector
// but none was named.
var ErrIFORequired = errors.New("--ifo is required for single-IFO SNR and for veto plots")

// SNRKind selects the x-axis statistic.
type SNRKind string

const (
	SNRCoherent   SNRKind = "coherent"
	SNRSingle     SNRKind = "single"
	SNRCoincident SNRKind = "coincident"
	SNRNull       SNRKind = "null"
	SNRReweighted SNRKind = "reweighted"
)

// VetoKind selects the y-axis chi-square statistic.
type VetoKind string

const (
	VetoStandard VetoKind = "standard"
	VetoBank     VetoKind = "bank"
	VetoAuto     VetoKind = "auto"
)

// Defaults holds the tunables whose defaults may be changed through the
// environment, e.g. VETOPLOT_CHISQ_INDEX=4.
type Defaults struct {
	NewSNRThreshold  float64 `split_words:"true" default:"6"`
	ChisqIndex       float64 `split_words:"true" default:"6"`
	ChisqNHigh       float64 `envconfig:"CHISQ_NHIGH" default:"2"`
	SnglSNRThreshold float64 `split_words:"true" default:"4"`

	// Figure size in inches for static outputs.
	FigureWidth  float64 `split_words:"true" default:"10"`
	FigureHeight float64 `split_words:"true" default:"7"`
}

// LoadDefaults reads Defaults from the environment.
func LoadDefaults() (*Defaults, error) {
	var d Defaults
	if err := envconfig.Process(EnvPrefix, &d); err != nil {
		return nil, fmt.Errorf("failed to parse %s_* environment: %w", strings.ToUpper(EnvPrefix), err)
	}
	return &d, nil
}

// Limits is a closed axis range.
type Limits struct {
	Min float64
	Max float64
}

// ParseLimits converts a two-element flag value into Limits. An empty slice
// means no override and yields nil.
func ParseLimits(vals []float64) (*Limits, error) {
	if len(vals) == 0 {
		return nil, nil
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("axis limits need exactly two values (min,max), got %d", len(vals))
	}
	return &Limits{Min: vals[0], Max: vals[1]}, nil
}

// Options is the validated command line of a plot run.
type Options struct {
	TrigFile   string   `flag:"trig-file" validate:"required"`
	FoundFile  string   `flag:"found-file"`
	OutputFile string   `flag:"output-file" validate:"required"`
	VetoFiles  []string `flag:"veto-file"`

	SNRKind  SNRKind  `flag:"snr-type" validate:"oneof=coherent single coincident null reweighted"`
	VetoKind VetoKind `flag:"y-variable" validate:"required,oneof=standard bank auto"`
	IFO      string   `flag:"ifo"`
	// IFOs restricts coincident SNR to these detectors; empty means every
	// detector in the trigger file.
	IFOs []string `flag:"ifos"`

	ZoomIn      bool   `flag:"zoom-in"`
	PlotTitle   string `flag:"plot-title"`
	PlotCaption string `flag:"plot-caption"`

	// Optional axis overrides; nil means derive from data.
	XLims *Limits `flag:"x-lims"`
	YLims *Limits `flag:"y-lims"`

	NewSNRThreshold  float64 `flag:"newsnr-threshold" validate:"gt=0"`
	ChisqIndex       float64 `flag:"chisq-index" validate:"gt=0"`
	ChisqNHigh       float64 `flag:"chisq-nhigh" validate:"gt=0"`
	SnglSNRThreshold float64 `flag:"sngl-snr-threshold" validate:"gt=0"`

	FigureWidth  float64 `flag:"figure-width" validate:"gt=0"`
	FigureHeight float64 `flag:"figure-height" validate:"gt=0"`
}

// NewOptions returns Options seeded from d with the coherent SNR x-axis.
func NewOptions(d *Defaults) *Options {
	return &Options{
		SNRKind:          SNRCoherent,
		NewSNRThreshold:  d.NewSNRThreshold,
		ChisqIndex:       d.ChisqIndex,
		ChisqNHigh:       d.ChisqNHigh,
		SnglSNRThreshold: d.SnglSNRThreshold,
		FigureWidth:      d.FigureWidth,
		FigureHeight:     d.FigureHeight,
	}
}

// NeedsIFO reports whether the plot is tied to a single detector. Veto
// statistics are per-detector, so any veto plot needs one.
func (o *Options) NeedsIFO() bool {
	return o.SNRKind == SNRSingle || o.VetoKind != ""
}

// HasInjections reports whether a found-injection file was supplied.
func (o *Options) HasInjections() bool {
	return o.FoundFile != ""
}

// Validate checks field constraints and flag combinations. It touches no
// files, so it runs before anything is loaded.
func (o *Options) Validate() error {
	if err := newValidator().Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return describe(verrs)
		}
		return err
	}

	if o.NeedsIFO() && o.IFO == "" {
		return ErrIFORequired
	}

	for name, lims := range map[string]*Limits{"x-lims": o.XLims, "y-lims": o.YLims} {
		if lims == nil {
			continue
		}
		// both axes are logarithmic
		if lims.Min <= 0 || lims.Max <= lims.Min {
			return fmt.Errorf("--%s must satisfy 0 < min < max, got %g,%g", name, lims.Min, lims.Max)
		}
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("flag"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// describe turns the first validation failure into a flag-oriented message.
func describe(verrs validator.ValidationErrors) error {
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("--%s is required", fe.Field())
	case "oneof":
		return fmt.Errorf("--%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "gt":
		return fmt.Errorf("--%s must be greater than %s, got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Errorf("--%s failed %q validation", fe.Field(), fe.Tag())
	}
}
