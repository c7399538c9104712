package vetoplot

import (
	"fmt"
	"strings"

	"github.com/banshee-data/vetoplot/internal/config"
)

func xLabel(kind config.SNRKind, ifo string) string {
	switch kind {
	case config.SNRSingle:
		return ifo + " SNR"
	case config.SNRCoincident:
		return "Coincident SNR"
	case config.SNRNull:
		return "Null SNR"
	case config.SNRReweighted:
		return "Reweighted SNR"
	default:
		return "Coherent SNR"
	}
}

func yLabel(kind config.VetoKind, ifo string) string {
	switch kind {
	case config.VetoBank:
		return ifo + " Bank Chi Square"
	case config.VetoAuto:
		return ifo + " Auto Chi Square"
	default:
		return ifo + " Chi Square"
	}
}

// defaultTitle names the two plotted statistics.
func defaultTitle(o *config.Options) string {
	return fmt.Sprintf("%s vs %s", yLabel(o.VetoKind, o.IFO), xLabel(o.SNRKind, o.IFO))
}

// defaultCaption describes the markers and lines that are actually drawn.
func defaultCaption(o *config.Options) string {
	var b strings.Builder
	b.WriteString("Blue crosses: background triggers.")
	if o.HasInjections() {
		b.WriteString(" Red crosses: injections triggers.")
	}
	fmt.Fprintf(&b, " Black line: new SNR = %g veto line.", o.NewSNRThreshold)
	b.WriteString(" Gray lines: constant new SNR contours, dashed at non-integer values.")
	return b.String()
}

func titleAndCaption(o *config.Options) (title, caption string) {
	title, caption = o.PlotTitle, o.PlotCaption
	if title == "" {
		title = defaultTitle(o)
	}
	if caption == "" {
		caption = defaultCaption(o)
	}
	return title, caption
}
