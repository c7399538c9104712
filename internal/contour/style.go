package contour

import (
	"image/color"
	"math"
)

// StyleKind classifies a contour for rendering.
type StyleKind int

const (
	// Operating marks the configured new SNR threshold.
	Operating StyleKind = iota
	// Integer marks whole-number thresholds.
	Integer
	// Fractional marks the remaining thresholds.
	Fractional
)

func (k StyleKind) String() string {
	switch k {
	case Operating:
		return "operating"
	case Integer:
		return "integer"
	default:
		return "fractional"
	}
}

// Style is how one contour line is drawn. Width is in points.
type Style struct {
	Kind   StyleKind
	Color  color.RGBA
	Width  float64
	Dashed bool
}

var (
	operatingStyle  = Style{Kind: Operating, Color: color.RGBA{A: 255}, Width: 2}
	integerStyle    = Style{Kind: Integer, Color: color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 255}, Width: 1}
	fractionalStyle = Style{Kind: Fractional, Color: color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 255}, Width: 1, Dashed: true}
)

// Styles assigns a style to each threshold.
func Styles(thresholds []float64, operating float64) []Style {
	styles := make([]Style, len(thresholds))
	for i, t := range thresholds {
		switch {
		case t == operating:
			styles[i] = operatingStyle
		case t == math.Trunc(t):
			styles[i] = integerStyle
		default:
			styles[i] = fractionalStyle
		}
	}
	return styles
}
