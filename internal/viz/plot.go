package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/forcefield/internal/axis"
	"github.com/san-kum/forcefield/internal/curve"
)

// Plots renders the energy and force charts of s, each width by height
// cells, on the series' fixed axes.
func Plots(s *curve.Series, width, height int) (energy, force string) {
	if s == nil || s.Len() < 2 {
		return "", ""
	}
	ds := s.Downsample(width)
	energies, forces := ds.Clip()
	energy = Chart(energies, s.Axes.Energy, width, height, s.Labels.Energy)
	force = Chart(forces, s.Axes.Force, width, height, s.Labels.Force)
	return energy, force
}

// Chart plots values inside the window of sc. Values far from unity are
// rescaled by a power of ten, which is named in the caption.
func Chart(values []float64, sc axis.Scale, width, height int, caption string) string {
	if len(values) < 2 {
		return ""
	}
	exp := decade(sc)
	f := math.Pow(10, -float64(exp))
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v * f
	}
	if exp != 0 {
		caption = fmt.Sprintf("%s ×1e%d", caption, exp)
	}
	return asciigraph.Plot(scaled,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.LowerBound(sc.Min*f),
		asciigraph.UpperBound(sc.Max*f),
		asciigraph.Precision(1),
		asciigraph.Caption(caption),
	)
}

// decade returns the power of ten of the larger axis bound, or zero when
// the bound prints fine as it is.
func decade(sc axis.Scale) int {
	m := math.Max(math.Abs(sc.Min), math.Abs(sc.Max))
	if m == 0 || math.IsInf(m, 0) || math.IsNaN(m) {
		return 0
	}
	// nudge exact powers of ten past rounding in Log10
	e := int(math.Floor(math.Log10(m) + 1e-9))
	if e >= -1 && e <= 4 {
		return 0
	}
	return e
}
