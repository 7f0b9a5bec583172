package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// SweepPlot plots flame speed against equivalence ratio. phi is assumed
// evenly spaced and in plotting order.
func SweepPlot(phi, speed []float64, width, height int) string {
	if len(phi) == 0 || len(phi) != len(speed) {
		return ""
	}
	caption := fmt.Sprintf("S_L [m/s] for φ = %.2f … %.2f", phi[0], phi[len(phi)-1])
	return asciigraph.Plot(speed,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	)
}
