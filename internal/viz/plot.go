package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
)

// EFHChart plots the equivalent fall height along the landing surface with
// the design target as a flat reference line. Samples past the first NaN
// (speed ceiling) are left out.
func EFHChart(x, efh []float64, target float64, w, h int) string {
	n := len(efh)
	for i, v := range efh {
		if math.IsNaN(v) {
			n = i
			break
		}
	}
	if n < 2 {
		return "no equivalent fall height samples\n"
	}

	ref := make([]float64, n)
	for i := range ref {
		ref[i] = target
	}

	caption := fmt.Sprintf("EFH [m] over x = %.1f .. %.1f m", x[0], x[n-1])
	return asciigraph.PlotMany([][]float64{efh[:n], ref},
		asciigraph.Height(h),
		asciigraph.Width(w),
		asciigraph.LowerBound(0),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Red),
		asciigraph.SeriesLegends("efh", "target"),
		asciigraph.Caption(caption)) + "\n"
}

// SeriesChart plots one sampled quantity, e.g. flight speed over time.
func SeriesChart(values []float64, caption string, w, h int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(h),
		asciigraph.Width(w),
		asciigraph.Precision(2),
		asciigraph.Caption(caption)) + "\n"
}
