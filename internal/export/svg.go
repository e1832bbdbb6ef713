// Package export writes jump side views as SVG drawings.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/skijump/internal/viz"
)

var palette = []string{"#00ccff", "#ffcc00", "#00ff88", "#ff00ff", "#ffffff"}

const padding = 0.05

// SideView draws the series as SVG paths, width pixels wide, with one scale
// on both axes. Dotted series are dashed. Height follows from the aspect
// ratio of the drawing.
func SideView(series []viz.Series, width int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for i := range s.X {
			if math.IsNaN(s.X[i]) || math.IsNaN(s.Y[i]) {
				continue
			}
			minX, maxX = min(minX, s.X[i]), max(maxX, s.X[i])
			minY, maxY = min(minY, s.Y[i]), max(maxY, s.Y[i])
		}
	}
	if math.IsInf(minX, 0) {
		return ""
	}

	rangeX := max(maxX-minX, 1)
	rangeY := max(maxY-minY, 1e-3)
	minX -= rangeX * padding
	maxY += rangeY * padding
	rangeX *= 1 + 2*padding
	rangeY *= 1 + 2*padding

	scale := float64(width) / rangeX
	height := max(int(math.Round(rangeY*scale)), 1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for k, s := range series {
		d := pathData(s, func(x, y float64) (float64, float64) {
			return (x - minX) * scale, (maxY - y) * scale
		})
		if d == "" {
			continue
		}
		dash := ""
		if s.Dotted {
			dash = ` stroke-dasharray="4 3"`
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5"%s d="%s"/>
`, palette[k%len(palette)], dash, d)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// pathData starts a new subpath after every NaN gap.
func pathData(s viz.Series, project func(x, y float64) (float64, float64)) string {
	var sb strings.Builder
	move := true
	for i := range s.X {
		if math.IsNaN(s.X[i]) || math.IsNaN(s.Y[i]) {
			move = true
			continue
		}
		px, py := project(s.X[i], s.Y[i])
		cmd := "L"
		if move {
			cmd = "M"
			move = false
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, px, py)
	}
	return sb.String()
}
