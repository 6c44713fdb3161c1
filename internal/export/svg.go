// Package export renders recorded simulation data to SVG, one vector
// scene per snapshot and one polyline per metric series. The output is
// meant for docs and reports; the live frontends render directly.
package export

import (
	"fmt"
	"strings"

	"github.com/konacodes/fluidsim/internal/fluid"
)

// SnapshotSVG draws a particle snapshot as filled circles on a dark
// background. Color follows speed from deep blue to cyan; splash
// particles render white. The stored alpha carries through as fill
// opacity so fading splashes look the same as they did live.
func SnapshotSVG(view []fluid.View, width, height float64) string {
	var maxSpeed float64
	for _, v := range view {
		if v.Speed > maxSpeed {
			maxSpeed = v.Speed
		}
	}
	if maxSpeed == 0 {
		maxSpeed = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#080c14"/>
`, width, height, width, height))

	for _, v := range view {
		var color string
		if v.Splash {
			color = "#e8f4ff"
		} else {
			t := v.Speed / maxSpeed
			color = fmt.Sprintf("#%02x%02x%02x",
				uint8(40+120*t), uint8(100+110*t), uint8(200+55*t))
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f"/>
`, v.Pos.X, v.Pos.Y, v.Size, color, v.Color.A))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesSVG draws a metric series against time as a single stroked
// path, with a tenth of the data range as padding on every side.
// Returns the empty string when there are too few points to connect.
func SeriesSVG(times, values []float64, width, height int, strokeColor string) string {
	if len(times) < 2 || len(times) != len(values) {
		return ""
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#080c14"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range times {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
