package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/grinprobe/internal/analysis"
	"github.com/san-kum/grinprobe/internal/grin"
)

// Heat map endpoints: low index is dark blue, high index is bright cyan.
var (
	lowColor  = [3]float64{10, 20, 60}
	highColor = [3]float64{0, 255, 220}
)

const errorColor = "#ff3344"

// GridToSVG renders a grid slice as a heat map of the index, one square of
// side cell per sample. Row 0 is drawn at the bottom. Samples with a
// nonzero code are drawn in red.
func GridToSVG(rows [][]grin.Sample, cell float64) string {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ""
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		for _, s := range row {
			if s.Code != grin.OK {
				continue
			}
			lo = math.Min(lo, s.Index)
			hi = math.Max(hi, s.Index)
		}
	}
	span := hi - lo
	if !(span > 0) {
		span = 1
	}

	nRows, nCols := len(rows), len(rows[0])
	width := float64(nCols) * cell
	height := float64(nRows) * cell

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for r, row := range rows {
		y := height - float64(r+1)*cell
		for c, s := range row {
			fill := errorColor
			if s.Code == grin.OK {
				fill = ramp((s.Index - lo) / span)
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(c)*cell, y, cell, cell, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ProfileToSVG draws n(r) from a radial profile as a polyline.
func ProfileToSVG(points []analysis.ProfilePoint, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].R, points[0].R
	minY, maxY := points[0].Index, points[0].Index
	for _, p := range points {
		minX = math.Min(minX, p.R)
		maxX = math.Max(maxX, p.R)
		minY = math.Min(minY, p.Index)
		maxY = math.Max(maxY, p.Index)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.R - minX) / rangeX * float64(width)
		y := float64(height) - (p.Index-minY)/rangeY*float64(height)

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

func ramp(f float64) string {
	f = math.Max(0, math.Min(1, f))
	var c [3]int
	for i := range c {
		c[i] = int(math.Round(lowColor[i] + f*(highColor[i]-lowColor[i])))
	}
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
