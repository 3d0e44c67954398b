package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	ok       lipgloss.Style
	fail     lipgloss.Style
	key      lipgloss.Style
	graph    lipgloss.Style
	panel    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:    lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		selected: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(t.Muted),
		ok:       lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		fail:     lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		key:      lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		graph:    lipgloss.NewStyle().Foreground(t.Primary),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

// GradientText colors each rune of text on a linear ramp between two colors.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b)))
		result.WriteString(style.Render(string(c)))
	}
	return result.String()
}

// Bar renders a fill bar for a fraction in [0, 1].
func Bar(frac float64, width int, fill lipgloss.Style) string {
	filled := int(frac * float64(width))
	filled = max(0, min(width, filled))
	return fill.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

// Sparkline renders values as block characters, downsampled to width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := max(len(values)/width, 1)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		idx := max(0, min(len(chars)-1, int(norm*float64(len(chars)-1))))
		b.WriteRune(chars[idx])
	}
	return b.String()
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	clamp := func(v int) int { return max(0, min(255, v)) }
	return "#" + hexByte(clamp(r)) + hexByte(clamp(g)) + hexByte(clamp(b))
}

func hexByte(v int) string {
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
