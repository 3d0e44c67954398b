package export

import (
	"strings"
	"testing"

	"github.com/san-kum/grinprobe/internal/analysis"
	"github.com/san-kum/grinprobe/internal/grin"
)

func TestGridToSVG(t *testing.T) {
	rows := [][]grin.Sample{
		{{Index: 1.0}, {Index: 1.5}},
		{{Index: 1.2}, {Code: grin.DomainError}},
	}

	svg := GridToSVG(rows, 10)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if got := strings.Count(svg, "<rect "); got != 5 {
		t.Errorf("expected background + 4 cells, got %d rects", got)
	}
	if !strings.Contains(svg, errorColor) {
		t.Error("failed sample not highlighted")
	}
	if !strings.Contains(svg, ramp(1)) || !strings.Contains(svg, ramp(0)) {
		t.Error("expected both ends of the color ramp")
	}
}

func TestGridToSVGEmpty(t *testing.T) {
	if GridToSVG(nil, 4) != "" {
		t.Error("expected empty output for empty grid")
	}
}

func TestProfileToSVG(t *testing.T) {
	points, err := analysis.RadialProfile(grin.NewLuneberg(1.5, 1, 2), 0, 4, 20)
	if err != nil {
		t.Fatal(err)
	}

	svg := ProfileToSVG(points, 400, 200, "#00ffcc")
	if !strings.Contains(svg, `stroke="#00ffcc"`) {
		t.Error("stroke color missing")
	}
	if got := strings.Count(svg, " L"); got != 19 {
		t.Errorf("expected 19 line segments, got %d", got)
	}

	if ProfileToSVG(points[:1], 400, 200, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
}

func TestRamp(t *testing.T) {
	if ramp(0) != "#0a143c" {
		t.Errorf("unexpected low color %s", ramp(0))
	}
	if ramp(1) != "#00ffdc" {
		t.Errorf("unexpected high color %s", ramp(1))
	}
	if ramp(-3) != ramp(0) || ramp(7) != ramp(1) {
		t.Error("ramp should clamp")
	}
}
