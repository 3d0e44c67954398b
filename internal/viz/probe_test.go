package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/grinprobe/internal/grin"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, p Probe, keys ...string) Probe {
	t.Helper()
	for _, k := range keys {
		next, _ := p.Update(key(k))
		p = next.(Probe)
	}
	return p
}

func newTestProbe() Probe {
	opts := DefaultOptions()
	opts.Start = grin.Vec3{X: 3, Y: 4}
	opts.Step = 1
	return NewProbe(grin.NewLuneberg(1.5, 1, 5), opts)
}

func TestProbeInitialSample(t *testing.T) {
	p := newTestProbe()
	if p.Sample().Index != 1.5 {
		t.Errorf("expected peak index at r=5, got %g", p.Sample().Index)
	}
	if p.Selected() != "base" {
		t.Errorf("expected first param base, got %s", p.Selected())
	}
}

func TestProbeMove(t *testing.T) {
	p := press(t, newTestProbe(), "right", "up", "up", "left", "left")
	want := grin.Vec3{X: 2, Y: 6}
	if p.Position() != want {
		t.Errorf("expected %+v, got %+v", want, p.Position())
	}
	if p.Sample().Pos != want {
		t.Error("sample was not refreshed after move")
	}
}

func TestProbeParamSelectionWraps(t *testing.T) {
	p := newTestProbe()
	p = press(t, p, "[")
	if p.Selected() != "c2" {
		t.Errorf("expected wrap to c2, got %s", p.Selected())
	}
	p = press(t, p, "]", "]")
	if p.Selected() != "c1" {
		t.Errorf("expected c1, got %s", p.Selected())
	}
}

func TestProbeAdjustAndReset(t *testing.T) {
	p := press(t, newTestProbe(), "]", "]", "+", "+", "-", "+")
	if got := p.Params()["c2"]; got != 5.2 {
		t.Errorf("expected c2=5.2, got %g", got)
	}
	if p.Sample().Index >= 1.5 {
		t.Error("moving the reference radius should lower the index at r=5")
	}

	p = press(t, p, "right", "r")
	if got := p.Params()["c2"]; got != 5 {
		t.Errorf("reset should restore c2=5, got %g", got)
	}
	if p.Position() != (grin.Vec3{X: 3, Y: 4}) {
		t.Errorf("reset should restore position, got %+v", p.Position())
	}
	if p.Sample().Index != 1.5 {
		t.Error("reset should restore the sample")
	}
}

func TestProbeQuit(t *testing.T) {
	_, cmd := newTestProbe().Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestProbeThemeCycle(t *testing.T) {
	p := press(t, newTestProbe(), "t")
	if p.ThemeName() != "cyberpunk" {
		t.Errorf("expected cyberpunk after ocean, got %s", p.ThemeName())
	}
}

func TestProbeView(t *testing.T) {
	view := newTestProbe().View()
	for _, want := range []string{"index", "1.500000", "luneberg", "ok", "n(r)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFieldMapMarksRing(t *testing.T) {
	p := newTestProbe()
	c := p.fieldMap()
	w, h := c.Dots()

	// the axis sits well inside the low-index core for c2=5
	if c.IsSet(w/2, h/2) {
		t.Error("expected the axis to be unmarked")
	}
	marked := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				marked++
			}
		}
	}
	if marked == 0 {
		t.Error("expected the high-index ring to be drawn")
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if !c.IsSet(0, 0) || !c.IsSet(3, 3) || c.IsSet(1, 0) {
		t.Error("unexpected dot state")
	}
	if got := c.String(); got != "⠁⢀" {
		t.Errorf("unexpected render %q", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}, 2); got != "▁█" {
		t.Errorf("got %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("got %q", got)
	}
}
