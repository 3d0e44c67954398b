package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/grinprobe/internal/analysis"
	"github.com/san-kum/grinprobe/internal/grin"
)

// ProbeMedium is a medium whose parameters the probe can adjust.
type ProbeMedium interface {
	grin.Medium
	grin.Configurable
}

type Options struct {
	Start     grin.Vec3
	Step      float64 // probe move per key press
	ParamStep float64 // parameter change per key press
	HalfWidth float64 // extent of the map and profile
	Theme     string
}

func DefaultOptions() Options {
	return Options{Step: 0.25, ParamStep: 0.1, HalfWidth: 8, Theme: "ocean"}
}

const (
	mapCols      = 32
	mapRows      = 12
	profilePts   = 64
	profileWidth = 48
)

type Probe struct {
	medium  ProbeMedium
	opts    Options
	initial map[string]float64
	names   []string
	cursor  int
	pos     grin.Vec3
	theme   Theme

	sample  grin.Sample
	err     error
	profile []analysis.ProfilePoint
	width   int
}

func NewProbe(m ProbeMedium, opts Options) Probe {
	def := DefaultOptions()
	if opts.Step <= 0 {
		opts.Step = def.Step
	}
	if opts.ParamStep <= 0 {
		opts.ParamStep = def.ParamStep
	}
	if opts.HalfWidth <= 0 {
		opts.HalfWidth = def.HalfWidth
	}

	initial := m.Params()
	names := make([]string, 0, len(initial))
	for name := range initial {
		names = append(names, name)
	}
	sort.Strings(names)

	p := Probe{
		medium:  m,
		opts:    opts,
		initial: initial,
		names:   names,
		pos:     opts.Start,
		theme:   GetTheme(opts.Theme),
		width:   80,
	}
	p.refresh()
	return p
}

func (p Probe) Init() tea.Cmd { return nil }

func (p Probe) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.WindowSizeMsg:
		p.width = msg.Width
	}
	return p, nil
}

func (p Probe) handleKey(msg tea.KeyMsg) (Probe, tea.Cmd) {
	step := p.opts.Step
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "left", "h":
		p.pos.X -= step
	case "right", "l":
		p.pos.X += step
	case "up", "k":
		p.pos.Y += step
	case "down", "j":
		p.pos.Y -= step
	case "pgup":
		p.pos.Z += step
	case "pgdown":
		p.pos.Z -= step
	case "[":
		if len(p.names) > 0 {
			p.cursor = (p.cursor + len(p.names) - 1) % len(p.names)
		}
		return p, nil
	case "]":
		if len(p.names) > 0 {
			p.cursor = (p.cursor + 1) % len(p.names)
		}
		return p, nil
	case "+", "=":
		p.adjust(p.opts.ParamStep)
	case "-", "_":
		p.adjust(-p.opts.ParamStep)
	case "t":
		p.theme = NextTheme(p.theme.Name)
		return p, nil
	case "r":
		p.pos = p.opts.Start
		p.cursor = 0
		for _, name := range p.names {
			_ = p.medium.SetParam(name, p.initial[name])
		}
	default:
		return p, nil
	}
	p.refresh()
	return p, nil
}

func (p *Probe) adjust(delta float64) {
	if len(p.names) == 0 {
		return
	}
	name := p.names[p.cursor]
	v := p.medium.Params()[name] + delta
	// keep keyboard arithmetic from drifting off round values
	v = math.Round(v*1e9) / 1e9
	if err := p.medium.SetParam(name, v); err != nil {
		p.err = err
	}
}

func (p *Probe) refresh() {
	p.sample, p.err = p.medium.At(p.pos)
	p.profile, _ = analysis.RadialProfile(p.medium, p.pos.Z, p.opts.HalfWidth, profilePts)
}

// Position and Sample expose the probe state for callers and tests.
func (p Probe) Position() grin.Vec3        { return p.pos }
func (p Probe) Sample() grin.Sample        { return p.sample }
func (p Probe) Selected() string           { return p.names[p.cursor] }
func (p Probe) ThemeName() string          { return p.theme.Name }
func (p Probe) Params() map[string]float64 { return p.medium.Params() }

func (p Probe) View() string {
	st := newStyles(p.theme)
	var b strings.Builder

	b.WriteString("\n  " + GradientText("GRINPROBE", p.theme.Low, p.theme.High))
	b.WriteString("  " + st.muted.Render(p.medium.Name()) + "\n\n")

	b.WriteString(p.viewReadout(st))
	b.WriteString("\n")
	b.WriteString(p.viewParams(st))
	b.WriteString("\n")

	b.WriteString(st.panel.Render(p.fieldMap().String()) + "\n")
	if len(p.profile) > 0 {
		chart := asciigraph.Plot(analysis.Indices(p.profile),
			asciigraph.Height(6),
			asciigraph.Width(profileWidth),
			asciigraph.Caption(fmt.Sprintf("n(r) at z=%.2f, r in [0, %g]", p.pos.Z, p.opts.HalfWidth)))
		b.WriteString(st.graph.Render(chart) + "\n")
		b.WriteString("  " + st.label.Render("|n∇n|") + Sparkline(absAll(analysis.Radials(p.profile)), profileWidth) + "\n")
	}

	b.WriteString("\n  " + hint(st, "arrows", "move") + hint(st, "pgup/pgdn", "z") +
		hint(st, "[ ]", "param") + hint(st, "+ -", "adjust") + hint(st, "t", "theme") +
		hint(st, "r", "reset") + hint(st, "q", "quit") + "\n")
	return b.String()
}

func (p Probe) viewReadout(st styles) string {
	var b strings.Builder
	s := p.sample
	row := func(label, value string) {
		b.WriteString("  " + st.label.Render(label) + st.value.Render(value) + "\n")
	}

	row("position", fmt.Sprintf("(%.3f, %.3f, %.3f)  r=%.4f", p.pos.X, p.pos.Y, p.pos.Z, p.pos.Radial()))
	row("index", fmt.Sprintf("%.6f", s.Index))
	row("n∇n", fmt.Sprintf("(%.5g, %.5g, %.5g)", s.NGradN.X, s.NGradN.Y, s.NGradN.Z))

	status := st.ok.Render(s.Code.String())
	if p.err != nil {
		status = st.fail.Render(p.err.Error())
	}
	b.WriteString("  " + st.label.Render("code") + status + "\n")

	if base, ok := p.medium.Params()["base"]; ok && base > 0 {
		b.WriteString("  " + st.label.Render("n/base") + Bar(s.Index/base, 30, st.ok) + "\n")
	}
	return b.String()
}

func (p Probe) viewParams(st styles) string {
	params := p.medium.Params()
	var b strings.Builder
	for i, name := range p.names {
		line := fmt.Sprintf("%-6s %10.4f", name, params[name])
		if i == p.cursor {
			b.WriteString("  " + st.selected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("    " + st.muted.Render(line) + "\n")
		}
	}
	return b.String()
}

// fieldMap marks the transverse plane at the probe's z wherever the index is
// in the upper half of its range, then draws a cross at the probe.
func (p Probe) fieldMap() *Canvas {
	c := NewCanvas(mapCols, mapRows)
	w, h := c.Dots()
	hw := p.opts.HalfWidth

	toWorld := func(px, py int) grin.Vec3 {
		return grin.Vec3{
			X: -hw + (float64(px)+0.5)/float64(w)*2*hw,
			Y: hw - (float64(py)+0.5)/float64(h)*2*hw,
			Z: p.pos.Z,
		}
	}

	vals := make([]float64, w*h)
	lo, hi := math.Inf(1), math.Inf(-1)
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			s, err := p.medium.At(toWorld(px, py))
			v := math.NaN()
			if err == nil {
				v = s.Index
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
			vals[py*w+px] = v
		}
	}

	if hi > lo {
		mid := lo + 0.5*(hi-lo)
		for i, v := range vals {
			if v >= mid {
				c.Set(i%w, i/w)
			}
		}
	}

	cx := int((p.pos.X + hw) / (2 * hw) * float64(w))
	cy := int((hw - p.pos.Y) / (2 * hw) * float64(h))
	c.DrawLine(cx-2, cy, cx+2, cy)
	c.DrawLine(cx, cy-2, cx, cy+2)
	return c
}

func hint(st styles, key, desc string) string {
	return st.key.Render(key) + st.muted.Render(" "+desc+"  ")
}

func absAll(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Abs(x)
	}
	return out
}

// RunProbe starts the probe on the alternate screen and blocks until quit.
func RunProbe(m ProbeMedium, opts Options) error {
	_, err := tea.NewProgram(NewProbe(m, opts), tea.WithAltScreen()).Run()
	return err
}
