// Package tui renders the water in the terminal. The pointer follows
// the mouse, a press pushes the fluid away, and an energy chart runs
// under the canvas.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/konacodes/fluidsim/internal/config"
	"github.com/konacodes/fluidsim/internal/fluid"
	"github.com/konacodes/fluidsim/internal/metrics"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	blue   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	deep   = lipgloss.NewStyle().Foreground(lipgloss.Color("25"))
	foam   = lipgloss.NewStyle().Foreground(lipgloss.Color("195"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	headerRows  = 2
	footerRows  = 9
	historyCap  = 120
	minCanvasW  = 40
	minCanvasH  = 10
	framePeriod = 16 * time.Millisecond
)

type Model struct {
	cfg *config.Config
	sim *fluid.Simulator

	energy  *metrics.KineticEnergy
	history []float64

	paused    bool
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

func NewModel(cfg *config.Config) (*Model, error) {
	sim, err := cfg.NewSimulator()
	if err != nil {
		return nil, err
	}
	return &Model{
		cfg:     cfg,
		sim:     sim,
		energy:  metrics.NewKineticEnergy(),
		history: make([]float64, 0, historyCap),
		width:   80,
		height:  24,
	}, nil
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(framePeriod, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) canvasSize() (int, int) {
	cw := m.width - 4
	ch := m.height - headerRows - footerRows
	if cw < minCanvasW {
		cw = minCanvasW
	}
	if ch < minCanvasH {
		ch = minCanvasH
	}
	return cw, ch
}

// cellToWorld maps terminal cell coordinates onto the simulation
// rectangle. Cells are roughly twice as tall as wide, which the world
// mapping absorbs.
func (m *Model) cellToWorld(cx, cy int) fluid.Vec2 {
	cw, ch := m.canvasSize()
	w, h := m.sim.Bounds()
	return fluid.Vec2{
		X: (float64(cx) - 2 + 0.5) / float64(cw) * w,
		Y: (float64(cy) - headerRows + 0.5) / float64(ch) * h,
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		pos := m.cellToWorld(msg.X, msg.Y)
		switch msg.Action {
		case tea.MouseActionPress:
			m.sim.SetPointerPosition(pos)
			m.sim.SetPointerDown(true)
		case tea.MouseActionRelease:
			m.sim.SetPointerPosition(pos)
			m.sim.SetPointerDown(false)
		case tea.MouseActionMotion:
			m.sim.SetPointerPosition(pos)
		}
		return m, nil

	case tickMsg:
		if !m.paused {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now

			m.sim.Step()
			m.energy.Observe(m.sim.Time(), m.sim.Snapshot())
			m.history = append(m.history, m.energy.Last())
			if len(m.history) > historyCap {
				m.history = m.history[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
		m.lastFrame = time.Time{}
	case "r":
		sim, err := m.cfg.NewSimulator()
		if err == nil {
			m.sim = sim
			m.energy.Reset()
			m.history = m.history[:0]
		}
	case "s":
		w, h := m.sim.Bounds()
		m.sim.CreateSplash(fluid.Vec2{X: w / 2, Y: h / 3}, 0.8)
	case "c":
		w, h := m.sim.Bounds()
		m.sim.CreateRipple(fluid.Vec2{X: w / 2, Y: h / 2}, 1.0)
	}
	return m, nil
}

// speed ramp from still water to spray
var ramp = []rune{'·', '∘', 'o', 'O', '●'}

func (m *Model) View() string {
	cw, ch := m.canvasSize()
	w, h := m.sim.Bounds()

	canvas := make([][]rune, ch)
	for i := range canvas {
		canvas[i] = make([]rune, cw)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	splashMask := make([][]bool, ch)
	for i := range splashMask {
		splashMask[i] = make([]bool, cw)
	}

	maxSpeed := m.sim.P.MaxSpeed
	for _, v := range m.sim.Snapshot() {
		cx := int(v.Pos.X / w * float64(cw))
		cy := int(v.Pos.Y / h * float64(ch))
		if cx < 0 || cx >= cw || cy < 0 || cy >= ch {
			continue
		}
		if v.Splash {
			canvas[cy][cx] = '*'
			splashMask[cy][cx] = true
			continue
		}
		if splashMask[cy][cx] {
			continue
		}
		idx := int(v.Speed / maxSpeed * float64(len(ramp)))
		if idx >= len(ramp) {
			idx = len(ramp) - 1
		}
		canvas[cy][cx] = ramp[idx]
	}

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf(" %s %s  %s  %s\n\n",
		statusIcon, cyan.Render("fluidsim"), statusText,
		dim.Render(fmt.Sprintf("%d particles  %.0ffps", len(m.sim.Snapshot()), m.fps))))

	for cy, row := range canvas {
		b.WriteString("  ")
		for cx, c := range row {
			switch {
			case splashMask[cy][cx]:
				b.WriteString(foam.Render(string(c)))
			case c == '·':
				b.WriteString(deep.Render(string(c)))
			case c == ' ':
				b.WriteRune(' ')
			default:
				b.WriteString(blue.Render(string(c)))
			}
		}
		b.WriteString("\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(min(cw-10, 60)),
			asciigraph.Caption("kinetic energy"))
		for _, line := range strings.Split(chart, "\n") {
			b.WriteString("  " + dimmer.Render(line) + "\n")
		}
	}

	b.WriteString("\n" + dim.Render("  mouse stir  click push  s splash  c ripple  space pause  r reset  q quit") + "\n")

	return b.String()
}

// Run starts the program with mouse reporting enabled.
func Run(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}
