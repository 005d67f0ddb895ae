package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/render"
	"github.com/san-kum/softbody/internal/sim"
	"github.com/san-kum/softbody/internal/viz"
)

const (
	// FrameInterval is the period of the external tick that drives the body.
	FrameInterval   = 20 * time.Millisecond
	historyCapacity = 300
	canvasWidth     = 60
	canvasHeight    = 22
	orbitStep       = 0.1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live view: every tick it asks the scheduler for one frame
// increment of simulated time and redraws the body.
type Model struct {
	sim        *sim.Simulator
	name       string
	increment  float64
	canvas     *viz.Canvas
	camera     *viz.Camera
	theme      int
	styles     viz.Styles
	running    bool
	ground     bool
	showHelp   bool
	heights    []float64
	energies   []float64
	throughput float64
	err        error
}

// NewModel builds a live view over s, advancing increment seconds per frame.
func NewModel(s *sim.Simulator, name string, increment float64) Model {
	// keep the floor in view as the body drops
	lo, hi := render.Bounds(s.Body())
	lo[1] = math.Min(lo[1], 0)
	cam := viz.NewCamera()
	cam.Frame(lo, hi)

	return Model{
		sim:       s,
		name:      name,
		increment: increment,
		canvas:    viz.NewCanvas(canvasWidth, canvasHeight),
		camera:    cam,
		styles:    viz.NewStyles(viz.Themes[0]),
		running:   true,
		ground:    true,
		heights:   make([]float64, 0, historyCapacity),
		energies:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "n":
			if !m.running {
				m.step()
			}
		case "left", "h":
			m.camera.Orbit(-orbitStep, 0)
		case "right", "l":
			m.camera.Orbit(orbitStep, 0)
		case "up", "k":
			m.camera.Orbit(0, orbitStep)
		case "down", "j":
			m.camera.Orbit(0, -orbitStep)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "g":
			m.ground = !m.ground
		case "t":
			m.theme = (m.theme + 1) % len(viz.Themes)
			m.styles = viz.NewStyles(viz.Themes[m.theme])
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step makes one scheduler call and records the traces.
func (m *Model) step() {
	stats, err := m.sim.Call(m.increment)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.throughput = stats.Throughput

	body := m.sim.Body()
	m.heights = appendCapped(m.heights, metrics.MinHeight(body))
	m.energies = appendCapped(m.energies, metrics.KineticEnergy(body))
}

func (m *Model) reset() {
	m.sim.Reset()
	m.heights = m.heights[:0]
	m.energies = m.energies[:0]
	m.throughput = 0
	m.err = nil
	m.running = true
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m Model) View() string {
	st := m.styles
	body := m.sim.Body()

	viz.DrawBody(m.canvas, m.camera, body, m.ground)
	canvasView := st.Canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(m.name)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(st.Failed.Render("FAILED") + "\n")
		s.WriteString(st.Value.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(st.Running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.Paused.Render("PAUSED") + "\n\n")
	}

	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("lowest point (m)"))
		s.WriteString(st.Graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.5fs", m.sim.Time()))
	row("Frames", fmt.Sprintf("%d", m.sim.Calls()))
	row("Points", fmt.Sprintf("%d", body.NumPoints()))
	row("Springs", fmt.Sprintf("%d", body.NumSprings()))
	row("Lowest", fmt.Sprintf("%.6fm", metrics.MinHeight(body)))
	row("Max speed", fmt.Sprintf("%.3e", metrics.MaxSpeed(body)))
	row("Springs/s", fmt.Sprintf("%.3g", m.throughput))
	s.WriteString(st.Label.Render("Kinetic") + st.Sparkline(m.energies, 24) + "\n")

	s.WriteString(st.Help.Render("SP:Pause N:Step R:Reset Q:Quit\n←→↑↓:Orbit +/-:Zoom G:Ground T:Theme"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.Panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
  Space     pause / resume
  N         single frame while paused
  R         reset body and clock
  ←→ / h l  orbit around the body
  ↑↓ / k j  tilt the camera
  + -       zoom
  G         toggle the ground grid
  T         cycle themes
  Q         quit`

// Run starts the live view on the terminal and blocks until the user quits.
func Run(s *sim.Simulator, name string, increment float64) error {
	p := tea.NewProgram(NewModel(s, name, increment), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
