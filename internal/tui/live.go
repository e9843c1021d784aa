// Package tui renders a scene live in the terminal.
//
// The bubbletea frame loop acts as the display-refresh signal: every tick
// message fires the frame clock's manual driver, whose listener advances
// the integrator by the corrected delta and records what the panel shows.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/devfmo/physkit/internal/frameclock"
	"github.com/devfmo/physkit/internal/scene"
	"github.com/devfmo/physkit/internal/stats"
	"github.com/devfmo/physkit/internal/vec"
	"github.com/devfmo/physkit/internal/viz"
)

const (
	canvasWidth  = 72
	canvasHeight = 22
	trailLen     = 90
	energyLen    = 60
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).Padding(0, 2)
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the live-view bubbletea model.
type Model struct {
	spec  *scene.Scene
	world *scene.World

	sched  *frameclock.Scheduler
	driver *frameclock.ManualDriver
	handle *frameclock.Handle

	canvas *viz.Canvas
	trails [][]vec.Vec2
	energy *stats.Rolling

	frame  frameclock.Frame
	paused bool
	speed  float64

	err error
}

// NewModel builds the live view for a scene.
func NewModel(s *scene.Scene) (*Model, error) {
	m := &Model{
		spec:   s,
		canvas: viz.NewCanvas(canvasWidth, canvasHeight),
		energy: stats.NewRolling(energyLen),
		speed:  s.TimeScale,
	}
	if m.speed == 0 {
		m.speed = 1
	}
	if err := m.rebuild(); err != nil {
		return nil, err
	}
	return m, nil
}

// rebuild constructs a fresh world and frame clock for the scene.
func (m *Model) rebuild() error {
	world, err := m.spec.Build()
	if err != nil {
		return err
	}
	m.world = world
	m.trails = make([][]vec.Vec2, len(world.Bodies))
	m.energy.Reset()

	if m.sched != nil {
		m.sched.Stop()
	}
	m.driver = frameclock.NewManualDriver()
	m.sched = frameclock.New(frameclock.NewSystemClock(), m.driver)
	m.handle, err = m.sched.Register(m.onFrame, frameclock.Config{
		FPS:       m.spec.FPS,
		TimeScale: m.speed,
	})
	if err != nil {
		return err
	}
	m.sched.Start()
	return nil
}

// onFrame is the frame-clock listener: one corrected delta per UI tick.
func (m *Model) onFrame(f frameclock.Frame) {
	m.frame = f
	m.world.Integrator.Step(f.Delta)
	m.energy.Push(m.world.Integrator.KineticEnergy())

	for i, b := range m.world.Bodies {
		m.trails[i] = append(m.trails[i], b.Pos)
		if len(m.trails[i]) > trailLen {
			m.trails[i] = m.trails[i][1:]
		}
	}
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.sched.Stop()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if m.paused {
				m.handle.SetTimeScale(0)
			} else {
				m.handle.SetTimeScale(m.speed)
			}
		case "+", "=":
			m.speed *= 2
			if !m.paused {
				m.handle.SetTimeScale(m.speed)
			}
		case "-", "_":
			m.speed /= 2
			if !m.paused {
				m.handle.SetTimeScale(m.speed)
			}
		case "r":
			m.paused = false
			if err := m.rebuild(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, nil

	case tickMsg:
		m.driver.Tick()
		return m, tick()
	}
	return m, nil
}

func (m *Model) View() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n"
	}

	m.canvas.Clear()
	vp := viz.FitBodies(m.world.Bodies, 10)
	for _, trail := range m.trails {
		viz.PlotTrail(m.canvas, vp, trail)
	}
	viz.PlotBodies(m.canvas, vp, m.world.Bodies)

	var panel strings.Builder
	panel.WriteString(headerStyle.Render(m.spec.Name) + "\n")
	row := func(label, value string) {
		panel.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	it := m.world.Integrator
	row("time", fmt.Sprintf("%.2fs", it.Time()/1000))
	row("kinetic", fmt.Sprintf("%.4g", it.KineticEnergy()))
	row("fps", fmt.Sprintf("%.0f", m.frame.FPS))
	row("speed", fmt.Sprintf("%gx", m.speed))
	row("dropped", fmt.Sprintf("%.0fms", it.DroppedTime()))
	if m.paused {
		panel.WriteString(pausedStyle.Render("paused") + "\n")
	}

	if m.energy.Len() >= 2 {
		graph := asciigraph.Plot(m.energy.Values(),
			asciigraph.Height(5), asciigraph.Width(34), asciigraph.Caption("kinetic energy"))
		panel.WriteString(graphStyle.Render(graph))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.canvas.String(),
		panelStyle.Render(panel.String()),
	)
	return body + helpStyle.Render("space pause · +/- speed · r reset · q quit") + "\n"
}

// Run launches the live view for a scene and blocks until exit.
func Run(s *scene.Scene) error {
	m, err := NewModel(s)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	m.sched.Stop()
	if err == nil {
		err = m.err
	}
	return err
}
