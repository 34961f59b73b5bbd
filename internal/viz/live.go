package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gyroint/internal/integrators"
	"github.com/san-kum/gyroint/internal/signals"
	"github.com/san-kum/gyroint/internal/sim"
)

const (
	historyCapacity  = 400
	frameInterval    = time.Second / 30
	maxTicksPerFrame = 1000
)

type FrameMsg time.Time

// Model steps an integrator a few ticks per frame. Frame pacing is the
// viewer's business; the integrator only sees Step calls.
type Model struct {
	stepper       sim.Stepper
	source        signals.Stream
	scenario      string
	dt            float64
	tick          int
	ticksPerFrame int
	running       bool
	lastSample    float64
	lastOutput    float64
	samples       []float64
	outputs       []float64
}

func NewModel(stepper sim.Stepper, source signals.Stream, scenario string, dt float64, ticksPerFrame int) Model {
	if ticksPerFrame < 1 {
		ticksPerFrame = 1
	}
	stepper.Initialize()
	return Model{
		stepper:       stepper,
		source:        source,
		scenario:      scenario,
		dt:            dt,
		ticksPerFrame: ticksPerFrame,
		running:       true,
		samples:       make([]float64, 0, historyCapacity),
		outputs:       make([]float64, 0, historyCapacity),
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return FrameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return frame()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stepper.Terminate()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.ticksPerFrame = min(m.ticksPerFrame*2, maxTicksPerFrame)
		case "-", "_":
			m.ticksPerFrame = max(m.ticksPerFrame/2, 1)
		}
	case FrameMsg:
		if m.running {
			for i := 0; i < m.ticksPerFrame; i++ {
				m.step()
			}
		}
		return m, frame()
	}
	return m, nil
}

func (m *Model) step() {
	sample := m.source()
	out := m.stepper.Step(integrators.Sample{Value: sample}).Value
	m.lastSample, m.lastOutput = sample, out
	m.tick++

	m.samples = appendBounded(m.samples, sample)
	m.outputs = appendBounded(m.outputs, out)
}

// reset re-initializes the integrator; the input stream keeps its position.
func (m *Model) reset() {
	m.stepper.Initialize()
	m.lastOutput = 0
	m.outputs = m.outputs[:0]
	m.samples = m.samples[:0]
}

func appendBounded(buf []float64, v float64) []float64 {
	if len(buf) == historyCapacity {
		copy(buf, buf[1:])
		buf = buf[:len(buf)-1]
	}
	return append(buf, v)
}

func (m Model) Tick() int           { return m.tick }
func (m Model) Running() bool       { return m.running }
func (m Model) LastOutput() float64 { return m.lastOutput }
func (m Model) TicksPerFrame() int  { return m.ticksPerFrame }

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.scenario)) + "\n")

	status := StatusRunning.Render("RUNNING")
	switch {
	case math.IsNaN(m.lastOutput) || math.IsInf(m.lastOutput, 0):
		status = StatusFault.Render("NON-FINITE (press r)")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	s.WriteString(Field("Tick", fmt.Sprintf("%d", m.tick)) + "\n")
	s.WriteString(Field("Time", fmt.Sprintf("%.2fs", float64(m.tick)*m.dt)) + "\n")
	s.WriteString(Field("Rate", fmt.Sprintf("%.4f", m.lastSample)) + "\n")
	s.WriteString(Field("Angle", fmt.Sprintf("%.4f", m.lastOutput)) + "\n")
	s.WriteString(Field("Ticks/frame", fmt.Sprintf("%d", m.ticksPerFrame)) + "\n")

	graphs := ""
	if len(m.outputs) > 1 {
		rate := GraphStyle.Render(Plot(m.samples, "rate", 6, 50))
		angle := GraphStyle.Render(Plot(m.outputs, "angle", 6, 50))
		graphs = lipgloss.JoinVertical(lipgloss.Left, rate, angle)
	}

	s.WriteString(HelpStyle.Render("SP:Pause R:Reset +/-:Speed Q:Quit"))
	return lipgloss.JoinHorizontal(lipgloss.Top, PanelStyle.Render(s.String()), graphs)
}
