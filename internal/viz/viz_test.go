package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gyroint/internal/integrators"
	"github.com/san-kum/gyroint/internal/signals"
)

func TestPlot(t *testing.T) {
	out := Plot([]float64{0, 1, 2, 3}, "angle", 5, 20)
	if !strings.Contains(out, "angle") {
		t.Errorf("caption missing from plot:\n%s", out)
	}
}

func TestPlot_NonFinite(t *testing.T) {
	out := Plot([]float64{0, 1, math.NaN(), 3}, "angle", 5, 20)
	if !strings.Contains(out, "non-finite from tick 2") {
		t.Errorf("expected non-finite note, got:\n%s", out)
	}

	out = Plot([]float64{math.Inf(1)}, "angle", 5, 20)
	if !strings.Contains(out, "no finite data") {
		t.Errorf("expected empty note, got:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	out := Summary("run", [][2]string{{"scenario", "steady"}}, map[string]float64{"peak": 1.5, "mean": 0.5})
	for _, want := range []string{"run", "scenario", "steady", "peak", "mean"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "mean") > strings.Index(out, "peak") {
		t.Error("metrics should be sorted by name")
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_StepsPerFrame(t *testing.T) {
	m := NewModel(integrators.NewGyroX(), signals.Constant(1), "steady", 0.01, 4)

	m = update(m, FrameMsg{})
	if m.Tick() != 4 {
		t.Fatalf("tick = %d, want 4", m.Tick())
	}
	if math.Abs(m.LastOutput()-0.03) > 1e-12 {
		t.Errorf("last output = %v, want 0.03", m.LastOutput())
	}
	if !strings.Contains(m.View(), "STEADY") {
		t.Error("view should show the scenario name")
	}
}

func TestModel_PauseResetSpeed(t *testing.T) {
	integ := integrators.NewGyroX()
	m := NewModel(integ, signals.Constant(1), "steady", 0.01, 2)

	m = update(m, FrameMsg{})
	m = update(m, key(" "))
	if m.Running() {
		t.Fatal("space should pause")
	}
	m = update(m, FrameMsg{})
	if m.Tick() != 2 {
		t.Errorf("paused model advanced to tick %d", m.Tick())
	}

	m = update(m, key("r"))
	if integ.Value() != 0 || m.LastOutput() != 0 {
		t.Errorf("reset should initialize the integrator, value %v", integ.Value())
	}

	m = update(m, key("+"))
	if m.TicksPerFrame() != 4 {
		t.Errorf("ticks per frame = %d, want 4", m.TicksPerFrame())
	}
	m = update(m, key("-"))
	m = update(m, key("-"))
	m = update(m, key("-"))
	if m.TicksPerFrame() != 1 {
		t.Errorf("ticks per frame = %d, want 1", m.TicksPerFrame())
	}
}

func TestModel_ShowsFault(t *testing.T) {
	m := NewModel(integrators.NewGyroX(), signals.Constant(1).NaNAt(0), "nan-fault", 0.01, 3)
	m = update(m, FrameMsg{})
	if !strings.Contains(m.View(), "NON-FINITE") {
		t.Errorf("expected fault status in view:\n%s", m.View())
	}
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(integrators.NewGyroX(), signals.Constant(1), "steady", 0.01, 1)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
