package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gyroint/internal/integrators"
)

func TestPeak(t *testing.T) {
	m := NewPeak()
	for _, v := range []float64{1, -3, math.NaN(), 2} {
		m.Observe(0, 0, v)
	}
	if m.Value() != 3 {
		t.Errorf("peak = %v, want 3", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero peak after reset")
	}
}

func TestMean(t *testing.T) {
	m := NewMean()
	if m.Value() != 0 {
		t.Error("empty mean should be zero")
	}
	for _, v := range []float64{1, 2, 3, 6} {
		m.Observe(0, 0, v)
	}
	if m.Value() != 3 {
		t.Errorf("mean = %v, want 3", m.Value())
	}
}

func TestNonFinite(t *testing.T) {
	m := NewNonFinite()
	for _, v := range []float64{0, math.NaN(), math.Inf(1), math.Inf(-1), 4} {
		m.Observe(0, 0, v)
	}
	if m.Value() != 3 {
		t.Errorf("non-finite count = %v, want 3", m.Value())
	}
}

func TestBounded(t *testing.T) {
	tests := []struct {
		name    string
		outputs []float64
		want    float64
	}{
		{"empty", nil, 1.0},
		{"all inside", []float64{0, 1, -1}, 1.0},
		{"half outside", []float64{0, 5, -5, 1}, 0.5},
		{"nan counts against", []float64{math.NaN(), 0}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBounded(1)
			for _, v := range tt.outputs {
				m.Observe(0, 0, v)
			}
			if m.Value() != tt.want {
				t.Errorf("bounded = %v, want %v", m.Value(), tt.want)
			}
		})
	}
}

func TestResidual_TracksIntegrator(t *testing.T) {
	integ := integrators.NewGyroX()
	m := NewResidual(integ.TimeStep())

	for k := 0; k < 100000; k++ {
		s := 1.0 + 0.1*math.Sin(float64(k))
		out := integ.Step(integrators.Sample{Value: s})
		m.Observe(k, s, out.Value)
	}

	if m.Value() > 1e-7 {
		t.Errorf("residual = %e, expected only rounding drift", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero residual after reset")
	}
}

func TestDefaults(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Defaults(0.01, 10) {
		names[m.Name()] = true
	}
	for _, n := range []string{"peak", "mean", "non_finite", "bounded", "residual"} {
		if !names[n] {
			t.Errorf("missing default metric %s", n)
		}
	}
}
