package metrics

import "math"

type Peak struct {
	name string
	peak float64
}

func NewPeak() *Peak {
	return &Peak{name: "peak"}
}

func (p *Peak) Name() string { return p.name }

// Observe ignores NaN; math.Max would otherwise latch it.
func (p *Peak) Observe(tick int, sample, output float64) {
	if math.IsNaN(output) {
		return
	}
	p.peak = math.Max(p.peak, math.Abs(output))
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() { p.peak = 0 }

type Mean struct {
	name    string
	sum     float64
	samples int
}

func NewMean() *Mean {
	return &Mean{name: "mean"}
}

func (m *Mean) Name() string { return m.name }

func (m *Mean) Observe(tick int, sample, output float64) {
	m.sum += output
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}

type NonFinite struct {
	name  string
	count int
}

func NewNonFinite() *NonFinite {
	return &NonFinite{name: "non_finite"}
}

func (n *NonFinite) Name() string { return n.name }

func (n *NonFinite) Observe(tick int, sample, output float64) {
	if math.IsNaN(output) || math.IsInf(output, 0) {
		n.count++
	}
}

func (n *NonFinite) Value() float64 { return float64(n.count) }

func (n *NonFinite) Reset() { n.count = 0 }
