package signals

import "math"

// Top is a heavy symmetric top driven by Euler's equations. Its body-frame
// roll rate is what a strapdown gyro on the top would measure.
type Top struct {
	I1, I2, I3 float64
	// MGL is mass * gravity * pivot-to-center length.
	MGL float64
}

func NewTop() Top {
	return Top{I1: 1.0, I2: 1.0, I3: 2.0, MGL: 9.81 * 1.0 * 0.5}
}

type topState struct{ w1, w2, w3, theta float64 }

func (t Top) derive(s topState) topState {
	return topState{
		w1:    ((t.I2-t.I3)/t.I1)*s.w2*s.w3 + t.MGL*math.Sin(s.theta)/t.I1,
		w2:    ((t.I3 - t.I1) / t.I2) * s.w3 * s.w1,
		w3:    ((t.I1 - t.I2) / t.I3) * s.w1 * s.w2,
		theta: s.w1,
	}
}

func (s topState) add(d topState, h float64) topState {
	return topState{s.w1 + h*d.w1, s.w2 + h*d.w2, s.w3 + h*d.w3, s.theta + h*d.theta}
}

// RollRate advances the top by h seconds per tick with RK4 and yields the
// roll rate in deg/s.
func (t Top) RollRate(spin, tilt, h float64) Stream {
	s := topState{w3: spin, theta: tilt}
	return func() float64 {
		out := s.w1 * 180 / math.Pi
		k1 := t.derive(s)
		k2 := t.derive(s.add(k1, h/2))
		k3 := t.derive(s.add(k2, h/2))
		k4 := t.derive(s.add(k3, h))
		s = topState{
			w1:    s.w1 + h/6*(k1.w1+2*k2.w1+2*k3.w1+k4.w1),
			w2:    s.w2 + h/6*(k1.w2+2*k2.w2+2*k3.w2+k4.w2),
			w3:    s.w3 + h/6*(k1.w3+2*k2.w3+2*k3.w3+k4.w3),
			theta: s.theta + h/6*(k1.theta+2*k2.theta+2*k3.theta+k4.theta),
		}
		return out
	}
}
