// Package analysis characterizes recorded rate and angle series.
//
//   - [Spectrum]: windowed power spectrum of a uniformly sampled series
//   - [DominantFrequency]: strongest non-DC component
//   - [Drift]: least-squares slope of a series against time
//
// # Gyro Bias
//
// A constant rate bias integrates into a linear angle ramp, so the slope of
// the integrator output over a stationary recording estimates the bias:
//
//	slope, _ := analysis.Drift(result.Times, result.Outputs)
package analysis
