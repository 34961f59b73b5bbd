// Package viz renders integrator runs in the terminal.
//
//   - [Plot]: asciigraph line chart of a series
//   - [Summary]: styled run metadata block
//   - [Model]: Bubble Tea program that steps an integrator live
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Initialize (reset the accumulator)
//	+/-   - More/fewer ticks per frame
//	Q     - Quit
package viz
