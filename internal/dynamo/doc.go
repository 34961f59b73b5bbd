// Package dynamo provides the shared primitives used around the discrete
// integrator core.
//
// The package defines the types that flow between the driver loop, metrics
// and persistence layers:
//
//   - [Series]: a per-tick sequence of scalar values
//   - [Metric]: a reducer observing every tick of a run
//   - [Observer]: a side channel notified on every tick
//   - [TickError]: an error annotated with the tick it occurred on
//
// # Example
//
//	integ := integrators.NewGyroX()
//	s := sim.New(integ, signals.Constant(1.0))
//	result, _ := s.Run(ctx, sim.Config{TimeStep: integ.TimeStep(), Ticks: 100})
//
// # Thread Safety
//
// Nothing in this package synchronizes. Metrics and observers belong to a
// single run; concurrent runs must each own their instances.
package dynamo
