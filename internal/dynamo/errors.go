package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for driver and persistence operations.
var (
	// ErrInvalidConfig indicates a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("dynamo: invalid run configuration")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("dynamo: run canceled by context")

	// ErrNotFound indicates an unknown run, scenario or preset.
	ErrNotFound = errors.New("dynamo: not found")

	// ErrEmptySeries indicates an operation that needs at least one sample.
	ErrEmptySeries = errors.New("dynamo: empty series")

	// ErrNonFinite indicates a series containing NaN or Inf where finite values are required.
	ErrNonFinite = errors.New("dynamo: non-finite value in series")
)

// TickError wraps an error with the tick it was raised on.
type TickError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
