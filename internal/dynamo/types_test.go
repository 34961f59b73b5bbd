package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestSeries_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		series Series
		valid  bool
		first  int
	}{
		{"empty", Series{}, true, -1},
		{"normal", Series{1.0, 2.0, 3.0}, true, -1},
		{"zeros", Series{0.0, 0.0}, true, -1},
		{"with NaN", Series{1.0, math.NaN()}, false, 1},
		{"with +Inf", Series{math.Inf(1), 1.0}, false, 0},
		{"with -Inf", Series{1.0, 2.0, math.Inf(-1)}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.series.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.series.FirstInvalid(); got != tt.first {
				t.Errorf("FirstInvalid() = %d, want %d", got, tt.first)
			}
		})
	}
}

func TestTickError_Unwrap(t *testing.T) {
	err := &TickError{Tick: 3, Time: 0.03, Wrapped: ErrCanceled}
	if !errors.Is(err, ErrCanceled) {
		t.Error("TickError should unwrap to ErrCanceled")
	}
	if err.Error() == "" {
		t.Error("empty error message")
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 3, 17, 256} {
		hits := make([]int32, n)
		ParallelFor(n, 1, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}
