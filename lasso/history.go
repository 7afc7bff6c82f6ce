package lasso

import "time"

// Record is a single trace point: wall-clock time elapsed since the
// solver started and the objective value at that moment.
type Record struct {
	Elapsed   time.Duration
	Objective float64
}

// History is an append-only sequence of trace records, produced when a
// solver runs with tracing enabled. Solvers never read it back; it
// exists for external analysis and plotting.
type History []Record

// Objectives returns the objective values in order.
func (h History) Objectives() []float64 {
	out := make([]float64, len(h))
	for i, rec := range h {
		out[i] = rec.Objective
	}
	return out
}

// Seconds returns the elapsed times in seconds, in order.
func (h History) Seconds() []float64 {
	out := make([]float64, len(h))
	for i, rec := range h {
		out[i] = rec.Elapsed.Seconds()
	}
	return out
}
