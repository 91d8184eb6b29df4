package sample

import "time"

// Point is a single latency observation scraped from the load-test output.
// Timestamp is test-elapsed milliseconds, Latency is microseconds.
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Latency   float64 `json:"latency"`
}

// Phase is a dynamic load phase status record reported by the load driver.
type Phase struct {
	Name       string  `json:"name"`
	Throughput float64 `json:"throughput"`
	Elapsed    int64   `json:"elapsed"`
}

// RunResult holds everything scraped from a single test run.
// Timeseries is sorted ascending by timestamp.
type RunResult struct {
	RunID      int       `json:"run_id"`
	UUID       string    `json:"uuid"`
	Timeseries []Point   `json:"timeseries"`
	Phases     []Phase   `json:"phases"`
	Collected  time.Time `json:"timestamp"`
}

// Latencies returns the latency values of the run in timestamp order.
func (r RunResult) Latencies() []float64 {
	vals := make([]float64, 0, len(r.Timeseries))
	for _, p := range r.Timeseries {
		vals = append(vals, p.Latency)
	}
	return vals
}

// HasData reports whether the run produced any time series records.
func (r RunResult) HasData() bool {
	return len(r.Timeseries) > 0
}
