package extract

import (
	"bytes"
	"testing"
)

const goodOutput = `YCSB Client 0.18.0
Command line: -db site.ycsb.db.RocksDBClient -P workloads/workload3 -t
[OVERALL], RunTime(ms), 50000
Phase: Baseline, Throughput: 1000.00 ops/sec, Elapsed: 5000ms
[UPDATE], 3000, 512.0
[UPDATE], 1000, 250.5
[UPDATE], 2000, 300.25
Phase: Moderate, Throughput: 5000.00 ops/sec, Elapsed: 15000ms
[UPDATE], 4000, 725
[OVERALL], Throughput(ops/sec), 4821.2
`

// TestTimeseries Ensure every well-formed record is extracted and ordered
func TestTimeseries(t *testing.T) {
	points := Timeseries(bytes.NewBufferString(goodOutput))
	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i-1].Timestamp > points[i].Timestamp {
			t.Fatalf("points are not sorted by timestamp: %v", points)
		}
	}
	if points[0].Timestamp != 1000 || points[0].Latency != 250.5 {
		t.Fatalf("unexpected first point: %+v", points[0])
	}
	if points[3].Timestamp != 4000 || points[3].Latency != 725 {
		t.Fatalf("unexpected last point: %+v", points[3])
	}
}

// TestTimeseriesMalformed Malformed numeric fields are skipped, the rest survive
func TestTimeseriesMalformed(t *testing.T) {
	out := `[UPDATE], 1000, 250.5
[UPDATE], 2000, ...
[UPDATE], 99999999999999999999999, 10.0
[UPDATE], 3000, 300.25
`
	points := Timeseries(bytes.NewBufferString(out))
	if len(points) != 2 {
		t.Fatalf("expected 2 points after skipping malformed records, got %d", len(points))
	}
	if points[0].Timestamp != 1000 || points[1].Timestamp != 3000 {
		t.Fatalf("unexpected points: %v", points)
	}
}

// TestTimeseriesEmpty No matching records yields no points
func TestTimeseriesEmpty(t *testing.T) {
	points := Timeseries(bytes.NewBufferString("no records here\n"))
	if len(points) != 0 {
		t.Fatalf("expected no points, got %d", len(points))
	}
}

// TestPhases Ensure phase status records are extracted in report order
func TestPhases(t *testing.T) {
	phases := Phases(bytes.NewBufferString(goodOutput))
	if len(phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(phases))
	}
	if phases[0].Name != "Baseline" || phases[0].Throughput != 1000 || phases[0].Elapsed != 5000 {
		t.Fatalf("unexpected first phase: %+v", phases[0])
	}
	if phases[1].Name != "Moderate" || phases[1].Throughput != 5000 || phases[1].Elapsed != 15000 {
		t.Fatalf("unexpected second phase: %+v", phases[1])
	}
}

// TestPhasesMalformed Malformed throughput fields are skipped
func TestPhasesMalformed(t *testing.T) {
	out := `Phase: Baseline, Throughput: ... ops/sec, Elapsed: 5000ms
Phase: High, Throughput: 20000.00 ops/sec, Elapsed: 25000ms
`
	phases := Phases(bytes.NewBufferString(out))
	if len(phases) != 1 {
		t.Fatalf("expected 1 phase after skipping malformed record, got %d", len(phases))
	}
	if phases[0].Name != "High" {
		t.Fatalf("unexpected phase: %+v", phases[0])
	}
}
