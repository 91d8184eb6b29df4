package result

import (
	"testing"

	"github.com/AlphaDora/YCSB/pkg/sample"
)

func twoRuns() []sample.RunResult {
	return []sample.RunResult{
		{
			RunID: 1,
			Timeseries: []sample.Point{
				{Timestamp: 1000, Latency: 100},
				{Timestamp: 2000, Latency: 200},
			},
		},
		{
			RunID: 2,
			Timeseries: []sample.Point{
				{Timestamp: 1000, Latency: 300},
				{Timestamp: 2000, Latency: 200},
				{Timestamp: 3000, Latency: 50},
			},
		},
	}
}

// TestMergeByTimestamp Shared timestamps aggregate to the arithmetic mean
func TestMergeByTimestamp(t *testing.T) {
	merged := MergeByTimestamp(twoRuns())
	if len(merged) != 3 {
		t.Fatalf("expected 3 merged points, got %d", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i-1].Timestamp > merged[i].Timestamp {
			t.Fatalf("merged series is not sorted: %v", merged)
		}
	}
	if merged[0].Mean != 200 || merged[0].Count != 2 {
		t.Fatalf("unexpected aggregate at ts=1000: %+v", merged[0])
	}
	if merged[0].StdDev != 100 {
		t.Fatalf("expected population stddev 100 at ts=1000, got %f", merged[0].StdDev)
	}
}

// TestMergeIdenticalValues Identical contributors collapse to stddev zero
func TestMergeIdenticalValues(t *testing.T) {
	merged := MergeByTimestamp(twoRuns())
	if merged[1].Timestamp != 2000 {
		t.Fatalf("expected ts=2000 at index 1, got %+v", merged[1])
	}
	if merged[1].Mean != 200 || merged[1].StdDev != 0 {
		t.Fatalf("expected mean 200 stddev 0, got %+v", merged[1])
	}
}

// TestMergeSingleContributor A lone contributor is its own mean
func TestMergeSingleContributor(t *testing.T) {
	merged := MergeByTimestamp(twoRuns())
	if merged[2].Timestamp != 3000 || merged[2].Mean != 50 || merged[2].Count != 1 {
		t.Fatalf("unexpected aggregate at ts=3000: %+v", merged[2])
	}
}

// TestMergeNoData No runs yields an empty merged series
func TestMergeNoData(t *testing.T) {
	merged := MergeByTimestamp(nil)
	if len(merged) != 0 {
		t.Fatalf("expected empty merged series, got %v", merged)
	}
}

// TestCheckData Runs without points do not count as data
func TestCheckData(t *testing.T) {
	s := AnalysisResults{Runs: []sample.RunResult{{RunID: 1}}}
	if CheckData(s) {
		t.Fatal("expected no data for a run without points")
	}
	s.Runs = append(s.Runs, twoRuns()...)
	if !CheckData(s) {
		t.Fatal("expected data to be present")
	}
}

// TestAllLatencies Flattening preserves every observation
func TestAllLatencies(t *testing.T) {
	vals := AllLatencies(twoRuns())
	if len(vals) != 5 {
		t.Fatalf("expected 5 latencies, got %d", len(vals))
	}
}

// TestAverage Sanity check on the stats wrappers
func TestAverage(t *testing.T) {
	avg, err := Average([]float64{100, 200, 300})
	if err != nil {
		t.Fatal(err)
	}
	if avg != 200 {
		t.Fatalf("expected average 200, got %f", avg)
	}
	sd, err := StdDev([]float64{200, 200, 200})
	if err != nil {
		t.Fatal(err)
	}
	if sd != 0 {
		t.Fatalf("expected stddev 0, got %f", sd)
	}
}

// TestConfidenceInterval The interval always brackets the mean
func TestConfidenceInterval(t *testing.T) {
	vals := []float64{100, 150, 200, 250, 300}
	mean, lo, hi := ConfidenceInterval(vals, 0.95)
	if lo > mean || hi < mean {
		t.Fatalf("interval [%f, %f] does not bracket mean %f", lo, hi, mean)
	}
}
