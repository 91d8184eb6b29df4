package result

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/AlphaDora/YCSB/pkg/config"
	"github.com/AlphaDora/YCSB/pkg/logging"
	"github.com/AlphaDora/YCSB/pkg/sample"
	math "github.com/aclements/go-moremath/stats"
	stats "github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Specify Language specific case wrapper as global variable
var caser = cases.Title(language.English)

const ltcyMetric = "usec"

// The load driver only reports UPDATE operation latencies.
const opName = "UPDATE"

// AnalysisResults collects every run of an analysis session
type AnalysisResults struct {
	Runs []sample.RunResult
	Metadata
}

// Metadata for the session
type Metadata struct {
	Version   string         `json:"toolVersion"`
	GitCommit string         `json:"toolGitCommit"`
	Script    string         `json:"script"`
	Requested int            `json:"requestedRuns"`
	UUID      string         `json:"uuid"`
	Phases    []config.Phase `json:"phaseSchedule"`
}

// MergedPoint is the per-timestamp aggregate across contributing runs.
type MergedPoint struct {
	Timestamp int64
	Mean      float64
	StdDev    float64
	Count     int
}

// Average accepts array of floats to calculate average
func Average(vals []float64) (float64, error) {
	return stats.Mean(vals)
}

// Percentile accepts array of floats and the desired %tile to calculate
func Percentile(vals []float64, ptile float64) (float64, error) {
	return stats.Percentile(vals, ptile)
}

// Min accepts array of floats to calculate the minimum
func Min(vals []float64) (float64, error) {
	return stats.Min(vals)
}

// Max accepts array of floats to calculate the maximum
func Max(vals []float64) (float64, error) {
	return stats.Max(vals)
}

// StdDev accepts array of floats to calculate the population standard deviation
func StdDev(vals []float64) (float64, error) {
	return stats.StandardDeviationPopulation(vals)
}

// ConfidenceInterval accepts array of floats and the desired interval
func ConfidenceInterval(vals []float64, ci float64) (float64, float64, float64) {
	return math.MeanCI(vals, ci)
}

// CheckData will check to see if any run in the session carries data points
// returns true when at least one does
func CheckData(s AnalysisResults) bool {
	for t := range s.Runs {
		if s.Runs[t].HasData() {
			return true
		}
	}
	return false
}

// AllLatencies flattens the latency values of every run into one slice.
func AllLatencies(runs []sample.RunResult) []float64 {
	var vals []float64
	for _, r := range runs {
		vals = append(vals, r.Latencies()...)
	}
	return vals
}

// MergeByTimestamp buckets all runs by timestamp and aggregates each bucket.
// Returns the merged series sorted ascending by timestamp. Identical
// contributing values collapse to a standard deviation of zero.
func MergeByTimestamp(runs []sample.RunResult) []MergedPoint {
	buckets := make(map[int64][]float64)
	for _, r := range runs {
		for _, p := range r.Timeseries {
			buckets[p.Timestamp] = append(buckets[p.Timestamp], p.Latency)
		}
	}
	merged := make([]MergedPoint, 0, len(buckets))
	for ts, vals := range buckets {
		avg, err := Average(vals)
		if err != nil {
			continue
		}
		sd, err := StdDev(vals)
		if err != nil {
			continue
		}
		merged = append(merged, MergedPoint{Timestamp: ts, Mean: avg, StdDev: sd, Count: len(vals)})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Timestamp < merged[j].Timestamp })
	return merged
}

// Method to init common table structure.
func initTable(header []string) *tablewriter.Table {
	// Create a new table writer with the appropriate header and alignment options
	table := tablewriter.NewWriter(os.Stdout)
	// Add a header to the table
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	return table
}

func runRow(label string, vals []float64) []string {
	min, _ := Min(vals)
	max, _ := Max(vals)
	avg, _ := Average(vals)
	p95, _ := Percentile(vals, 95)
	return []string{
		fmt.Sprintf("📊 %s Latency Results", caser.String(strings.ToLower(opName))),
		label,
		strconv.Itoa(len(vals)),
		fmt.Sprintf("%.2f (%s)", min, ltcyMetric),
		fmt.Sprintf("%.2f (%s)", max, ltcyMetric),
		fmt.Sprintf("%.2f (%s)", avg, ltcyMetric),
		fmt.Sprintf("%.2f (%s)", p95, ltcyMetric),
	}
}

// ShowLatencyResult renders the per-run and overall latency summary
func ShowLatencyResult(s AnalysisResults) {
	if !CheckData(s) {
		logging.Info("No data to summarize")
		return
	}
	logging.Debug("Rendering latency summary")
	table := initTable([]string{"Result Type", "Run", "Data Points", "Min", "Max", "Avg", "95%tile"})
	for _, r := range s.Runs {
		if !r.HasData() {
			continue
		}
		table.Append(runRow(fmt.Sprintf("Run %d", r.RunID), r.Latencies()))
	}
	all := AllLatencies(s.Runs)
	table.Append(runRow(fmt.Sprintf("Overall (%d runs)", len(s.Runs)), all))
	table.Render()
	if len(s.Runs) > 1 {
		_, lo, hi := ConfidenceInterval(all, 0.95)
		logging.Infof("95%% Confidence Interval: %.2f-%.2f (%s)", lo, hi, ltcyMetric)
	}
}

// ShowPhaseResult renders the last reported status of every load phase
func ShowPhaseResult(s AnalysisResults) {
	last := make(map[string]sample.Phase)
	var order []string
	for _, r := range s.Runs {
		for _, p := range r.Phases {
			if _, seen := last[p.Name]; !seen {
				order = append(order, p.Name)
			}
			last[p.Name] = p
		}
	}
	if len(order) < 1 {
		return
	}
	logging.Debug("Rendering phase status results")
	table := initTable([]string{"Result Type", "Phase", "Throughput", "Elapsed"})
	for _, name := range order {
		p := last[name]
		table.Append([]string{
			"Phase Status",
			p.Name,
			fmt.Sprintf("%.2f ops/sec", p.Throughput),
			fmt.Sprintf("%dms", p.Elapsed),
		})
	}
	table.Render()
}
