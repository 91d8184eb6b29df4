package extract

import (
	"bytes"
	"regexp"
	"sort"
	"strconv"

	"github.com/AlphaDora/YCSB/pkg/sample"
)

// The load driver emits per-operation latency records on stdout as
// [UPDATE], <elapsed-ms>, <latency-usec>
var updateRecord = regexp.MustCompile(`\[UPDATE\],\s*(\d+),\s*([\d.]+)`)

// Status lines carry the active dynamic load phase as
// Phase: <Name>, Throughput: <ops/sec> ops/sec, Elapsed: <ms>ms
var phaseRecord = regexp.MustCompile(`Phase:\s*(\w+),\s*Throughput:\s*([\d.]+)\s*ops/sec,\s*Elapsed:\s*(\d+)ms`)

// Timeseries scrapes all update-latency records from the captured stdout.
// Records with malformed numeric fields are skipped, the rest are returned
// sorted ascending by timestamp.
func Timeseries(stdout *bytes.Buffer) []sample.Point {
	var points []sample.Point
	matches := updateRecord.FindAllStringSubmatch(stdout.String(), -1)
	for _, m := range matches {
		ts, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		ltcy, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		points = append(points, sample.Point{Timestamp: ts, Latency: ltcy})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Timestamp != points[j].Timestamp {
			return points[i].Timestamp < points[j].Timestamp
		}
		return points[i].Latency < points[j].Latency
	})
	return points
}

// Phases scrapes all dynamic load phase status records from the captured
// stdout, in the order the driver reported them.
func Phases(stdout *bytes.Buffer) []sample.Phase {
	var phases []sample.Phase
	matches := phaseRecord.FindAllStringSubmatch(stdout.String(), -1)
	for _, m := range matches {
		tput, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		elapsed, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil {
			continue
		}
		phases = append(phases, sample.Phase{Name: m[1], Throughput: tput, Elapsed: elapsed})
	}
	return phases
}
