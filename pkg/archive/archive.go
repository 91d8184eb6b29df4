package archive

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/AlphaDora/YCSB/pkg/logging"
	result "github.com/AlphaDora/YCSB/pkg/results"
	"github.com/AlphaDora/YCSB/pkg/sample"
	"github.com/cloud-bulldozer/go-commons/indexers"
)

const ltcyMetric = "usec"

// RawDataFile is the JSON archive holding every collected run.
const RawDataFile = "latency_data.json"

// Doc struct of the JSON document to be indexed
type Doc struct {
	UUID        string          `json:"uuid"`
	Timestamp   time.Time       `json:"timestamp"`
	RunID       int             `json:"runId"`
	Script      string          `json:"script"`
	DataPoints  int             `json:"dataPoints"`
	MinLatency  float64         `json:"minLatency"`
	MaxLatency  float64         `json:"maxLatency"`
	AvgLatency  float64         `json:"avgLatency"`
	P95Latency  float64         `json:"p95Latency"`
	LtcyMetric  string          `json:"ltcyMetric"`
	Confidence  []float64       `json:"confidence"`
	Phases      []sample.Phase  `json:"phases"`
	ToolVersion string          `json:"toolVersion"`
	Metadata    result.Metadata `json:"metadata"`
}

// Connect returns a client connected to the desired cluster.
func Connect(url, index string) (*indexers.Indexer, error) {
	indexerConfig := indexers.IndexerConfig{
		Type:               "opensearch",
		Servers:            []string{url},
		Index:              index,
		InsecureSkipVerify: true,
	}
	logging.Infof("📁 Creating indexer: %s", indexerConfig.Type)
	indexer, err := indexers.NewIndexer(indexerConfig)
	if err != nil {
		logging.Errorf("%v indexer: %v", indexerConfig.Type, err.Error())
		return nil, fmt.Errorf("Failure while connnecting to Opensearch")
	}
	logging.Infof("Connected to : %s ", url)
	return indexer, nil
}

// BuildDocs returns the documents that need to be indexed or an error.
func BuildDocs(sr result.AnalysisResults, uuid string) ([]interface{}, error) {
	time := time.Now().UTC()

	var docs []interface{}
	if len(sr.Runs) < 1 {
		return nil, fmt.Errorf("no result documents")
	}
	var lo, hi float64
	if len(sr.Runs) > 1 {
		_, lo, hi = result.ConfidenceInterval(result.AllLatencies(sr.Runs), 0.95)
	}
	c := []float64{lo, hi}
	for _, r := range sr.Runs {
		if !r.HasData() {
			continue
		}
		vals := r.Latencies()
		d := Doc{
			UUID:        uuid,
			Timestamp:   time,
			RunID:       r.RunID,
			Script:      sr.Script,
			DataPoints:  len(vals),
			LtcyMetric:  ltcyMetric,
			Confidence:  c,
			Phases:      r.Phases,
			ToolVersion: sr.Version,
			Metadata:    sr.Metadata,
		}
		avg, e := result.Average(vals)
		if e != nil {
			logging.Warn("Unable to process latency average, setting value to zero")
		} else {
			d.AvgLatency = avg
		}
		p95, e := result.Percentile(vals, 95)
		if e != nil {
			logging.Warn("Unable to process latency percentile, setting value to zero")
		} else {
			d.P95Latency = p95
		}
		d.MinLatency, _ = result.Min(vals)
		d.MaxLatency, _ = result.Max(vals)
		docs = append(docs, d)
	}
	return docs, nil
}

// WriteJSONResult writes every collected run to the raw data archive
func WriteJSONResult(sr result.AnalysisResults, outDir string) error {
	fn := filepath.Join(outDir, RawDataFile)
	p, err := json.MarshalIndent(sr.Runs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(fn, p, 0o644); err != nil {
		return fmt.Errorf("failed to write raw data file : %v", err)
	}
	logging.Infof("Raw data saved to %s", fn)
	return nil
}

// WriteJSONStdout sends the indexable documents as JSON to stdout
func WriteJSONStdout(sr result.AnalysisResults, uuid string) error {
	docs, err := BuildDocs(sr, uuid)
	if err != nil {
		return err
	}
	p, err := json.MarshalIndent(docs, " ", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(p))
	return nil
}

// WriteCSVResult will write the per-run latency summary to the local filesystem
func WriteCSVResult(sr result.AnalysisResults, outDir string) error {
	d := time.Now().Unix()
	fn := filepath.Join(outDir, fmt.Sprintf("latency-summary-%d.csv", d))
	fp, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("failed to open archive file")
	}
	defer fp.Close()
	archive := csv.NewWriter(fp)
	defer archive.Flush()

	data := []string{
		"Run",
		"UUID",
		"Data Points",
		"Min Latency",
		"Max Latency",
		"Avg Latency",
		"95%tile Latency",
		"Latency Metric",
		"Phases",
	}
	if err := archive.Write(data); err != nil {
		return fmt.Errorf("failed to write result archive to file")
	}
	for _, row := range sr.Runs {
		if !row.HasData() {
			continue
		}
		vals := row.Latencies()
		min, _ := result.Min(vals)
		max, _ := result.Max(vals)
		avg, _ := result.Average(vals)
		p95, _ := result.Percentile(vals, 95)
		data := []string{
			strconv.Itoa(row.RunID),
			row.UUID,
			strconv.Itoa(len(vals)),
			fmt.Sprintf("%f", min),
			fmt.Sprintf("%f", max),
			fmt.Sprintf("%f", avg),
			fmt.Sprintf("%f", p95),
			ltcyMetric,
			strconv.Itoa(len(row.Phases)),
		}
		if err := archive.Write(data); err != nil {
			return fmt.Errorf("failed to write archive to file")
		}
	}
	logging.Infof("Summary saved to %s", fn)
	return nil
}
