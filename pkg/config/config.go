package config

import (
	"fmt"
	"os"
	"time"

	log "github.com/AlphaDora/YCSB/pkg/logging"
	"github.com/melbahja/goph"
	"gopkg.in/yaml.v3"
)

// Phase describes one segment of the dynamic load schedule. Start and
// Duration are test-elapsed milliseconds, Throughput is the target ops/sec.
type Phase struct {
	Name       string  `yaml:"name"`
	Throughput float64 `yaml:"throughput"`
	Start      int64   `yaml:"start"`
	Duration   int64   `yaml:"duration"`
}

// End returns the phase boundary where the segment stops.
func (p Phase) End() int64 {
	return p.Start + p.Duration
}

// Label renders the phase the way it is drawn on the charts.
func (p Phase) Label() string {
	if p.Throughput >= 1000 {
		return fmt.Sprintf("%s (%.0fK ops/sec)", p.Name, p.Throughput/1000)
	}
	return fmt.Sprintf("%s (%.0f ops/sec)", p.Name, p.Throughput)
}

// Scenario collects the run-time options for a full analysis session.
type Scenario struct {
	Script     string
	Runs       int
	Timeout    time.Duration
	Delay      time.Duration
	OutputDir  string
	Phases     []Phase
	RemoteHost string
	SSHClient  *goph.Client
}

func validPhase(p Phase) (bool, error) {
	if len(p.Name) < 1 {
		return false, fmt.Errorf("phase name must not be empty")
	}
	if p.Throughput <= 0 {
		return false, fmt.Errorf("throughput must be > 0")
	}
	if p.Duration < 1 {
		return false, fmt.Errorf("duration must be > 0")
	}
	if p.Start < 0 {
		return false, fmt.Errorf("start must be >= 0")
	}
	return true, nil
}

// ParseConf will read in the phase schedule file which describes the
// dynamic load segments the test script drives.
// Returns the list of phases in file order.
func ParseConf(fn string) ([]Phase, error) {
	log.Infof("📒 Reading %s file. ", fn)
	buf, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	c := make(map[string][]Phase)
	// YAML structure:
	// phases:
	//   - name: <xyz>
	//     throughput: <ops/sec> ...
	err = yaml.Unmarshal(buf, &c)
	if err != nil {
		return nil, fmt.Errorf("in file %q: %v", fn, err)
	}
	var phases []Phase
	for _, pl := range c {
		for _, p := range pl {
			ok, err := validPhase(p)
			if !ok {
				return nil, err
			}
			phases = append(phases, p)
		}
	}
	if len(phases) < 1 {
		return nil, fmt.Errorf("in file %q: no phases defined", fn)
	}
	return phases, nil
}

// Default returns the workload3 schedule the dynamic load controller ships
// with, used when no phase file is provided.
func Default() []Phase {
	return []Phase{
		{Name: "Baseline", Throughput: 1000, Start: 0, Duration: 10000},
		{Name: "Moderate", Throughput: 5000, Start: 10000, Duration: 10000},
		{Name: "High", Throughput: 20000, Start: 20000, Duration: 10000},
		{Name: "VeryHigh", Throughput: 50000, Start: 30000, Duration: 10000},
		{Name: "Extreme", Throughput: 100000, Start: 40000, Duration: 10000},
	}
}

// Show Display the scenario about to run
func Show(s Scenario) {
	log.Infof("🗒️  Running %s %d time(s), timeout %s, delay %s ", s.Script, s.Runs, s.Timeout, s.Delay)
}
