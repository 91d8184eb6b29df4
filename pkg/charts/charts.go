package charts

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/AlphaDora/YCSB/pkg/config"
	log "github.com/AlphaDora/YCSB/pkg/logging"
	result "github.com/AlphaDora/YCSB/pkg/results"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// LatencyPlotFile shows every run as its own series.
const LatencyPlotFile = "latency_analysis.png"

// AveragePlotFile shows the per-timestamp mean with error bars.
const AveragePlotFile = "average_latency.png"

// Per-run line colors, cycled when there are more runs than colors.
var runPalette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},  // blue
	{R: 214, G: 39, B: 40, A: 255},   // red
	{R: 44, G: 160, B: 44, A: 255},   // green
	{R: 255, G: 127, B: 14, A: 255},  // orange
	{R: 148, G: 103, B: 189, A: 255}, // purple
}

var boundaryGray = color.RGBA{R: 128, G: 128, B: 128, A: 255}
var boundaryRed = color.RGBA{R: 214, G: 39, B: 40, A: 255}

// errPoints carries the merged series for the error bar plotter.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

func boundaryLine(x, yMax float64, c color.RGBA) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: yMax}})
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(0.5)
	l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	return l, nil
}

// addPhaseBoundaries draws a dashed vertical line at the start and end of
// every configured phase plus a label at the segment midpoint.
func addPhaseBoundaries(p *plot.Plot, phases []config.Phase, yMax float64, c color.RGBA) error {
	var xys plotter.XYs
	var names []string
	for _, ph := range phases {
		for _, x := range []int64{ph.Start, ph.End()} {
			l, err := boundaryLine(float64(x), yMax, c)
			if err != nil {
				return err
			}
			p.Add(l)
		}
		mid := float64(ph.Start+ph.End()) / 2
		xys = append(xys, plotter.XY{X: mid, Y: yMax * 0.9})
		names = append(names, ph.Label())
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
	if err != nil {
		return err
	}
	p.Add(labels)
	return nil
}

// LatencyOverTime renders one line per run with the phase schedule overlaid.
func LatencyOverTime(sr result.AnalysisResults, outDir string) error {
	if !result.CheckData(sr) {
		log.Info("No data to plot")
		return nil
	}
	p := plot.New()
	p.Title.Text = "YCSB Dynamic Load Test - Latency Over Time"
	p.X.Label.Text = "Time (ms)"
	p.Y.Label.Text = "Latency (usec)"
	p.Add(plotter.NewGrid())

	// Clamp the Y axis at the 95th percentile to keep outliers from
	// flattening the interesting region.
	p95, err := result.Percentile(result.AllLatencies(sr.Runs), 95)
	if err != nil {
		return err
	}
	yMax := p95 * 1.1
	p.Y.Min = 0
	p.Y.Max = yMax

	for i, r := range sr.Runs {
		if !r.HasData() {
			continue
		}
		xys := make(plotter.XYs, 0, len(r.Timeseries))
		for _, pt := range r.Timeseries {
			xys = append(xys, plotter.XY{X: float64(pt.Timestamp), Y: pt.Latency})
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.LineStyle.Color = runPalette[i%len(runPalette)]
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("Run %d", r.RunID), line)
	}
	if err := addPhaseBoundaries(p, sr.Phases, yMax, boundaryGray); err != nil {
		return err
	}
	p.Legend.Top = true

	fn := filepath.Join(outDir, LatencyPlotFile)
	if err := p.Save(15*vg.Inch, 10*vg.Inch, fn); err != nil {
		return err
	}
	log.Infof("Plot saved to %s", fn)
	return nil
}

// AverageLatency renders the cross-run mean latency with stddev error bars.
func AverageLatency(sr result.AnalysisResults, outDir string) error {
	merged := result.MergeByTimestamp(sr.Runs)
	if len(merged) < 1 {
		log.Info("No data to plot")
		return nil
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("YCSB Dynamic Load Test - Average Latency Over Time (%d runs)", len(sr.Runs))
	p.X.Label.Text = "Time (ms)"
	p.Y.Label.Text = "Average Latency (usec)"
	p.Add(plotter.NewGrid())

	pts := errPoints{
		XYs:     make(plotter.XYs, 0, len(merged)),
		YErrors: make(plotter.YErrors, 0, len(merged)),
	}
	maxMean := 0.0
	for _, m := range merged {
		pts.XYs = append(pts.XYs, plotter.XY{X: float64(m.Timestamp), Y: m.Mean})
		pts.YErrors = append(pts.YErrors, struct{ Low, High float64 }{Low: m.StdDev, High: m.StdDev})
		if m.Mean > maxMean {
			maxMean = m.Mean
		}
	}
	line, err := plotter.NewLine(pts.XYs)
	if err != nil {
		return err
	}
	line.LineStyle.Color = runPalette[0]
	line.LineStyle.Width = vg.Points(1)
	p.Add(line)
	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return err
	}
	bars.LineStyle.Color = runPalette[0]
	p.Add(bars)
	if err := addPhaseBoundaries(p, sr.Phases, maxMean, boundaryRed); err != nil {
		return err
	}

	fn := filepath.Join(outDir, AveragePlotFile)
	if err := p.Save(15*vg.Inch, 8*vg.Inch, fn); err != nil {
		return err
	}
	log.Infof("Average plot saved to %s", fn)
	return nil
}
