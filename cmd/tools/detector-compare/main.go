// Package main provides a detector comparison tool for eye-movement event
// evaluation. It runs the analysis pipeline over a demonstration batch of
// annotated recordings and compares the configured raters and detectors.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/gazelab/saccade.report/internal/analysis"
	"github.com/gazelab/saccade.report/internal/config"
	"github.com/gazelab/saccade.report/internal/events"
	"github.com/gazelab/saccade.report/internal/grid"
	"github.com/gazelab/saccade.report/internal/monitoring"
	"github.com/gazelab/saccade.report/internal/stats"
)

// Flags holds the command-line configuration.
type Flags struct {
	ConfigFile string
	OutputJSON string
	Verbose    bool
}

// FeatureSummary describes one pooled measurement list.
type FeatureSummary struct {
	Group  string  `json:"group"`
	Column string  `json:"column"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Stddev float64 `json:"stddev"`
}

// ComparisonReport is the JSON export of one analysis run.
type ComparisonReport struct {
	RunID            string                      `json:"run_id"`
	DurationSecs     float64                     `json:"duration_secs"`
	Recordings       int                         `json:"recordings"`
	Detectors        []string                    `json:"detectors"`
	Features         map[string][]FeatureSummary `json:"features"`
	MatchRatio       []FeatureSummary            `json:"match_ratio"`
	MatchedFeatures  map[string][]FeatureSummary `json:"matched_features"`
	SampleMetrics    map[string][]FeatureSummary `json:"sample_metrics"`
	SignificantPairs []string                    `json:"significant_pairs"`
}

func main() {
	flags := parseFlags()

	if !flags.Verbose {
		monitoring.SetLogger(nil)
	}

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	report, err := runComparison(opts)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}

	printReport(report)

	if flags.OutputJSON != "" {
		if err := exportJSON(report, flags.OutputJSON); err != nil {
			log.Printf("Warning: failed to export JSON: %v", err)
		} else {
			log.Printf("Results exported to: %s", flags.OutputJSON)
		}
	}
}

func parseFlags() Flags {
	flags := Flags{}
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to YAML analysis configuration")
	flag.StringVar(&flags.OutputJSON, "json", "", "Output JSON filename (e.g., results.json)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()
	return flags
}

func runComparison(opts analysis.Options) (*ComparisonReport, error) {
	batch := demoBatch()
	analyzer := analysis.New(opts)

	start := time.Now()
	bundle, err := analyzer.Run(batch)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	report := &ComparisonReport{
		RunID:           bundle.RunID.String(),
		DurationSecs:    elapsed.Seconds(),
		Recordings:      len(batch.Rows),
		Features:        make(map[string][]FeatureSummary),
		MatchedFeatures: make(map[string][]FeatureSummary),
		SampleMetrics:   make(map[string][]FeatureSummary),
	}
	for _, d := range batch.Detectors {
		report.Detectors = append(report.Detectors, d.Name())
	}

	for name, g := range bundle.Features {
		report.Features[name] = summarize(g, func(c string) string { return c })
	}
	report.MatchRatio = summarize(bundle.MatchRatio, grid.Pair.String)
	for name, g := range bundle.MatchedFeatures {
		report.MatchedFeatures[name] = summarize(g, grid.Pair.String)
	}
	for name, g := range bundle.SampleMetrics {
		report.SampleMetrics[name] = summarize(g, grid.Pair.String)
	}

	// Flag feature/pair combinations significant at the 5% level.
	for name, g := range bundle.FeatureStats {
		for _, row := range g.Rows() {
			for _, col := range g.Columns() {
				if col.Kind != stats.KindPValue {
					continue
				}
				if v, ok := g.Get(row.Key, col); ok && v.Valid && v.Value < 0.05 {
					report.SignificantPairs = append(report.SignificantPairs,
						fmt.Sprintf("%s / %s / %s (p=%.4f)", name, row.Stimulus, col.Pair, v.Value))
				}
			}
		}
	}
	return report, nil
}

// summarize flattens a pooled measurement grid into per-cell summaries.
func summarize[C comparable](g *grid.Grid[C, []float64], colName func(C) string) []FeatureSummary {
	var out []FeatureSummary
	for _, row := range g.Rows() {
		for _, col := range g.Columns() {
			vals, ok := g.Get(row.Key, col)
			if !ok || len(vals) == 0 {
				continue
			}
			mean, std := stat.MeanStdDev(vals, nil)
			out = append(out, FeatureSummary{
				Group:  row.Stimulus,
				Column: colName(col),
				N:      len(vals),
				Mean:   mean,
				Stddev: std,
			})
		}
	}
	return out
}

func printReport(report *ComparisonReport) {
	fmt.Println("\n=== Detector Comparison Results ===")
	fmt.Printf("Run ID: %s\n", report.RunID)
	fmt.Printf("Processing Time: %.3fs\n", report.DurationSecs)
	fmt.Printf("Recordings: %d\n", report.Recordings)
	fmt.Printf("Detectors: %v\n", report.Detectors)

	fmt.Println("\n--- Event Features (pooled) ---")
	for name, summaries := range report.Features {
		fmt.Printf("\n%s:\n", name)
		for _, s := range summaries {
			fmt.Printf("  [%s] %s: n=%d mean=%.3f sd=%.3f\n", s.Group, s.Column, s.N, s.Mean, s.Stddev)
		}
	}

	fmt.Println("\n--- Match Ratio (%) ---")
	for _, s := range report.MatchRatio {
		fmt.Printf("  [%s] %s: n=%d mean=%.1f\n", s.Group, s.Column, s.N, s.Mean)
	}

	fmt.Println("\n--- Sample Metrics (pooled) ---")
	for name, summaries := range report.SampleMetrics {
		fmt.Printf("\n%s:\n", name)
		for _, s := range summaries {
			fmt.Printf("  [%s] %s: n=%d mean=%.4f\n", s.Group, s.Column, s.N, s.Mean)
		}
	}

	fmt.Println("\n--- Significant Differences (p < 0.05) ---")
	if len(report.SignificantPairs) == 0 {
		fmt.Println("  none")
	}
	for _, s := range report.SignificantPairs {
		fmt.Printf("  %s\n", s)
	}
}

func exportJSON(report *ComparisonReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// demoBatch builds a small annotated batch: two human raters and one
// synthetic detector over four recordings and two stimuli. Real studies
// supply their own loaders through the Detector interface.
func demoBatch() analysis.Batch {
	rows := []grid.Row{
		{Key: grid.RowKey{Subject: "s01", Trial: "t1"}, Stimulus: "moving dot"},
		{Key: grid.RowKey{Subject: "s01", Trial: "t2"}, Stimulus: "static image"},
		{Key: grid.RowKey{Subject: "s02", Trial: "t1"}, Stimulus: "moving dot"},
		{Key: grid.RowKey{Subject: "s02", Trial: "t2"}, Stimulus: "static image"},
	}

	raterA := make(map[grid.RowKey]events.Sequence)
	raterB := make(map[grid.RowKey]events.Sequence)
	detector := make(map[grid.RowKey]events.Sequence)
	for i, row := range rows {
		base := float64(i) * 10
		raterA[row.Key] = events.Sequence{
			events.NewFixation(0, 180+base, 12),
			events.NewSaccade(180+base, 220+base, 4.5, 30, 310),
			events.NewFixation(220+base, 400+base, 14),
			events.NewSaccade(400+base, 430+base, 0.8, 200, 120),
			events.NewFixation(430+base, 600+base, 11),
		}
		raterB[row.Key] = events.Sequence{
			events.NewFixation(0, 174+base, 13),
			events.NewSaccade(174+base, 218+base, 4.2, 32, 295),
			events.NewFixation(218+base, 395+base, 15),
			events.NewBlink(395+base, 432+base),
			events.NewFixation(432+base, 600+base, 12),
		}
		detector[row.Key] = events.Sequence{
			events.NewFixation(2, 181+base, 12.5),
			events.NewSaccade(181+base, 224+base, 4.7, 29, 330),
			events.NewFixation(224+base, 401+base, 13),
			events.NewSaccade(401+base, 433+base, 0.9, 195, 140),
			events.NewFixation(433+base, 601+base, 10),
		}
	}

	return analysis.Batch{
		Rows: rows,
		Detectors: []analysis.Detector{
			analysis.NewStaticDetector("RA", raterA),
			analysis.NewStaticDetector("RB", raterB),
			analysis.NewStaticDetector("ivt-detector", detector),
		},
	}
}
