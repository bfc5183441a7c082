// Package report assembles estimation results into structured summary,
// detailed, and comparison reports. It aggregates only; rendering and
// rounding belong to the presentation layer.
package report

import (
	"fmt"

	"github.com/fpakit/fpcost/pkg/estimate"
	"github.com/fpakit/fpcost/pkg/fpa"
	"github.com/fpakit/fpcost/pkg/risk"
	"github.com/fpakit/fpcost/pkg/trend"
)

// KindRow aggregates the components of one kind.
type KindRow struct {
	Kind       fpa.Kind `json:"kind"`
	Count      int      `json:"count"`
	Points     int      `json:"points"`
	Percentage float64  `json:"percentage"`
}

// TierRow aggregates the components of one complexity tier.
type TierRow struct {
	Tier       fpa.Tier `json:"tier"`
	Count      int      `json:"count"`
	Points     int      `json:"points"`
	Percentage float64  `json:"percentage"`
}

// KindBreakdown groups components by kind with a grand total.
type KindBreakdown struct {
	Rows        []KindRow `json:"rows"`
	TotalCount  int       `json:"total_count"`
	TotalPoints int       `json:"total_points"`
}

// TierBreakdown groups components by complexity tier with a grand total.
type TierBreakdown struct {
	Rows        []TierRow `json:"rows"`
	TotalCount  int       `json:"total_count"`
	TotalPoints int       `json:"total_points"`
}

// Canonical row orders so reports are deterministic regardless of input order.
var (
	kindOrder = []fpa.Kind{fpa.InternalFile, fpa.ExternalFile, fpa.ExternalInput, fpa.ExternalOutput, fpa.ExternalQuery}
	tierOrder = []fpa.Tier{fpa.Low, fpa.Average, fpa.High}
)

// pointShare is the percentage of total points, 0 for an empty total.
func pointShare(points, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(points) / float64(total) * 100
}

// ComponentBreakdown groups classified components by kind.
func ComponentBreakdown(components []fpa.Classified) KindBreakdown {
	counts := make(map[fpa.Kind]int)
	points := make(map[fpa.Kind]int)
	total := 0
	for _, c := range components {
		counts[c.Kind]++
		points[c.Kind] += c.Points
		total += c.Points
	}

	b := KindBreakdown{TotalCount: len(components), TotalPoints: total}
	for _, k := range kindOrder {
		if counts[k] == 0 {
			continue
		}
		b.Rows = append(b.Rows, KindRow{
			Kind:       k,
			Count:      counts[k],
			Points:     points[k],
			Percentage: pointShare(points[k], total),
		})
	}
	return b
}

// ComplexityBreakdown groups classified components by tier.
func ComplexityBreakdown(components []fpa.Classified) TierBreakdown {
	counts := make(map[fpa.Tier]int)
	points := make(map[fpa.Tier]int)
	total := 0
	for _, c := range components {
		counts[c.Tier]++
		points[c.Tier] += c.Points
		total += c.Points
	}

	b := TierBreakdown{TotalCount: len(components), TotalPoints: total}
	for _, t := range tierOrder {
		if counts[t] == 0 {
			continue
		}
		b.Rows = append(b.Rows, TierRow{
			Tier:       t,
			Count:      counts[t],
			Points:     points[t],
			Percentage: pointShare(points[t], total),
		})
	}
	return b
}

// Summary is the assembled result of a full estimate run: metrics, team size
// guidance, risk assessment, and breakdowns. Plain serializable data; record
// identity, timestamps, and attribution stay with the persistence layer.
type Summary struct {
	Metrics    estimate.Metrics                `json:"metrics"`
	TeamSize   estimate.TeamSizeRecommendation `json:"team_size"`
	Risk       risk.Assessment                 `json:"risk"`
	Components KindBreakdown                   `json:"components"`
	Complexity TierBreakdown                   `json:"complexity"`
}

// Detailed is a summary plus the per-component classifications.
type Detailed struct {
	Summary
	Classified []fpa.Classified `json:"classified"`
}

// Comparison describes how a metric evolved across estimate versions.
type Comparison struct {
	Metric   string       `json:"metric"`
	Versions int          `json:"versions"`
	Trend    trend.Result `json:"trend"`
	// ConsecutiveChanges are the pairwise version-to-version percentage
	// deltas, for display alongside the overall first-to-last trend.
	ConsecutiveChanges []float64 `json:"consecutive_changes"`
}

// BuildSummary classifies the raw components and runs the full calculation
// pipeline: aggregation, adjustment, effort/cost derivation, team sizing,
// and risk assessment.
func BuildSummary(components []fpa.Component, gsc fpa.GSCVector, cfg estimate.Config, policy estimate.TeamSizePolicy) (Summary, error) {
	classified, err := fpa.ClassifyAll(components)
	if err != nil {
		return Summary{}, err
	}
	return assemble(classified, gsc, cfg, policy)
}

// BuildDetailed builds a summary and attaches the per-component
// classifications.
func BuildDetailed(components []fpa.Component, gsc fpa.GSCVector, cfg estimate.Config, policy estimate.TeamSizePolicy) (Detailed, error) {
	classified, err := fpa.ClassifyAll(components)
	if err != nil {
		return Detailed{}, err
	}
	summary, err := assemble(classified, gsc, cfg, policy)
	if err != nil {
		return Detailed{}, err
	}
	return Detailed{Summary: summary, Classified: classified}, nil
}

func assemble(classified []fpa.Classified, gsc fpa.GSCVector, cfg estimate.Config, policy estimate.TeamSizePolicy) (Summary, error) {
	metrics, err := estimate.Compute(classified, gsc, cfg)
	if err != nil {
		return Summary{}, err
	}

	// A zero-point system has no team to size; the zero recommendation is
	// the documented result, not an error.
	var teamSize estimate.TeamSizeRecommendation
	if metrics.AdjustedPoints > 0 {
		teamSize, err = estimate.RecommendTeamSize(metrics.AdjustedPoints, cfg.ProductivityFactor, policy)
		if err != nil {
			return Summary{}, err
		}
	}

	return Summary{
		Metrics:    metrics,
		TeamSize:   teamSize,
		Risk:       risk.Assess(metrics, cfg, classified, gsc),
		Components: ComponentBreakdown(classified),
		Complexity: ComplexityBreakdown(classified),
	}, nil
}

// BuildComparison analyzes the trend of a named metric across versions
// ordered oldest first.
func BuildComparison(history []estimate.Metrics, metricName string, thresholdPct float64) (Comparison, error) {
	metric, ok := trend.MetricByName(metricName)
	if !ok {
		return Comparison{}, fmt.Errorf("unknown trend metric %q", metricName)
	}

	result, err := trend.Analyze(history, metric, thresholdPct)
	if err != nil {
		return Comparison{}, err
	}

	name := metricName
	if name == "" {
		name = "adjusted_points"
	}

	return Comparison{
		Metric:             name,
		Versions:           len(history),
		Trend:              result,
		ConsecutiveChanges: trend.ConsecutiveChanges(history, metric),
	}, nil
}
