// Package trend classifies how an estimate metric evolves across an ordered
// sequence of versions.
package trend

import (
	"errors"
	"math"

	"github.com/fpakit/fpcost/pkg/estimate"
)

// ErrInsufficientData is returned when fewer than two versions are supplied.
var ErrInsufficientData = errors.New("trend analysis requires at least 2 data points")

// DefaultStabilityThresholdPct is the band within which a metric counts as
// stable. Policy, not counting rule; override via configuration.
const DefaultStabilityThresholdPct = 5.0

// Direction classifies how a metric moved across the sequence.
type Direction string

// Trend directions.
const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

// Metric extracts the value under analysis from a metrics snapshot.
type Metric func(estimate.Metrics) float64

// AdjustedPoints is the default metric: the adjusted function point count.
func AdjustedPoints(m estimate.Metrics) float64 { return m.AdjustedPoints }

// Named metrics selectable by callers that pass metric names over the wire.
var namedMetrics = map[string]Metric{
	"adjusted_points":   AdjustedPoints,
	"unadjusted_points": func(m estimate.Metrics) float64 { return float64(m.UnadjustedPoints) },
	"effort_hours":      func(m estimate.Metrics) float64 { return m.EffortHours },
	"duration_months":   func(m estimate.Metrics) float64 { return m.DurationMonths },
	"total_cost":        func(m estimate.Metrics) float64 { return m.TotalCost },
}

// MetricByName resolves a metric accessor by its wire name. The empty name
// resolves to the default adjusted function point metric.
func MetricByName(name string) (Metric, bool) {
	if name == "" {
		return AdjustedPoints, true
	}
	m, ok := namedMetrics[name]
	return m, ok
}

// Result is the outcome of a trend analysis.
type Result struct {
	Direction Direction `json:"direction"`
	// PercentageChange is the signed change from the first to the last
	// version, as a percentage of the first.
	PercentageChange float64 `json:"percentage_change"`
}

// Analyze classifies the trend of a metric across versions ordered oldest
// first. The change is measured from the first to the last version of the
// full sequence, not between the last two.
func Analyze(history []estimate.Metrics, metric Metric, thresholdPct float64) (Result, error) {
	if len(history) < 2 {
		return Result{}, ErrInsufficientData
	}
	if metric == nil {
		metric = AdjustedPoints
	}
	if thresholdPct <= 0 {
		thresholdPct = DefaultStabilityThresholdPct
	}

	first := metric(history[0])
	last := metric(history[len(history)-1])
	change := percentageChange(first, last)

	direction := Stable
	if math.Abs(change) >= thresholdPct {
		if change > 0 {
			direction = Increasing
		} else {
			direction = Decreasing
		}
	}

	return Result{Direction: direction, PercentageChange: change}, nil
}

// ConsecutiveChanges computes the pairwise percentage change between each
// adjacent pair of versions. This is display data for comparison reports and
// is distinct from the overall first-to-last trend.
func ConsecutiveChanges(history []estimate.Metrics, metric Metric) []float64 {
	if len(history) < 2 {
		return nil
	}
	if metric == nil {
		metric = AdjustedPoints
	}
	changes := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		changes = append(changes, percentageChange(metric(history[i-1]), metric(history[i])))
	}
	return changes
}

// percentageChange guards the zero baseline: from 0 to 0 is no change, from
// 0 to anything else is reported as a full +/-100% step rather than Inf.
func percentageChange(from, to float64) float64 {
	if from == 0 {
		switch {
		case to > 0:
			return 100
		case to < 0:
			return -100
		default:
			return 0
		}
	}
	return (to - from) / from * 100
}
