package report

import (
	"errors"
	"math"
	"testing"

	"github.com/fpakit/fpcost/pkg/estimate"
	"github.com/fpakit/fpcost/pkg/fpa"
	"github.com/fpakit/fpcost/pkg/trend"
)

func sampleComponents() []fpa.Component {
	return []fpa.Component{
		{Kind: fpa.InternalFile, RecordTypes: 2, DataElements: 20},          // average, 10
		{Kind: fpa.InternalFile, RecordTypes: 6, DataElements: 51},          // high, 15
		{Kind: fpa.ExternalInput, FileTypesReferenced: 2, DataElements: 12}, // average, 4
		{Kind: fpa.ExternalQuery, FileTypesReferenced: 1, DataElements: 5},  // low, 3
	}
}

func sampleConfig() estimate.Config {
	return estimate.Config{TeamSize: 5, HourlyRate: 150, DailyWorkingHours: 8, ProductivityFactor: 10}
}

func TestComponentBreakdown(t *testing.T) {
	classified, err := fpa.ClassifyAll(sampleComponents())
	if err != nil {
		t.Fatalf("ClassifyAll returned error: %v", err)
	}

	b := ComponentBreakdown(classified)

	if b.TotalCount != 4 {
		t.Errorf("TotalCount = %d, want 4", b.TotalCount)
	}
	if b.TotalPoints != 32 {
		t.Errorf("TotalPoints = %d, want 32", b.TotalPoints)
	}
	if len(b.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(b.Rows))
	}

	// Canonical order: ALI before EI before EQ.
	if b.Rows[0].Kind != fpa.InternalFile || b.Rows[0].Count != 2 || b.Rows[0].Points != 25 {
		t.Errorf("row 0 = %+v, want ALI count 2 points 25", b.Rows[0])
	}
	wantPct := 25.0 / 32.0 * 100
	if math.Abs(b.Rows[0].Percentage-wantPct) > 1e-9 {
		t.Errorf("row 0 percentage = %g, want %g", b.Rows[0].Percentage, wantPct)
	}
	if b.Rows[1].Kind != fpa.ExternalInput {
		t.Errorf("row 1 kind = %s, want EI", b.Rows[1].Kind)
	}
	if b.Rows[2].Kind != fpa.ExternalQuery {
		t.Errorf("row 2 kind = %s, want EQ", b.Rows[2].Kind)
	}
}

func TestComplexityBreakdown(t *testing.T) {
	classified, err := fpa.ClassifyAll(sampleComponents())
	if err != nil {
		t.Fatalf("ClassifyAll returned error: %v", err)
	}

	b := ComplexityBreakdown(classified)

	if len(b.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(b.Rows))
	}
	// Canonical order: low, average, high.
	if b.Rows[0].Tier != fpa.Low || b.Rows[0].Points != 3 {
		t.Errorf("row 0 = %+v, want low with 3 points", b.Rows[0])
	}
	if b.Rows[1].Tier != fpa.Average || b.Rows[1].Points != 14 {
		t.Errorf("row 1 = %+v, want average with 14 points", b.Rows[1])
	}
	if b.Rows[2].Tier != fpa.High || b.Rows[2].Points != 15 {
		t.Errorf("row 2 = %+v, want high with 15 points", b.Rows[2])
	}
}

func TestBreakdownEmptyComponents(t *testing.T) {
	b := ComponentBreakdown(nil)
	if b.TotalCount != 0 || b.TotalPoints != 0 || len(b.Rows) != 0 {
		t.Errorf("got %+v, want empty breakdown", b)
	}

	// Percentage must be 0 for a zero total, not a division error.
	c := ComplexityBreakdown(nil)
	for _, row := range c.Rows {
		if row.Percentage != 0 {
			t.Errorf("percentage = %g, want 0", row.Percentage)
		}
	}
}

func TestBuildSummary(t *testing.T) {
	summary, err := BuildSummary(sampleComponents(), nil, sampleConfig(), estimate.DefaultTeamSizePolicy())
	if err != nil {
		t.Fatalf("BuildSummary returned error: %v", err)
	}

	if summary.Metrics.UnadjustedPoints != 32 {
		t.Errorf("UnadjustedPoints = %d, want 32", summary.Metrics.UnadjustedPoints)
	}
	if summary.Metrics.AdjustmentFactor != 1.0 {
		t.Errorf("AdjustmentFactor = %g, want 1.0", summary.Metrics.AdjustmentFactor)
	}
	if summary.TeamSize.Recommended < 1 {
		t.Errorf("Recommended team size = %d, want >= 1", summary.TeamSize.Recommended)
	}
	if summary.Risk.Overall == "" {
		t.Error("risk assessment missing")
	}
	if summary.Components.TotalPoints != summary.Complexity.TotalPoints {
		t.Errorf("breakdown totals disagree: %d != %d",
			summary.Components.TotalPoints, summary.Complexity.TotalPoints)
	}
}

func TestBuildSummaryEmptySystem(t *testing.T) {
	summary, err := BuildSummary(nil, nil, sampleConfig(), estimate.DefaultTeamSizePolicy())
	if err != nil {
		t.Fatalf("BuildSummary returned error: %v", err)
	}

	if summary.Metrics.UnadjustedPoints != 0 {
		t.Errorf("UnadjustedPoints = %d, want 0", summary.Metrics.UnadjustedPoints)
	}
	// No points means no sizing; the zero recommendation is the result.
	if summary.TeamSize.Recommended != 0 {
		t.Errorf("Recommended = %d, want 0", summary.TeamSize.Recommended)
	}
	// The quality score should flag the empty component list.
	if summary.Risk.QualityScore == 100 {
		t.Error("QualityScore = 100, want a penalty for the empty system")
	}
}

func TestBuildSummaryInvalidComponent(t *testing.T) {
	components := []fpa.Component{{Kind: fpa.InternalFile, RecordTypes: 0, DataElements: 10}}
	if _, err := BuildSummary(components, nil, sampleConfig(), estimate.DefaultTeamSizePolicy()); !errors.Is(err, fpa.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildDetailed(t *testing.T) {
	detailed, err := BuildDetailed(sampleComponents(), nil, sampleConfig(), estimate.DefaultTeamSizePolicy())
	if err != nil {
		t.Fatalf("BuildDetailed returned error: %v", err)
	}

	if len(detailed.Classified) != 4 {
		t.Fatalf("got %d classified components, want 4", len(detailed.Classified))
	}
	if detailed.Classified[0].Tier != fpa.Average {
		t.Errorf("first component tier = %s, want average", detailed.Classified[0].Tier)
	}
	if detailed.Metrics.UnadjustedPoints != 32 {
		t.Errorf("UnadjustedPoints = %d, want 32", detailed.Metrics.UnadjustedPoints)
	}
}

func TestBuildComparison(t *testing.T) {
	h := []estimate.Metrics{
		{AdjustedPoints: 100},
		{AdjustedPoints: 105},
		{AdjustedPoints: 98},
	}

	comparison, err := BuildComparison(h, "", trend.DefaultStabilityThresholdPct)
	if err != nil {
		t.Fatalf("BuildComparison returned error: %v", err)
	}

	if comparison.Metric != "adjusted_points" {
		t.Errorf("Metric = %s, want adjusted_points", comparison.Metric)
	}
	if comparison.Versions != 3 {
		t.Errorf("Versions = %d, want 3", comparison.Versions)
	}
	if comparison.Trend.Direction != trend.Stable {
		t.Errorf("Direction = %s, want stable", comparison.Trend.Direction)
	}
	if len(comparison.ConsecutiveChanges) != 2 {
		t.Fatalf("got %d consecutive changes, want 2", len(comparison.ConsecutiveChanges))
	}
	if math.Abs(comparison.ConsecutiveChanges[0]-5.0) > 1e-9 {
		t.Errorf("first consecutive change = %g, want 5.0", comparison.ConsecutiveChanges[0])
	}
}

func TestBuildComparisonUnknownMetric(t *testing.T) {
	h := []estimate.Metrics{{AdjustedPoints: 100}, {AdjustedPoints: 105}}
	if _, err := BuildComparison(h, "bogus", 5); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestBuildComparisonInsufficientHistory(t *testing.T) {
	if _, err := BuildComparison([]estimate.Metrics{{AdjustedPoints: 100}}, "", 5); !errors.Is(err, trend.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
