// Package risk scores the delivery risk and quality of an estimate.
// Scoring is rule based and fully deterministic: the same metrics and
// configuration always produce the same assessment.
package risk

import (
	"fmt"

	"github.com/fpakit/fpcost/pkg/estimate"
	"github.com/fpakit/fpcost/pkg/fpa"
)

// Level is a qualitative risk bucket.
type Level string

// Risk levels from least to most severe.
const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Factor identifies one risk dimension assessed independently.
type Factor string

// Assessed risk factors.
const (
	FactorTeamSize     Factor = "team_size"
	FactorDuration     Factor = "duration"
	FactorComplexity   Factor = "complexity"
	FactorProductivity Factor = "productivity"
)

// FactorAssessment is one factor's bucket with a human readable reason.
type FactorAssessment struct {
	Factor Factor `json:"factor"`
	Level  Level  `json:"level"`
	Reason string `json:"reason"`
}

// Assessment is the full risk and quality picture for one estimate.
type Assessment struct {
	Overall Level `json:"overall"`
	Score   int   `json:"score"`

	Factors []FactorAssessment `json:"factors"`

	Recommendations []string `json:"recommendations,omitempty"`

	// QualityScore grades how trustworthy the estimate inputs are (0-100).
	QualityScore int      `json:"quality_score"`
	Errors       []string `json:"errors,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Overall score accumulator thresholds.
const (
	scoreHigh   = 4
	scoreMedium = 2
)

// Assess scores an estimate's risk from its metrics, configuration, and
// classified components. The GSC vector is only inspected for presence.
func Assess(m estimate.Metrics, cfg estimate.Config, components []fpa.Classified, gsc fpa.GSCVector) Assessment {
	score := overallScore(m, cfg)

	overall := LevelLow
	switch {
	case score >= scoreHigh:
		overall = LevelHigh
	case score >= scoreMedium:
		overall = LevelMedium
	}

	highShare := highComplexityShare(components)

	a := Assessment{
		Overall: overall,
		Score:   score,
		Factors: []FactorAssessment{
			assessTeamSize(cfg.TeamSize),
			assessDuration(m.DurationMonths),
			assessComplexity(highShare),
			assessProductivity(cfg.ProductivityFactor),
		},
		Recommendations: recommendations(m, cfg, gsc),
	}

	a.QualityScore, a.Errors, a.Warnings = qualityScore(m, cfg, len(components))
	return a
}

// overallScore accumulates fixed penalties per dimension: 0, 1, or 2 each.
func overallScore(m estimate.Metrics, cfg estimate.Config) int {
	score := 0
	switch {
	case cfg.TeamSize > 10:
		score += 2
	case cfg.TeamSize > 5:
		score++
	}
	switch {
	case m.DurationMonths > 12:
		score += 2
	case m.DurationMonths > 6:
		score++
	}
	switch {
	case cfg.ProductivityFactor > 20:
		score += 2
	case cfg.ProductivityFactor > 15:
		score++
	}
	switch {
	case m.TotalCost > 500_000:
		score += 2
	case m.TotalCost > 100_000:
		score++
	}
	return score
}

// highComplexityShare returns the percentage of function points contributed
// by high-tier components. Zero total points means zero share.
func highComplexityShare(components []fpa.Classified) float64 {
	total := 0
	high := 0
	for _, c := range components {
		total += c.Points
		if c.Tier == fpa.High {
			high += c.Points
		}
	}
	if total == 0 {
		return 0
	}
	return float64(high) / float64(total) * 100
}

func assessTeamSize(teamSize int) FactorAssessment {
	switch {
	case teamSize <= 3:
		return FactorAssessment{FactorTeamSize, LevelLow, "small team keeps coordination overhead minimal"}
	case teamSize <= 8:
		return FactorAssessment{FactorTeamSize, LevelMedium, "mid-sized team requires deliberate coordination"}
	default:
		return FactorAssessment{FactorTeamSize, LevelHigh, "large team carries significant communication overhead"}
	}
}

func assessDuration(months float64) FactorAssessment {
	switch {
	case months <= 3:
		return FactorAssessment{FactorDuration, LevelLow, "short delivery window limits requirement drift"}
	case months <= 12:
		return FactorAssessment{FactorDuration, LevelMedium, "multi-month delivery is exposed to scope change"}
	default:
		return FactorAssessment{FactorDuration, LevelHigh, "delivery beyond a year invites major requirement churn"}
	}
}

func assessComplexity(highSharePct float64) FactorAssessment {
	switch {
	case highSharePct <= 20:
		return FactorAssessment{FactorComplexity, LevelLow, "complexity is concentrated in low and average components"}
	case highSharePct <= 40:
		return FactorAssessment{FactorComplexity, LevelMedium, "a notable share of points comes from high complexity components"}
	default:
		return FactorAssessment{FactorComplexity, LevelHigh, "high complexity components dominate the function point count"}
	}
}

func assessProductivity(productivityFactor float64) FactorAssessment {
	switch {
	case productivityFactor <= 12:
		return FactorAssessment{FactorProductivity, LevelLow, "productivity assumption is within industry norms"}
	case productivityFactor <= 18:
		return FactorAssessment{FactorProductivity, LevelMedium, "productivity assumption is on the slow side"}
	default:
		return FactorAssessment{FactorProductivity, LevelHigh, "productivity assumption implies unusually slow delivery"}
	}
}

// recommendations appends fixed advisory strings in check order. Each
// condition appends at most once, so no deduplication is needed.
func recommendations(m estimate.Metrics, cfg estimate.Config, gsc fpa.GSCVector) []string {
	var recs []string
	if cfg.TeamSize > 10 {
		recs = append(recs, "Consider splitting the team: sizes above 10 degrade coordination faster than they add throughput.")
	}
	if m.DurationMonths > 12 {
		recs = append(recs, "Break delivery into phased releases; estimates beyond 12 months rarely survive contact with reality.")
	}
	if cfg.ProductivityFactor > 20 {
		recs = append(recs, "Investigate the productivity assumption: more than 20 hours per function point suggests process friction.")
	}
	if gsc.Empty() {
		recs = append(recs, "Complete the 14 general system characteristics; the count is currently unadjusted.")
	}
	if m.TotalCost > 500_000 {
		recs = append(recs, "Total cost is high enough to justify an independent estimate review before commitment.")
	}
	return recs
}

// Quality score penalties.
const (
	penaltyBadTeamSize   = 20
	penaltyBadRate       = 20
	penaltyShortDuration = 10
	penaltyProductivity  = 5
	penaltyNoComponents  = 15
)

// qualityScore grades the estimate inputs from 100 down, with the reasons
// split into hard errors (invalid configuration) and soft warnings
// (plausible but suspicious values).
func qualityScore(m estimate.Metrics, cfg estimate.Config, componentCount int) (score int, errs, warnings []string) {
	score = 100

	if cfg.TeamSize < 1 || cfg.TeamSize > 100 {
		score -= penaltyBadTeamSize
		errs = append(errs, fmt.Sprintf("team size %d is outside the valid 1-100 range", cfg.TeamSize))
	}
	if cfg.HourlyRate <= 0 {
		score -= penaltyBadRate
		errs = append(errs, fmt.Sprintf("hourly rate %g is not positive", cfg.HourlyRate))
	}
	if m.DurationDays < 1 {
		score -= penaltyShortDuration
		warnings = append(warnings, "estimated duration is under one working day")
	}
	if cfg.ProductivityFactor < 5 {
		score -= penaltyProductivity
		warnings = append(warnings, "productivity factor below 5 hours per function point is unusually optimistic")
	}
	if cfg.ProductivityFactor > 25 {
		score -= penaltyProductivity
		warnings = append(warnings, "productivity factor above 25 hours per function point is unusually pessimistic")
	}
	if componentCount == 0 {
		score -= penaltyNoComponents
		warnings = append(warnings, "no components are defined; the estimate is empty")
	}

	if score < 0 {
		score = 0
	}
	return score, errs, warnings
}
