// Package estimate derives effort, duration, cost, and team size metrics
// from adjusted function point counts.
package estimate

import (
	"errors"
	"fmt"

	"github.com/fpakit/fpcost/pkg/fpa"
)

// ErrInvalidConfig marks an estimate configuration that fails validation.
var ErrInvalidConfig = errors.New("invalid estimate configuration")

// ConfigError describes which configuration field was rejected.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidConfig).
func (*ConfigError) Unwrap() error { return ErrInvalidConfig }

// Working-time conventions used for calendar conversions.
const (
	workingDaysPerWeek  = 5.0
	workingDaysPerMonth = 21.0
)

// Config holds the team and productivity parameters for an estimate.
type Config struct {
	// TeamSize is the planned number of people (1-100).
	TeamSize int `json:"team_size" yaml:"team_size"`

	// HourlyRate is the blended cost per person-hour.
	HourlyRate float64 `json:"hourly_rate" yaml:"hourly_rate"`

	// DailyWorkingHours is the working hours per person per day (1-24, default 8).
	DailyWorkingHours float64 `json:"daily_working_hours" yaml:"daily_working_hours"`

	// ProductivityFactor is the hours of effort per function point (1-100, default 10).
	ProductivityFactor float64 `json:"productivity_factor" yaml:"productivity_factor"`
}

// DefaultConfig returns an estimate configuration with standard values.
// TeamSize and HourlyRate have no sensible universal default and must be set
// by the caller.
func DefaultConfig() Config {
	return Config{
		DailyWorkingHours:  8,
		ProductivityFactor: 10,
	}
}

// Validate checks every field upfront and returns the first violation.
func (c Config) Validate() error {
	if c.TeamSize < 1 || c.TeamSize > 100 {
		return &ConfigError{Field: "team_size", Reason: fmt.Sprintf("must be 1-100, got %d", c.TeamSize)}
	}
	if c.HourlyRate <= 0 {
		return &ConfigError{Field: "hourly_rate", Reason: fmt.Sprintf("must be positive, got %g", c.HourlyRate)}
	}
	if c.DailyWorkingHours < 1 || c.DailyWorkingHours > 24 {
		return &ConfigError{Field: "daily_working_hours", Reason: fmt.Sprintf("must be 1-24, got %g", c.DailyWorkingHours)}
	}
	if c.ProductivityFactor < 1 || c.ProductivityFactor > 100 {
		return &ConfigError{Field: "productivity_factor", Reason: fmt.Sprintf("must be 1-100, got %g", c.ProductivityFactor)}
	}
	return nil
}

// Metrics is the fully derived, immutable result of an estimate calculation.
// All floating point values are full precision; rounding for display is the
// presentation layer's concern.
type Metrics struct {
	// Function point counts.
	UnadjustedPoints  int     `json:"unadjusted_points" yaml:"unadjusted_points"`
	DegreeOfInfluence int     `json:"degree_of_influence" yaml:"degree_of_influence"`
	AdjustmentFactor  float64 `json:"adjustment_factor" yaml:"adjustment_factor"`
	AdjustedPoints    float64 `json:"adjusted_points" yaml:"adjusted_points"`

	// Effort and calendar duration.
	EffortHours    float64 `json:"effort_hours" yaml:"effort_hours"`
	DurationDays   float64 `json:"duration_days" yaml:"duration_days"`
	DurationWeeks  float64 `json:"duration_weeks" yaml:"duration_weeks"`
	DurationMonths float64 `json:"duration_months" yaml:"duration_months"`

	// Cost.
	TotalCost            float64 `json:"total_cost" yaml:"total_cost"`
	CostPerFunctionPoint float64 `json:"cost_per_function_point" yaml:"cost_per_function_point"`
	CostPerPerson        float64 `json:"cost_per_person" yaml:"cost_per_person"`
	HoursPerPerson       float64 `json:"hours_per_person" yaml:"hours_per_person"`
}

// EffortHours converts adjusted function points into effort hours.
func EffortHours(pfa, productivityFactor float64) float64 {
	return pfa * productivityFactor
}

// DurationDays converts effort hours into calendar working days for a team.
func DurationDays(effortHours float64, teamSize int, dailyHours float64) (float64, error) {
	if teamSize <= 0 {
		return 0, &ConfigError{Field: "team_size", Reason: "must be positive"}
	}
	if dailyHours <= 0 {
		return 0, &ConfigError{Field: "daily_working_hours", Reason: "must be positive"}
	}
	return effortHours / (float64(teamSize) * dailyHours), nil
}

// Compute derives the full metric set for a set of classified components, an
// optional GSC vector, and a validated configuration. It is a pure function:
// recomputing from the same inputs always reproduces the same metrics.
func Compute(components []fpa.Classified, gsc fpa.GSCVector, cfg Config) (Metrics, error) {
	if err := cfg.Validate(); err != nil {
		return Metrics{}, err
	}

	pfna := fpa.Unadjusted(components)
	ni, err := fpa.DegreeOfInfluence(gsc)
	if err != nil {
		return Metrics{}, err
	}
	fa, err := fpa.AdjustmentFactor(gsc)
	if err != nil {
		return Metrics{}, err
	}
	pfa := fpa.Adjusted(pfna, fa)

	effortHours := EffortHours(pfa, cfg.ProductivityFactor)
	durationDays, err := DurationDays(effortHours, cfg.TeamSize, cfg.DailyWorkingHours)
	if err != nil {
		return Metrics{}, err
	}

	totalCost := effortHours * cfg.HourlyRate

	// A zero-point system has no meaningful unit cost. Return 0 rather than
	// letting the division produce NaN or Inf.
	costPerFP := 0.0
	if pfa > 0 {
		costPerFP = totalCost / pfa
	}

	return Metrics{
		UnadjustedPoints:     pfna,
		DegreeOfInfluence:    ni,
		AdjustmentFactor:     fa,
		AdjustedPoints:       pfa,
		EffortHours:          effortHours,
		DurationDays:         durationDays,
		DurationWeeks:        durationDays / workingDaysPerWeek,
		DurationMonths:       durationDays / workingDaysPerMonth,
		TotalCost:            totalCost,
		CostPerFunctionPoint: costPerFP,
		CostPerPerson:        totalCost / float64(cfg.TeamSize),
		HoursPerPerson:       effortHours / float64(cfg.TeamSize),
	}, nil
}
