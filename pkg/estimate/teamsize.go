package estimate

import (
	"fmt"
	"math"
)

// TeamSizePolicy holds the tunable constants for team size recommendation.
// These are planning policy, not counting rules, and deployments may override
// them via configuration.
type TeamSizePolicy struct {
	// TargetMonths is the delivery duration band the recommended size aims for.
	TargetMonths float64 `json:"target_months" yaml:"target_months"`

	// SizeBound scales the recommended size into the min/max range
	// (0.40 means -40%/+40%).
	SizeBound float64 `json:"size_bound" yaml:"size_bound"`

	// HoursPerDay is the productive hours per person per day assumed for
	// sizing. Deliberately lower than the 8-hour working day used for cost
	// and duration: sizing plans around focused hours, not clocked hours.
	HoursPerDay float64 `json:"hours_per_day" yaml:"hours_per_day"`
}

// DefaultTeamSizePolicy returns the standard sizing policy: a 3 month
// delivery target, a 40% size band, and 6 productive hours per day.
func DefaultTeamSizePolicy() TeamSizePolicy {
	return TeamSizePolicy{
		TargetMonths: 3,
		SizeBound:    0.40,
		HoursPerDay:  6,
	}
}

// TeamSizeRecommendation is the recommended team size with its feasible
// bounds and the delivery duration each bound implies. Larger teams finish
// sooner: MinDurationMonths pairs with Max size and MaxDurationMonths with
// Min size.
type TeamSizeRecommendation struct {
	Recommended int `json:"recommended"`
	Min         int `json:"min"`
	Max         int `json:"max"`

	RecommendedDurationMonths float64 `json:"recommended_duration_months"`
	MinDurationMonths         float64 `json:"min_duration_months"`
	MaxDurationMonths         float64 `json:"max_duration_months"`
}

// RecommendTeamSize derives a team size recommendation from adjusted
// function points and a productivity factor, under the given sizing policy.
func RecommendTeamSize(pfa, productivityFactor float64, policy TeamSizePolicy) (TeamSizeRecommendation, error) {
	if pfa <= 0 {
		return TeamSizeRecommendation{}, &ConfigError{Field: "adjusted_points", Reason: fmt.Sprintf("must be positive, got %g", pfa)}
	}
	if productivityFactor <= 0 {
		return TeamSizeRecommendation{}, &ConfigError{Field: "productivity_factor", Reason: fmt.Sprintf("must be positive, got %g", productivityFactor)}
	}
	if policy.HoursPerDay <= 0 {
		return TeamSizeRecommendation{}, &ConfigError{Field: "hours_per_day", Reason: fmt.Sprintf("must be positive, got %g", policy.HoursPerDay)}
	}

	baseEffortHours := pfa * productivityFactor
	monthlyHoursPerPerson := policy.HoursPerDay * workingDaysPerMonth

	recommended := int(math.Ceil(baseEffortHours / (monthlyHoursPerPerson * policy.TargetMonths)))
	if recommended < 1 {
		recommended = 1
	}

	minSize := int(math.Floor(float64(recommended) * (1 - policy.SizeBound)))
	if minSize < 1 {
		minSize = 1
	}
	maxSize := int(math.Ceil(float64(recommended) * (1 + policy.SizeBound)))
	if maxSize < 1 {
		maxSize = 1
	}

	months := func(teamSize int) float64 {
		return baseEffortHours / (monthlyHoursPerPerson * float64(teamSize))
	}

	return TeamSizeRecommendation{
		Recommended:               recommended,
		Min:                       minSize,
		Max:                       maxSize,
		RecommendedDurationMonths: months(recommended),
		// The inverse relationship: the largest feasible team gives the
		// shortest duration and vice versa.
		MinDurationMonths: months(maxSize),
		MaxDurationMonths: months(minSize),
	}, nil
}
