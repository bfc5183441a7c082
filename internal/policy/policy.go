// Package policy loads the estimation policy file: the tunable planning
// constants that sit outside the fixed FPA counting rules.
package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/fpakit/fpcost/pkg/estimate"
	"github.com/fpakit/fpcost/pkg/trend"
)

// Policy holds every tunable planning constant. Counting rules (matrices,
// weights, the VAF formula) are deliberately not configurable.
type Policy struct {
	// TeamSize tunes the team size recommendation.
	TeamSize estimate.TeamSizePolicy `yaml:"team_size"`

	// Trend tunes trend classification.
	Trend TrendPolicy `yaml:"trend"`

	// Defaults are the estimate configuration defaults applied when a
	// request omits a value.
	Defaults estimate.Config `yaml:"defaults"`
}

// TrendPolicy tunes trend classification.
type TrendPolicy struct {
	// StabilityThresholdPct is the band within which a metric counts as stable.
	StabilityThresholdPct float64 `yaml:"stability_threshold_pct"`
}

// Default returns the standard policy. Unlike estimate.DefaultConfig, the
// policy defaults must be complete: requests that omit the configuration
// entirely are served with these values, so every field needs a valid one.
func Default() *Policy {
	cfg := estimate.DefaultConfig()
	cfg.TeamSize = 5
	cfg.HourlyRate = 100

	return &Policy{
		TeamSize: estimate.DefaultTeamSizePolicy(),
		Trend:    TrendPolicy{StabilityThresholdPct: trend.DefaultStabilityThresholdPct},
		Defaults: cfg,
	}
}

// Load reads a policy file, layering it over the defaults. Environment
// variables can be referenced in the YAML as ${VAR} or ${VAR:-default}.
// An empty path probes the default locations; if no file is found the
// defaults are returned as-is.
func Load(path string) (*Policy, error) {
	p := Default()

	filePath := resolvePath(path)
	if filePath == "" {
		return p, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading policy file: %w", err)
	}

	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), p); err != nil {
		return nil, fmt.Errorf("parsing policy file: %w", err)
	}

	return p, nil
}

func resolvePath(path string) string {
	if path != "" {
		return path
	}

	defaults := []string{
		"policy.yaml",
		"config/policy.yaml",
		filepath.Join(os.Getenv("HOME"), ".fpcost", "policy.yaml"),
	}
	for _, candidate := range defaults {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// envVarPattern matches ${VAR} or ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// expandEnvVars substitutes environment variable references in the input.
func expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, fallback := groups[1], groups[2]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return fallback
	})
}
