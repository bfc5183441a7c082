package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fpakit/fpcost/pkg/estimate"
	"github.com/fpakit/fpcost/pkg/report"
)

// trendInput is the history file: metrics snapshots ordered oldest first.
type trendInput struct {
	History []estimate.Metrics `yaml:"history" json:"history"`
}

func (a *app) trendCmd() *cobra.Command {
	var metric string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "trend <history.yaml>",
		Short: "Classify how an estimate metric moved across versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			input, err := loadTrendInput(args[0])
			if err != nil {
				return err
			}

			t := threshold
			if t <= 0 {
				t = a.policy.Trend.StabilityThresholdPct
			}

			comparison, err := report.BuildComparison(input.History, metric, t)
			if err != nil {
				return err
			}

			switch a.format {
			case "human":
				printComparison(comparison)
				return nil
			case "json":
				return printJSON(comparison)
			default:
				return fmt.Errorf("unknown format: %s (must be human or json)", a.format)
			}
		},
	}

	cmd.Flags().StringVarP(&metric, "metric", "m", "",
		"Metric to analyze: adjusted_points (default), unadjusted_points, effort_hours, duration_months, total_cost")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0,
		"Stability threshold in percent (0 uses the policy value)")

	return cmd
}

func loadTrendInput(path string) (*trendInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var input trendInput
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("parsing history file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("parsing history file: %w", err)
		}
	}
	return &input, nil
}

func printComparison(c report.Comparison) {
	fmt.Printf("ESTIMATE TREND\n")
	fmt.Printf("==============\n\n")
	fmt.Printf("Metric:      %s\n", c.Metric)
	fmt.Printf("Versions:    %d\n", c.Versions)
	fmt.Printf("Direction:   %s\n", strings.ToUpper(string(c.Trend.Direction)))
	fmt.Printf("Change:      %+.2f%% (first to last)\n", c.Trend.PercentageChange)

	if len(c.ConsecutiveChanges) > 0 {
		fmt.Printf("\nVERSION-TO-VERSION\n")
		for i, change := range c.ConsecutiveChanges {
			fmt.Printf("  v%d -> v%d   %+.2f%%\n", i+1, i+2, change)
		}
	}
}
