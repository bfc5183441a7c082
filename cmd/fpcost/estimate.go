package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fpakit/fpcost/pkg/estimate"
	"github.com/fpakit/fpcost/pkg/fpa"
	"github.com/fpakit/fpcost/pkg/report"
)

// estimateInput is the YAML inventory file: the components to count, an
// optional GSC vector, and the estimate configuration.
type estimateInput struct {
	Components []fpa.Component  `yaml:"components" json:"components"`
	GSC        []int            `yaml:"gsc" json:"gsc"`
	Config     *estimate.Config `yaml:"config" json:"config"`
}

func (a *app) estimateCmd() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "estimate <inventory.yaml>",
		Short: "Calculate a full estimate from a component inventory file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			input, err := loadEstimateInput(args[0])
			if err != nil {
				return err
			}

			// Inventory config overlays the policy defaults; omitted fields
			// keep the policy values.
			cfg := a.policy.Defaults
			if input.Config != nil {
				if input.Config.TeamSize != 0 {
					cfg.TeamSize = input.Config.TeamSize
				}
				if input.Config.HourlyRate != 0 {
					cfg.HourlyRate = input.Config.HourlyRate
				}
				if input.Config.DailyWorkingHours != 0 {
					cfg.DailyWorkingHours = input.Config.DailyWorkingHours
				}
				if input.Config.ProductivityFactor != 0 {
					cfg.ProductivityFactor = input.Config.ProductivityFactor
				}
			}

			result, err := report.BuildDetailed(input.Components, fpa.GSCVector(input.GSC), cfg, a.policy.TeamSize)
			if err != nil {
				return err
			}
			if !detailed {
				result.Classified = nil
			}

			switch a.format {
			case "human":
				printEstimate(result, args[0])
				return nil
			case "json":
				return printJSON(result)
			default:
				return fmt.Errorf("unknown format: %s (must be human or json)", a.format)
			}
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false,
		"Include per-component classifications in JSON output")

	return cmd
}

func loadEstimateInput(path string) (*estimateInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory file: %w", err)
	}

	var input estimateInput
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("parsing inventory file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("parsing inventory file: %w", err)
		}
	}
	return &input, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printEstimate outputs an itemized estimate in human-readable form.
// Rounding to two decimals happens here, at presentation, and nowhere else.
func printEstimate(r report.Detailed, path string) {
	m := r.Metrics

	fmt.Printf("FUNCTION POINT ANALYSIS\n")
	fmt.Printf("=======================\n\n")
	fmt.Printf("Inventory:   %s\n\n", path)

	fmt.Printf("FUNCTION POINTS\n")
	fmt.Printf("  Unadjusted (PFNA)           %10d\n", m.UnadjustedPoints)
	fmt.Printf("  Degree of Influence (NI)    %10d\n", m.DegreeOfInfluence)
	fmt.Printf("  Adjustment Factor (FA)      %10.2f\n", m.AdjustmentFactor)
	fmt.Printf("  Adjusted (PFA)              %10.2f\n\n", m.AdjustedPoints)

	fmt.Printf("COMPONENTS\n")
	for _, row := range r.Components.Rows {
		fmt.Printf("  %-4s %3d components          %10d pts   (%.2f%%)\n",
			row.Kind, row.Count, row.Points, row.Percentage)
	}
	fmt.Printf("  ---\n")
	fmt.Printf("  Total %2d components         %10d pts\n\n",
		r.Components.TotalCount, r.Components.TotalPoints)

	fmt.Printf("COMPLEXITY\n")
	for _, row := range r.Complexity.Rows {
		fmt.Printf("  %-8s %3d components      %10d pts   (%.2f%%)\n",
			row.Tier, row.Count, row.Points, row.Percentage)
	}
	fmt.Printf("\n")

	fmt.Printf("EFFORT & DURATION\n")
	fmt.Printf("  Effort                      %10.2f hrs\n", m.EffortHours)
	fmt.Printf("  Duration                    %10.2f days (%.2f weeks, %.2f months)\n",
		m.DurationDays, m.DurationWeeks, m.DurationMonths)
	fmt.Printf("  Hours per Person            %10.2f hrs\n\n", m.HoursPerPerson)

	fmt.Printf("COST\n")
	fmt.Printf("  Total                       $%10.2f\n", m.TotalCost)
	fmt.Printf("  Per Function Point          $%10.2f\n", m.CostPerFunctionPoint)
	fmt.Printf("  Per Person                  $%10.2f\n\n", m.CostPerPerson)

	ts := r.TeamSize
	fmt.Printf("TEAM SIZE\n")
	fmt.Printf("  Recommended                 %10d   (%.2f months)\n",
		ts.Recommended, ts.RecommendedDurationMonths)
	fmt.Printf("  Range                       %7d-%-3d (%.2f-%.2f months)\n\n",
		ts.Min, ts.Max, ts.MinDurationMonths, ts.MaxDurationMonths)

	fmt.Printf("RISK: %s (score %d, quality %d/100)\n",
		strings.ToUpper(string(r.Risk.Overall)), r.Risk.Score, r.Risk.QualityScore)
	for _, f := range r.Risk.Factors {
		fmt.Printf("  %-12s %-6s  %s\n", f.Factor, f.Level, f.Reason)
	}
	if len(r.Risk.Recommendations) > 0 {
		fmt.Printf("\nRECOMMENDATIONS\n")
		for _, rec := range r.Risk.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	for _, w := range r.Risk.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	for _, e := range r.Risk.Errors {
		fmt.Printf("  error: %s\n", e)
	}
}
