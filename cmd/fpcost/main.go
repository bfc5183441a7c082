// Package main implements the fpcost CLI: Function Point Analysis estimates
// from a component inventory file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fpakit/fpcost/internal/policy"
)

// Build variables - set by ldflags.
var (
	GitCommit = "unknown"
	BuildTime = "unknown"
)

type app struct {
	rootCmd    *cobra.Command
	policyPath string
	policy     *policy.Policy
	format     string
}

func newApp() *app {
	a := &app{}

	a.rootCmd = &cobra.Command{
		Use:   "fpcost",
		Short: "Function Point Analysis effort and cost estimation",
		Long: "Estimates software development effort, cost, duration, team size, and risk\n" +
			"from a Function Point Analysis component inventory.",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			pol, err := policy.Load(a.policyPath)
			if err != nil {
				return fmt.Errorf("loading policy: %w", err)
			}
			a.policy = pol
			return nil
		},
	}

	a.rootCmd.PersistentFlags().StringVarP(&a.policyPath, "policy", "p", "",
		"Path to the estimation policy YAML file")
	a.rootCmd.PersistentFlags().StringVarP(&a.format, "format", "f", "human",
		"Output format: human or json")

	a.rootCmd.AddCommand(a.estimateCmd())
	a.rootCmd.AddCommand(a.trendCmd())
	a.rootCmd.AddCommand(a.versionCmd())

	return a
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("fpcost %s (built %s)\n", GitCommit, BuildTime)
		},
	}
}

func main() {
	if err := newApp().rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
