package step

import (
	"context"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/steps"
	"github.com/spf13/cobra"
)

var CmdAnalyze = &cobra.Command{
	Use:   "analyze",
	Short: "Run static analysis and report to the analysis server",
	Long: `Run static analysis and report to the analysis server.

The project name and key default to the job name. The scanner is taken from SONAR_SCANNER_HOME or
analysis.scanner_home, and looked up on PATH when neither is set.`,
	Example: `$ stepper analyze
$ stepper analyze --job-name billing-service`,
	RunE: analyze,
}

func analyze(_ *cobra.Command, _ []string) error {
	return cl.State.RunStep("analyze", false, func(ctx context.Context, steps *steps.Steps) error {
		return steps.Analyze(ctx)
	})
}
