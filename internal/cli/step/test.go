package step

import (
	"context"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/steps"
	"github.com/spf13/cobra"
)

var CmdTest = &cobra.Command{
	Use:   "test",
	Short: "Run the project's tests with its build tool",
	Long: `Run the project's tests with its build tool.

Gradle or maven is detected from the workspace unless build_tool.kind says otherwise. A project's own wrapper
script is preferred when present.`,
	Example: `$ stepper test`,
	RunE:    test,
}

func test(_ *cobra.Command, _ []string) error {
	return cl.State.RunStep("test", false, func(ctx context.Context, steps *steps.Steps) error {
		return steps.RunTests(ctx)
	})
}
