package step

import (
	"context"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/steps"
	"github.com/spf13/cobra"
)

var CmdCompile = &cobra.Command{
	Use:     "compile",
	Short:   "Compile the project with its build tool",
	Example: `$ stepper compile`,
	RunE:    compile,
}

func compile(_ *cobra.Command, _ []string) error {
	return cl.State.RunStep("compile", false, func(ctx context.Context, steps *steps.Steps) error {
		return steps.Compile(ctx)
	})
}
