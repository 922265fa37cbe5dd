// Package step contains the commands for every pipeline step that does not deal with images.
package step

import (
	"context"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/steps"
	"github.com/spf13/cobra"
)

var CmdCheckout = &cobra.Command{
	Use:   "checkout",
	Short: "Clone the configured repository into the workspace",
	Long: `Clone the configured repository into the workspace.

The repository url, branch and credential are read from the checkout section of the configuration. The
credential is passed to git through its environment and never appears on the command line.`,
	Example: `$ stepper checkout
$ STEPPER_CHECKOUT__BRANCH=release stepper checkout`,
	RunE: checkout,
}

func checkout(_ *cobra.Command, _ []string) error {
	return cl.State.RunStep("checkout", false, func(ctx context.Context, steps *steps.Steps) error {
		return steps.Checkout(ctx)
	})
}
