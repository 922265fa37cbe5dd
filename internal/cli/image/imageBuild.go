package image

import (
	"context"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/steps"
	"github.com/spf13/cobra"
)

var cmdImageBuild = &cobra.Command{
	Use:     "build <credential_id> <image_name>",
	Short:   "Build the workspace image tagged with the build number",
	Example: `$ BUILD_NUMBER=42 stepper image build docker-hub acme/billing`,
	RunE:    imageBuild,
	Args:    cobra.ExactArgs(2),
}

func init() {
	CmdImage.AddCommand(cmdImageBuild)
}

func imageBuild(_ *cobra.Command, args []string) error {
	credentialID, imageName := args[0], args[1]

	return cl.State.RunStep("image build", true, func(ctx context.Context, steps *steps.Steps) error {
		return steps.BuildImage(ctx, credentialID, imageName)
	})
}
