package image

import (
	"context"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/steps"
	"github.com/spf13/cobra"
)

var cmdImagePush = &cobra.Command{
	Use:     "push <credential_id> <image_name>",
	Short:   "Push the image tagged with the build number",
	Example: `$ stepper image push docker-hub acme/billing --build-number 42`,
	RunE:    imagePush,
	Args:    cobra.ExactArgs(2),
}

func init() {
	CmdImage.AddCommand(cmdImagePush)
}

func imagePush(_ *cobra.Command, args []string) error {
	credentialID, imageName := args[0], args[1]

	return cl.State.RunStep("image push", true, func(ctx context.Context, steps *steps.Steps) error {
		return steps.PushImage(ctx, credentialID, imageName)
	})
}
