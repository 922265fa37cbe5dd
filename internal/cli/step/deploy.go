package step

import (
	"context"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/steps"
	"github.com/spf13/cobra"
)

var CmdDeploy = &cobra.Command{
	Use:   "deploy <credential_id> <cluster_url> <project> <image_name>",
	Short: "Point the manifest at this build's image and apply it to a cluster",
	Long: `Point the manifest at this build's image and apply it to a cluster.

Every image line of the configured manifest is rewritten to <image_name>:<build_number>, then every manifest in
the manifest directory is applied with kubectl to the namespace named by project.

The credential is either a token (secret_text) or a username and password. It is written to a short lived
kubeconfig inside the workspace which is removed once kubectl exits.`,
	Example: `$ stepper deploy cluster-token https://k8s.example.com:6443 billing ghcr.io/acme/billing`,
	RunE:    deploy,
	Args:    cobra.ExactArgs(4),
}

func deploy(_ *cobra.Command, args []string) error {
	credentialID, clusterURL, project, imageName := args[0], args[1], args[2], args[3]

	return cl.State.RunStep("deploy", false, func(ctx context.Context, steps *steps.Steps) error {
		return steps.Deploy(ctx, credentialID, clusterURL, project, imageName)
	})
}
