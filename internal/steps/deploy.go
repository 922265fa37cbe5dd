package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clintjedwards/stepper/internal/kube"
	"github.com/clintjedwards/stepper/internal/manifest"
	"github.com/clintjedwards/stepper/internal/models"
	"github.com/clintjedwards/stepper/internal/runner"
	"github.com/rs/zerolog/log"
)

// Deploy points the workspace manifest at <imageName>:<buildNumber> and applies the manifest directory to the
// project namespace of the cluster.
//
// The kubeconfig handed to kubectl lives inside the workspace for the duration of the apply only. Its path is passed
// relative to the workspace so the same command works whether kubectl runs locally or in a container.
func (s *Steps) Deploy(ctx context.Context, credentialID, clusterURL, project, imageName string) error {
	conf := s.config.Deploy

	err := required(
		parameter{"credential id", credentialID},
		parameter{"cluster url", clusterURL},
		parameter{"project", project},
		parameter{"image name", imageName},
	)
	if err != nil {
		return err
	}

	err = s.requireBuildNumber()
	if err != nil {
		return err
	}

	credential, err := s.credentials.Get(credentialID)
	if err != nil {
		return err
	}

	kubeconfig := s.KubeconfigPath()
	err = kube.WriteKubeconfig(s.path(kubeconfig), kube.Target{
		Server:                clusterURL,
		Namespace:             project,
		InsecureSkipTLSVerify: conf.InsecureSkipTLSVerify,
		Credential:            credential,
	})
	if err != nil {
		return err
	}
	defer func() {
		err := os.Remove(s.path(kubeconfig))
		if err != nil {
			log.Warn().Err(err).Str("path", kubeconfig).Msg("could not remove kubeconfig")
		}
	}()

	ref := models.ImageTag(imageName, s.build.Number)
	manifestPath := s.path(conf.ManifestDir, conf.ManifestFile)

	rewritten, err := manifest.RewriteImage(manifestPath, ref)
	switch {
	case errors.Is(err, manifest.ErrNoImageReference) && !conf.StrictImageRewrite:
		log.Warn().Str("manifest", manifestPath).Msg("manifest has no image line; applying it unchanged")
	case err != nil:
		return err
	default:
		log.Info().Str("manifest", manifestPath).Str("image", ref).Int("lines", rewritten).Msg("updated manifest image")
	}

	log.Info().Str("cluster", clusterURL).Str("namespace", project).Msg("applying manifests")

	return s.runner.Run(ctx, runner.Command{
		Name: "kubectl",
		Args: []string{"--kubeconfig", kubeconfig, "--namespace", project, "apply", "-f", conf.ManifestDir},
		Dir:  s.workspace,
	})
}

// KubeconfigPath returns the workspace relative path of the kubeconfig a deploy writes.
func (s *Steps) KubeconfigPath() string {
	return filepath.Join(s.config.Deploy.ScratchDir, fmt.Sprintf("kubeconfig-%d", s.build.Number))
}
