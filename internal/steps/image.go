package steps

import (
	"context"

	"github.com/clintjedwards/stepper/internal/imaging"
	"github.com/clintjedwards/stepper/internal/models"
	"github.com/rs/zerolog/log"
)

// BuildImage builds the workspace's image and tags it <imageName>:<buildNumber>. The registry credential is used
// to pull base images.
func (s *Steps) BuildImage(ctx context.Context, credentialID, imageName string) error {
	auth, err := s.registryAuth(credentialID, imageName)
	if err != nil {
		return err
	}

	err = s.images.Login(ctx, auth)
	if err != nil {
		return err
	}

	tag := models.ImageTag(imageName, s.build.Number)

	log.Info().Str("tag", tag).Str("dockerfile", s.config.Registry.Dockerfile).Msg("building image")

	return s.images.Build(ctx, imaging.BuildRequest{
		ContextDir: s.path(s.config.Registry.ContextDir),
		Dockerfile: s.config.Registry.Dockerfile,
		Tag:        tag,
		Auth:       auth,
	})
}

// PushImage pushes <imageName>:<buildNumber> to its registry.
func (s *Steps) PushImage(ctx context.Context, credentialID, imageName string) error {
	auth, err := s.registryAuth(credentialID, imageName)
	if err != nil {
		return err
	}

	err = s.images.Login(ctx, auth)
	if err != nil {
		return err
	}

	tag := models.ImageTag(imageName, s.build.Number)

	log.Info().Str("tag", tag).Str("registry", auth.Registry).Msg("pushing image")

	return s.images.Push(ctx, imaging.PushRequest{
		Tag:  tag,
		Auth: auth,
	})
}

// registryAuth validates the image step parameters and resolves the registry credential.
func (s *Steps) registryAuth(credentialID, imageName string) (*models.RegistryAuth, error) {
	err := required(
		parameter{"credential id", credentialID},
		parameter{"image name", imageName},
	)
	if err != nil {
		return nil, err
	}

	err = s.requireBuildNumber()
	if err != nil {
		return nil, err
	}

	credential, err := s.credentials.GetUsernamePassword(credentialID)
	if err != nil {
		return nil, err
	}

	server := s.config.Registry.Server
	if server == "" {
		server = imaging.RegistryHost(imageName)
	}

	return models.NewRegistryAuth(server, credential), nil
}
