// Package imaging defines the interface an image engine must adhere to. An image engine authenticates to a registry,
// builds images from a directory and pushes them.
package imaging

import (
	"context"
	"errors"

	"github.com/clintjedwards/stepper/internal/models"
	"github.com/distribution/reference"
)

type EngineType string

const (
	// EngineDocker uses the local docker daemon.
	EngineDocker EngineType = "docker"
)

// DockerHubServer is the address docker uses for credentials that belong to Docker Hub.
const DockerHubServer = "https://index.docker.io/v1/"

var (
	// ErrAuthentication is returned when the registry rejected the supplied credentials.
	ErrAuthentication = errors.New("imaging: registry authentication failed")

	// ErrBuildFailed is returned when the image builder reported an error while building.
	ErrBuildFailed = errors.New("imaging: image build failed")

	// ErrPushFailed is returned when the registry or daemon reported an error while pushing.
	ErrPushFailed = errors.New("imaging: image push failed")
)

type BuildRequest struct {
	ContextDir string // Directory sent as the build context.
	Dockerfile string // Path of the Dockerfile relative to ContextDir.
	Tag        string // Full reference the image is tagged with.
	Auth       *models.RegistryAuth
}

type PushRequest struct {
	Tag  string
	Auth *models.RegistryAuth
}

type Engine interface {
	// Login verifies the credentials against the registry.
	Login(ctx context.Context, auth *models.RegistryAuth) error

	// Build builds an image and blocks until the build finishes.
	Build(ctx context.Context, request BuildRequest) error

	// Push uploads a previously built tag and blocks until the push finishes.
	Push(ctx context.Context, request PushRequest) error
}

// RegistryHost returns the registry address an image name belongs to. Image names are not validated; anything that
// cannot be parsed is treated as a Docker Hub image and left for the daemon to reject.
func RegistryHost(imageName string) string {
	named, err := reference.ParseNormalizedNamed(imageName)
	if err != nil {
		return DockerHubServer
	}

	domain := reference.Domain(named)
	if domain == "docker.io" || domain == "index.docker.io" {
		return DockerHubServer
	}

	return domain
}
