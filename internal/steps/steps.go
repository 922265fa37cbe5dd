// Package steps implements the pipeline steps a CI job calls: checkout, test, compile, analyze, image build, image
// push and deploy.
//
// Every step is stateless and independent. A step validates its parameters, resolves any credential it needs fresh
// from the credential store, then issues exactly one external command (or daemon call) and blocks until it returns.
// Nothing is retried; any failure is returned to the caller, which is expected to fail the pipeline stage.
package steps

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clintjedwards/stepper/internal/config"
	"github.com/clintjedwards/stepper/internal/imaging"
	"github.com/clintjedwards/stepper/internal/models"
	"github.com/clintjedwards/stepper/internal/runner"
)

var (
	// ErrMissingParameter is returned before any external call when a required parameter is empty.
	ErrMissingParameter = errors.New("steps: required parameter missing")

	// ErrMissingBuildNumber is returned by steps that tag images when no build number was supplied.
	ErrMissingBuildNumber = errors.New("steps: build number is required; set BUILD_NUMBER or --build-number")
)

// CredentialResolver turns credential ids into secrets.
type CredentialResolver interface {
	Get(id string) (*models.Credential, error)
	GetUsernamePassword(id string) (*models.Credential, error)
}

type Steps struct {
	config      *config.Config
	build       *models.BuildContext
	workspace   string
	runner      runner.Engine
	images      imaging.Engine
	credentials CredentialResolver
}

// New returns steps bound to a single pipeline run. The workspace is resolved once to an absolute path: the config
// value wins, then the CI supplied workspace, then the current directory.
func New(conf *config.Config, build *models.BuildContext, runner runner.Engine, images imaging.Engine,
	credentials CredentialResolver,
) (*Steps, error) {
	workspace := conf.Workspace
	if workspace == "" {
		workspace = build.Workspace
	}

	if workspace == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		workspace = cwd
	}

	workspace, err := filepath.Abs(workspace)
	if err != nil {
		return nil, err
	}

	return &Steps{
		config:      conf,
		build:       build,
		workspace:   workspace,
		runner:      runner,
		images:      images,
		credentials: credentials,
	}, nil
}

// Workspace returns the absolute directory every step runs in.
func (s *Steps) Workspace() string {
	return s.workspace
}

// path resolves a workspace relative path.
func (s *Steps) path(elem ...string) string {
	return filepath.Join(append([]string{s.workspace}, elem...)...)
}

// parameter pairs a parameter name with its value for validation.
type parameter struct {
	name  string
	value string
}

func required(params ...parameter) error {
	for _, param := range params {
		if param.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingParameter, param.name)
		}
	}

	return nil
}

func (s *Steps) requireBuildNumber() error {
	if s.build.Number <= 0 {
		return ErrMissingBuildNumber
	}

	return nil
}
