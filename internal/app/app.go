// Package app wires the configured engines together into ready to run steps.
package app

import (
	"fmt"
	"os"

	"github.com/clintjedwards/stepper/internal/config"
	"github.com/clintjedwards/stepper/internal/credentials"
	"github.com/clintjedwards/stepper/internal/imaging"
	imagingdocker "github.com/clintjedwards/stepper/internal/imaging/docker"
	"github.com/clintjedwards/stepper/internal/models"
	"github.com/clintjedwards/stepper/internal/runner"
	runnerdocker "github.com/clintjedwards/stepper/internal/runner/docker"
	"github.com/clintjedwards/stepper/internal/runner/local"
	"github.com/clintjedwards/stepper/internal/secretStore"
	"github.com/clintjedwards/stepper/internal/secretStore/env"
	"github.com/clintjedwards/stepper/internal/secretStore/sqlite"
	"github.com/clintjedwards/stepper/internal/steps"
	"github.com/rs/zerolog/log"
)

// NewSteps initializes every engine the steps need. The image builder is only created when withImaging is set.
// Nothing external is contacted here: the secret store is opened on the first credential lookup and docker is
// reached on first use, so a step that fails validation makes no external call.
func NewSteps(conf *config.Config, build *models.BuildContext, withImaging bool) (*steps.Steps, error) {
	credentialStore := &lazyCredentials{conf: &conf.SecretStore}

	newRunner, err := initRunner(&conf.Runner)
	if err != nil {
		return nil, fmt.Errorf("could not init runner: %w", err)
	}

	log.Debug().Str("engine", conf.Runner.Engine).Msg("runner engine initialized")

	var newImaging imaging.Engine
	if withImaging {
		newImaging, err = initImaging()
		if err != nil {
			return nil, fmt.Errorf("could not init image builder: %w", err)
		}

		log.Debug().Str("engine", string(imaging.EngineDocker)).Msg("image engine initialized")
	}

	return steps.New(conf, build, newRunner, newImaging, credentialStore)
}

// lazyCredentials opens the configured secret store on the first lookup.
type lazyCredentials struct {
	conf  *config.SecretStore
	store *credentials.Store
}

func (l *lazyCredentials) open() (*credentials.Store, error) {
	if l.store != nil {
		return l.store, nil
	}

	store, err := NewCredentialStore(l.conf)
	if err != nil {
		return nil, fmt.Errorf("could not init secret store: %w", err)
	}

	log.Debug().Str("engine", l.conf.Engine).Msg("secret store engine initialized")

	l.store = store
	return store, nil
}

func (l *lazyCredentials) Get(id string) (*models.Credential, error) {
	store, err := l.open()
	if err != nil {
		return nil, err
	}

	return store.Get(id)
}

func (l *lazyCredentials) GetUsernamePassword(id string) (*models.Credential, error) {
	store, err := l.open()
	if err != nil {
		return nil, err
	}

	return store.GetUsernamePassword(id)
}

// NewCredentialStore returns the credential store backed by the configured secret engine.
func NewCredentialStore(conf *config.SecretStore) (*credentials.Store, error) {
	engine, err := initSecretStore(conf)
	if err != nil {
		return nil, err
	}

	return credentials.New(engine), nil
}

func initSecretStore(conf *config.SecretStore) (secretStore.Engine, error) {
	switch secretStore.EngineType(conf.Engine) {
	case secretStore.EngineSqlite:
		engine, err := sqlite.New(conf.Sqlite.Path, conf.Sqlite.EncryptionKey)
		if err != nil {
			return nil, err
		}

		return &engine, nil
	case secretStore.EngineEnv:
		engine, err := env.New(conf.Env.Prefix)
		if err != nil {
			return nil, err
		}

		return &engine, nil
	default:
		return nil, fmt.Errorf("secret store backend %q not implemented", conf.Engine)
	}
}

func initRunner(conf *config.Runner) (runner.Engine, error) {
	switch runner.EngineType(conf.Engine) {
	case runner.EngineLocal:
		engine := local.New(os.Stdout, os.Stderr)
		return &engine, nil
	case runner.EngineDocker:
		engine, err := runnerdocker.New(conf.Docker.Images, conf.Docker.AlwaysPull, os.Stdout, os.Stderr)
		if err != nil {
			return nil, err
		}

		return &engine, nil
	default:
		return nil, fmt.Errorf("runner backend %q not implemented", conf.Engine)
	}
}

func initImaging() (imaging.Engine, error) {
	engine, err := imagingdocker.New(os.Stdout)
	if err != nil {
		return nil, err
	}

	return &engine, nil
}
