package config

import (
	"github.com/clintjedwards/stepper/internal/models"
	"github.com/kelseyhightower/envconfig"
)

// InitBuildContext reads the values the CI system exports for the current run.
func InitBuildContext() (*models.BuildContext, error) {
	buildContext := models.BuildContext{}

	err := envconfig.Process("", &buildContext)
	if err != nil {
		return nil, err
	}

	return &buildContext, nil
}
