package steps

import (
	"context"
	"path/filepath"

	"github.com/clintjedwards/stepper/internal/buildtool"
	"github.com/clintjedwards/stepper/internal/runner"
	"github.com/rs/zerolog/log"
)

const scannerExecutable = "sonar-scanner"

// Analyze runs the static analysis scanner against the workspace and reports to the configured analysis server.
//
// The server address and token are only ever exported to the scanner process itself.
func (s *Steps) Analyze(ctx context.Context) error {
	conf := s.config.Analysis

	name, key := s.analysisProject()

	err := required(
		parameter{"analysis.host_url", conf.HostURL},
		parameter{"analysis.credential_id", conf.CredentialID},
		parameter{"analysis.project_name", name},
		parameter{"analysis.project_key", key},
	)
	if err != nil {
		return err
	}

	credential, err := s.credentials.Get(conf.CredentialID)
	if err != nil {
		return err
	}

	sources := conf.Sources
	if sources == "" {
		sources = "."
	}

	log.Info().Str("server", conf.ServerName).Str("project", key).Msg("running static analysis")

	return s.runner.Run(ctx, runner.Command{
		Name: s.scanner(),
		Args: []string{
			"-Dsonar.projectName=" + name,
			"-Dsonar.projectKey=" + key,
			"-Dsonar.sources=" + sources,
		},
		Env: map[string]string{
			"SONAR_HOST_URL":    conf.HostURL,
			"SONAR_TOKEN":       credential.Secret,
			"SONAR_CONFIG_NAME": conf.ServerName,
		},
		Dir: s.workspace,
	})
}

// analysisProject returns the project name and key. Configured values win, then the job name, then the maven
// coordinates of the workspace.
func (s *Steps) analysisProject() (name, key string) {
	name = s.config.Analysis.ProjectName
	key = s.config.Analysis.ProjectKey

	if name == "" {
		name = s.build.JobName
	}
	if key == "" {
		key = s.build.JobName
	}

	if name != "" && key != "" {
		return name, key
	}

	project, err := buildtool.MavenProject(s.workspace)
	if err != nil {
		return name, key
	}

	if name == "" {
		name = project.Name
		if name == "" {
			name = project.ArtifactID
		}
	}
	if key == "" {
		key = project.ProjectKey()
	}

	return name, key
}

func (s *Steps) scanner() string {
	home := s.config.Analysis.ScannerHome
	if home == "" {
		home = s.build.ScannerHome
	}

	if home == "" {
		return scannerExecutable
	}

	return filepath.Join(home, "bin", scannerExecutable)
}
