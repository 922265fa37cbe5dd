package steps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/clintjedwards/stepper/internal/config"
	"github.com/clintjedwards/stepper/internal/credentials"
	"github.com/clintjedwards/stepper/internal/imaging"
	"github.com/clintjedwards/stepper/internal/models"
	"github.com/clintjedwards/stepper/internal/runner"
	"github.com/clintjedwards/stepper/internal/secretStore/env"
)

const testCredentialPrefix = "STEPPERTEST_CREDENTIAL_"

type fakeRunner struct {
	commands []runner.Command
	err      error
	onRun    func(cmd runner.Command)
}

func (f *fakeRunner) Run(_ context.Context, cmd runner.Command) error {
	f.commands = append(f.commands, cmd)
	if f.onRun != nil {
		f.onRun(cmd)
	}
	return f.err
}

type fakeImages struct {
	logins   []models.RegistryAuth
	builds   []imaging.BuildRequest
	pushes   []imaging.PushRequest
	loginErr error
}

func (f *fakeImages) Login(_ context.Context, auth *models.RegistryAuth) error {
	f.logins = append(f.logins, *auth)
	return f.loginErr
}

func (f *fakeImages) Build(_ context.Context, request imaging.BuildRequest) error {
	f.builds = append(f.builds, request)
	return nil
}

func (f *fakeImages) Push(_ context.Context, request imaging.PushRequest) error {
	f.pushes = append(f.pushes, request)
	return nil
}

// calls is the number of external operations a step issued.
func (f *fakeImages) calls() int {
	return len(f.logins) + len(f.builds) + len(f.pushes)
}

// newTestSteps returns steps over a temporary workspace with credentials supplied through the environment.
func newTestSteps(t *testing.T, build models.BuildContext) (*Steps, *fakeRunner, *fakeImages) {
	t.Helper()

	t.Setenv(testCredentialPrefix+"REGISTRY__USERNAME", "deployer")
	t.Setenv(testCredentialPrefix+"REGISTRY__SECRET", "hunter2")
	t.Setenv(testCredentialPrefix+"GIT__USERNAME", "ci-bot")
	t.Setenv(testCredentialPrefix+"GIT__SECRET", "ghp_checkout")
	t.Setenv(testCredentialPrefix+"GIT_TOKEN__SECRET", "ghp_tokenonly")
	t.Setenv(testCredentialPrefix+"SONAR_TOKEN__SECRET", "squ_analysis")
	t.Setenv(testCredentialPrefix+"CLUSTER__SECRET", "cluster-token")

	store, err := env.New(testCredentialPrefix)
	if err != nil {
		t.Fatal(err)
	}

	conf := config.DefaultConfig()
	conf.Workspace = t.TempDir()

	fakeRun := &fakeRunner{}
	fakeImg := &fakeImages{}

	steps, err := New(conf, &build, fakeRun, fakeImg, credentials.New(&store))
	if err != nil {
		t.Fatal(err)
	}

	return steps, fakeRun, fakeImg
}

func writeWorkspaceFile(t *testing.T, steps *Steps, name, content string) string {
	t.Helper()

	path := steps.path(name)
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		t.Fatal(err)
	}

	err = os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	return path
}

func TestNewWorkspace(t *testing.T) {
	configured := t.TempDir()
	supplied := t.TempDir()

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]struct {
		configured string
		supplied   string
		want       string
	}{
		"config wins":        {configured: configured, supplied: supplied, want: configured},
		"ci workspace":       {supplied: supplied, want: supplied},
		"current directory":  {want: cwd},
		"relative is joined": {configured: "subdir", want: filepath.Join(cwd, "subdir")},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			conf := config.DefaultConfig()
			conf.Workspace = tc.configured

			steps, err := New(conf, &models.BuildContext{Workspace: tc.supplied}, &fakeRunner{}, &fakeImages{}, nil)
			if err != nil {
				t.Fatal(err)
			}

			if steps.Workspace() != tc.want {
				t.Errorf("expected workspace %q; got %q", tc.want, steps.Workspace())
			}
		})
	}
}
