package steps

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clintjedwards/stepper/internal/models"
	"github.com/clintjedwards/stepper/internal/runner"
	"github.com/clintjedwards/stepper/internal/runner/local"
	"github.com/google/go-cmp/cmp"
)

func TestCheckoutAnonymous(t *testing.T) {
	steps, fakeRun, _ := newTestSteps(t, models.BuildContext{})
	steps.config.Checkout.URL = "https://github.com/example/service.git"
	steps.config.Checkout.Branch = "release"

	err := steps.Checkout(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	want := []runner.Command{{
		Name: "git",
		Args: []string{
			"clone", "--branch", "release", "--single-branch", "--",
			"https://github.com/example/service.git", ".",
		},
		Env: map[string]string{"GIT_TERMINAL_PROMPT": "0"},
		Dir: steps.Workspace(),
	}}

	if diff := cmp.Diff(want, fakeRun.commands); diff != "" {
		t.Errorf("result is different than expected(-want +got):\n%s", diff)
	}
}

func TestCheckoutWithCredential(t *testing.T) {
	tests := map[string]struct {
		credentialID string
		wantUser     string
		wantSecret   string
	}{
		"username and password": {credentialID: "git", wantUser: "ci-bot", wantSecret: "ghp_checkout"},
		"token only":            {credentialID: "git-token", wantUser: defaultTokenUser, wantSecret: "ghp_tokenonly"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			steps, fakeRun, _ := newTestSteps(t, models.BuildContext{})
			steps.config.Checkout.URL = "https://github.com/example/service.git"
			steps.config.Checkout.CredentialID = tc.credentialID

			err := steps.Checkout(context.Background())
			if err != nil {
				t.Fatal(err)
			}

			if len(fakeRun.commands) != 1 {
				t.Fatalf("expected exactly one command; got %d", len(fakeRun.commands))
			}
			cmd := fakeRun.commands[0]

			token := base64.StdEncoding.EncodeToString([]byte(tc.wantUser + ":" + tc.wantSecret))
			wantEnv := map[string]string{
				"GIT_TERMINAL_PROMPT": "0",
				"GIT_CONFIG_COUNT":    "1",
				"GIT_CONFIG_KEY_0":    "http.extraHeader",
				"GIT_CONFIG_VALUE_0":  "Authorization: Basic " + token,
			}

			if diff := cmp.Diff(wantEnv, cmd.Env); diff != "" {
				t.Errorf("result is different than expected(-want +got):\n%s", diff)
			}

			for _, arg := range cmd.Args {
				if strings.Contains(arg, tc.wantSecret) || strings.Contains(arg, token) {
					t.Errorf("secret leaked into arguments: %v", cmd.Args)
				}
			}
		})
	}
}

func TestCheckoutFailures(t *testing.T) {
	steps, fakeRun, _ := newTestSteps(t, models.BuildContext{})

	err := steps.Checkout(context.Background())
	if !errors.Is(err, ErrMissingParameter) {
		t.Errorf("expected ErrMissingParameter; got %v", err)
	}

	steps.config.Checkout.URL = "https://github.com/example/service.git"
	steps.config.Checkout.CredentialID = "does-not-exist"

	err = steps.Checkout(context.Background())
	if err == nil || !strings.Contains(err.Error(), "does-not-exist") {
		t.Errorf("expected credential resolution failure naming the id; got %v", err)
	}

	if len(fakeRun.commands) != 0 {
		t.Errorf("expected no commands to run; got %d", len(fakeRun.commands))
	}

	steps.config.Checkout.CredentialID = ""
	fakeRun.err = &runner.ExitError{Command: "git", Code: 128}

	err = steps.Checkout(context.Background())
	exitErr := &runner.ExitError{}
	if !errors.As(err, &exitErr) || exitErr.Code != 128 {
		t.Errorf("expected git exit error to be returned verbatim; got %v", err)
	}

}

func TestCheckoutExistingWorkspace(t *testing.T) {
	tests := map[string]struct {
		files []string
		want  [][]string
	}{
		"previous checkout": {
			files: []string{".git/HEAD"},
			want: [][]string{
				{"fetch", "--no-tags", "https://github.com/example/service.git", "refs/heads/main"},
				{"checkout", "--force", "-B", "main", "FETCH_HEAD"},
			},
		},
		"leftover files": {
			files: []string{".stepper/kubeconfig-41"},
			want: [][]string{
				{"init", "--quiet"},
				{"fetch", "--no-tags", "https://github.com/example/service.git", "refs/heads/main"},
				{"checkout", "--force", "-B", "main", "FETCH_HEAD"},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			steps, fakeRun, _ := newTestSteps(t, models.BuildContext{})
			steps.config.Checkout.URL = "https://github.com/example/service.git"
			steps.config.Checkout.CredentialID = "git"

			for _, file := range tc.files {
				writeWorkspaceFile(t, steps, file, "")
			}

			err := steps.Checkout(context.Background())
			if err != nil {
				t.Fatal(err)
			}

			got := [][]string{}
			for _, cmd := range fakeRun.commands {
				if cmd.Name != "git" || cmd.Dir != steps.Workspace() {
					t.Errorf("unexpected command %s in %s", cmd.Name, cmd.Dir)
				}
				got = append(got, cmd.Args)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("result is different than expected(-want +got):\n%s", diff)
			}

			fetch := fakeRun.commands[len(fakeRun.commands)-2]
			if fetch.Env["GIT_CONFIG_KEY_0"] != "http.extraHeader" {
				t.Errorf("expected fetch to carry credentials; got env keys %v", fetch.EnvKeys())
			}
		})
	}
}

// TestCheckoutReusedWorkspace runs git for real and is skipped when it is not installed.
func TestCheckoutReusedWorkspace(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	remote := t.TempDir()
	gitCommit(t, remote, "app.txt", "v1")

	steps, _, _ := newTestSteps(t, models.BuildContext{})
	engine := local.New(io.Discard, io.Discard)
	steps.runner = &engine
	steps.config.Checkout.URL = "file://" + remote

	err := steps.Checkout(context.Background())
	if err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	// A previous deploy leaves its scratch directory and rewritten manifests behind.
	writeWorkspaceFile(t, steps, ".stepper/kubeconfig-1", "")
	writeWorkspaceFile(t, steps, "app.txt", "modified")
	gitCommit(t, remote, "app.txt", "v2")

	err = steps.Checkout(context.Background())
	if err != nil {
		t.Fatalf("second checkout: %v", err)
	}

	content, err := os.ReadFile(steps.path("app.txt"))
	if err != nil {
		t.Fatal(err)
	}

	if string(content) != "v2" {
		t.Errorf("expected workspace at the tip of the branch; got %q", content)
	}
}

// gitCommit writes a file into the repository at dir on branch main and commits it.
func gitCommit(t *testing.T, dir, name, content string) {
	t.Helper()

	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-c", "user.name=stepper", "-c", "user.email=stepper@example.com"},
			args...)...)
		cmd.Dir = dir
		output, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, output)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		git("init", "--quiet")
		git("checkout", "--quiet", "-b", "main")
	}

	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	git("add", name)
	git("commit", "--quiet", "-m", "update "+name)
}
