package steps

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clintjedwards/stepper/internal/models"
	"github.com/clintjedwards/stepper/internal/runner"
	"github.com/rs/zerolog/log"
)

// defaultTokenUser is sent as the username when a checkout credential only carries a token. Git hosts ignore it
// but basic auth requires one.
const defaultTokenUser = "oauth2"

// Checkout clones the configured branch of the configured repository into the workspace. When the workspace
// already holds a checkout from an earlier build it is fetched and reset to the branch instead.
//
// Credentials are handed to git as an extra HTTP header through GIT_CONFIG_* environment variables so that they
// never appear in the process arguments or in the clone's .git/config.
func (s *Steps) Checkout(ctx context.Context) error {
	conf := s.config.Checkout

	err := required(
		parameter{"checkout.url", conf.URL},
		parameter{"checkout.branch", conf.Branch},
	)
	if err != nil {
		return err
	}

	env := map[string]string{
		"GIT_TERMINAL_PROMPT": "0",
	}

	if conf.CredentialID != "" {
		credential, err := s.credentials.Get(conf.CredentialID)
		if err != nil {
			return err
		}

		env["GIT_CONFIG_COUNT"] = "1"
		env["GIT_CONFIG_KEY_0"] = "http.extraHeader"
		env["GIT_CONFIG_VALUE_0"] = basicAuthHeader(credential)
	}

	directory := conf.Directory
	if directory == "" {
		directory = "."
	}
	target := s.path(directory)

	log.Info().Str("url", conf.URL).Str("branch", conf.Branch).Str("credential", conf.CredentialID).
		Msg("checking out repository")

	if !isRepository(target) {
		if isEmptyDir(target) {
			return s.runner.Run(ctx, runner.Command{
				Name: "git",
				Args: []string{"clone", "--branch", conf.Branch, "--single-branch", "--", conf.URL, directory},
				Env:  env,
				Dir:  s.workspace,
			})
		}

		// Leftovers like the deploy scratch dir keep git from cloning into a directory.
		err := s.runner.Run(ctx, runner.Command{
			Name: "git",
			Args: []string{"init", "--quiet"},
			Dir:  target,
		})
		if err != nil {
			return err
		}
	}

	// Workspaces are reused between builds; bring the existing checkout to the tip of the branch.
	err = s.runner.Run(ctx, runner.Command{
		Name: "git",
		Args: []string{"fetch", "--no-tags", conf.URL, "refs/heads/" + conf.Branch},
		Env:  env,
		Dir:  target,
	})
	if err != nil {
		return err
	}

	return s.runner.Run(ctx, runner.Command{
		Name: "git",
		Args: []string{"checkout", "--force", "-B", conf.Branch, "FETCH_HEAD"},
		Env:  map[string]string{"GIT_TERMINAL_PROMPT": "0"},
		Dir:  target,
	})
}

// isRepository reports whether dir already holds a git checkout.
func isRepository(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// isEmptyDir reports whether dir is missing or has no entries.
func isEmptyDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return os.IsNotExist(err)
	}

	return len(entries) == 0
}

func basicAuthHeader(credential *models.Credential) string {
	user := credential.Username
	if user == "" {
		user = defaultTokenUser
	}

	token := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", user, credential.Secret)))
	return "Authorization: Basic " + token
}
