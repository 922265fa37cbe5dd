package credential

import (
	"fmt"
	"os"
	"strings"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/models"
	"github.com/spf13/cobra"
)

var cmdCredentialPut = &cobra.Command{
	Use:   "put <id> <secret>",
	Short: "Write a credential to the secret store",
	Long: `Write a credential to the secret store.

You can store both regular text values or read in entire files using the '@' prefix. A credential with a
username is stored as username_password, otherwise as secret_text.`,
	Example: `$ stepper credential put docker-hub hunter2 --username deployer
$ stepper credential put sonar-token @/run/secrets/sonar
$ stepper credential put cluster-token @token.txt --kind secret_text --force`,
	RunE: credentialPut,
	Args: cobra.ExactArgs(2),
}

func init() {
	cmdCredentialPut.Flags().StringP("username", "u", "", "username for username_password credentials")
	cmdCredentialPut.Flags().StringP("kind", "k", "", "credential kind; one of username_password, secret_text")
	cmdCredentialPut.Flags().BoolP("force", "f", false, "replace value if exists")
	CmdCredential.AddCommand(cmdCredentialPut)
}

func credentialPut(cmd *cobra.Command, args []string) error {
	id, value := args[0], args[1]

	username, _ := cmd.Flags().GetString("username")
	rawKind, _ := cmd.Flags().GetString("kind")
	force, _ := cmd.Flags().GetBool("force")

	kind := models.CredentialKindSecretText
	if username != "" {
		kind = models.CredentialKindUsernamePassword
	}

	if rawKind != "" {
		parsedKind, err := models.ParseCredentialKind(rawKind)
		if err != nil {
			cl.State.Fmt.PrintErr(err)
			cl.State.Fmt.Finish()
			return err
		}
		kind = parsedKind
	}

	secret, err := readSecret(value)
	if err != nil {
		cl.State.Fmt.PrintErr(err)
		cl.State.Fmt.Finish()
		return err
	}

	cl.State.Fmt.Print("Storing credential")

	store, err := newStore()
	if err != nil {
		return err
	}

	credential := models.NewCredential(id, kind, username, secret)

	err = store.Put(credential, force)
	if err != nil {
		cl.State.Fmt.PrintErr(fmt.Sprintf("could not store credential: %v", err))
		cl.State.Fmt.Finish()
		return err
	}

	cl.State.Fmt.PrintSuccess(fmt.Sprintf("Stored credential %q (%s)", id, kind))
	cl.State.Fmt.Finish()

	return nil
}

// readSecret returns value unchanged unless it starts with '@', in which case the named file is read instead. Only
// the single line ending most editors append to a file is dropped; every other byte is part of the secret.
func readSecret(value string) (string, error) {
	path, isFile := strings.CutPrefix(value, "@")
	if !isFile {
		return value, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	secret := string(contents)
	if strings.HasSuffix(secret, "\r\n") {
		return strings.TrimSuffix(secret, "\r\n"), nil
	}

	return strings.TrimSuffix(secret, "\n"), nil
}
