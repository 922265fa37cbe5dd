package credential

import (
	"fmt"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/cli/format"
	"github.com/spf13/cobra"
)

var cmdCredentialGet = &cobra.Command{
	Use:   "get <id>",
	Short: "Describe a credential",
	Long: `Describe a credential.

The secret itself is never printed.`,
	Example: `$ stepper credential get docker-hub`,
	RunE:    credentialGet,
	Args:    cobra.ExactArgs(1),
}

func init() {
	cmdCredentialGet.Flags().Bool("detail", false, "show exact creation time instead of humanized")
	CmdCredential.AddCommand(cmdCredentialGet)
}

func credentialGet(cmd *cobra.Command, args []string) error {
	id := args[0]
	detail, _ := cmd.Flags().GetBool("detail")

	cl.State.Fmt.Print("Retrieving credential")

	store, err := newStore()
	if err != nil {
		return err
	}

	credential, err := store.Describe(id)
	if err != nil {
		cl.State.Fmt.PrintErr(fmt.Sprintf("could not retrieve credential: %v", err))
		cl.State.Fmt.Finish()
		return err
	}

	username := credential.Username
	if username == "" {
		username = "None"
	}

	cl.State.Fmt.Println(fmt.Sprintf("Credential %s :: %s\n\n  Username: %s\n  Created: %s",
		credential.ID,
		format.CredentialKind(credential.Kind),
		username,
		format.UnixMilli(credential.Created, "Unknown", detail)))
	cl.State.Fmt.Finish()

	return nil
}
