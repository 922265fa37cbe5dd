package credential

import (
	"fmt"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/spf13/cobra"
)

var cmdCredentialDelete = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Remove a credential from the secret store",
	Example: `$ stepper credential delete docker-hub`,
	RunE:    credentialDelete,
	Args:    cobra.ExactArgs(1),
}

func init() {
	CmdCredential.AddCommand(cmdCredentialDelete)
}

func credentialDelete(_ *cobra.Command, args []string) error {
	id := args[0]

	cl.State.Fmt.Print("Deleting credential")

	store, err := newStore()
	if err != nil {
		return err
	}

	err = store.Delete(id)
	if err != nil {
		cl.State.Fmt.PrintErr(fmt.Sprintf("could not delete credential: %v", err))
		cl.State.Fmt.Finish()
		return err
	}

	cl.State.Fmt.PrintSuccess(fmt.Sprintf("Deleted credential %q", id))
	cl.State.Fmt.Finish()
	return nil
}
