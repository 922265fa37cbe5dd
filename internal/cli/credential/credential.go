// Package credential contains the commands that manage the credentials steps resolve by id.
package credential

import (
	"github.com/clintjedwards/stepper/internal/app"
	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/credentials"
	"github.com/spf13/cobra"
)

var CmdCredential = &cobra.Command{
	Use:   "credential",
	Short: "Manage credentials",
	Long: `Manage credentials.

Steps refer to credentials by id. Credentials live in the configured secret store: the sqlite store keeps them
encrypted on disk and can be written to with these commands, while the env store reads them from environment
variables injected by the CI system and is read only.`,
}

// newStore opens the configured credential store, reporting failures through the formatter.
func newStore() (*credentials.Store, error) {
	store, err := app.NewCredentialStore(&cl.State.Config.SecretStore)
	if err != nil {
		cl.State.Fmt.PrintErr(err)
		cl.State.Fmt.Finish()
		return nil, err
	}

	return store, nil
}
