package config

import (
	"fmt"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/config"
	"github.com/spf13/cobra"
)

var cmdConfigValidate = &cobra.Command{
	Use:   "validate <...path>",
	Short: "Validate stepper configuration files",
	Long: `Validate stepper configuration files.

Each file is loaded the same way a step would load it, including any STEPPER_ environment variables, and
checked for unknown engines, build tools and unsafe encryption keys.`,
	Example: `$ stepper config validate .stepper.hcl
$ stepper config validate ci/*.hcl`,
	RunE: configValidate,
	Args: cobra.MinimumNArgs(1),
}

func init() {
	CmdConfig.AddCommand(cmdConfigValidate)
}

func configValidate(_ *cobra.Command, args []string) error {
	cl.State.Fmt.Print("Validating configuration")

	var failed error
	for _, path := range args {
		cl.State.Fmt.Print(fmt.Sprintf("Processing file %q", path))

		_, err := config.LoadFile(path)
		if err != nil {
			cl.State.Fmt.PrintErr(fmt.Sprintf("Config %q has errors: %v", path, err))
			failed = err
			continue
		}

		cl.State.Fmt.PrintSuccess(fmt.Sprintf("Config %q is valid!", path))
	}

	cl.State.Fmt.Finish()
	return failed
}
