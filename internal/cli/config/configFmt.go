package config

import (
	"fmt"
	"os"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/spf13/cobra"
)

var cmdConfigFmt = &cobra.Command{
	Use:   "fmt <...path>",
	Short: "Format stepper configuration files",
	Long: `Format stepper configuration files.

A basic HCL formatter. Rewrites the file in place.`,
	Example: `$ stepper config fmt .stepper.hcl
$ stepper config fmt ci/*.hcl`,
	RunE: configFmt,
	Args: cobra.MinimumNArgs(1),
}

func init() {
	CmdConfig.AddCommand(cmdConfigFmt)
}

func configFmt(_ *cobra.Command, args []string) error {
	cl.State.Fmt.Print("Formatting config")

	var failed error
	for _, path := range args {
		cl.State.Fmt.Print(fmt.Sprintf("Processing file %q", path))

		info, err := os.Stat(path)
		if err != nil {
			cl.State.Fmt.PrintErr(fmt.Sprintf("could not open config file: %v", err))
			failed = err
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			cl.State.Fmt.PrintErr(fmt.Sprintf("could not open config file: %v", err))
			failed = err
			continue
		}

		err = os.WriteFile(path, hclwrite.Format(content), info.Mode().Perm())
		if err != nil {
			cl.State.Fmt.PrintErr(fmt.Sprintf("could not write config file: %v", err))
			failed = err
			continue
		}

		cl.State.Fmt.PrintSuccess(fmt.Sprintf("Formatted file %q", path))
	}

	cl.State.Fmt.Finish()
	return failed
}
