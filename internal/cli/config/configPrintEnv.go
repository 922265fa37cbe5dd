package config

import (
	"fmt"
	"strings"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/config"
	"github.com/spf13/cobra"
)

var cmdConfigPrintEnv = &cobra.Command{
	Use:   "printenv",
	Short: "Print the list of environment variables stepper reads configuration from",
	Long: `Print the list of environment variables stepper reads configuration from.

Nested settings are separated by a double underscore; build_tool.kind for example is read from
STEPPER_BUILD_TOOL__KIND.

All configuration set by environment variable overrides default and config file read configuration.`,
	RunE: printEnv,
}

func init() {
	CmdConfig.AddCommand(cmdConfigPrintEnv)
}

func printEnv(_ *cobra.Command, _ []string) error {
	cl.State.Fmt.Finish()
	fmt.Println(strings.Join(config.GetEnvVars(), "\n"))
	return nil
}
