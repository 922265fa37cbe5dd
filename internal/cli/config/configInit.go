package config

import (
	"fmt"
	"os"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/config"
	"github.com/spf13/cobra"
)

var cmdConfigInit = &cobra.Command{
	Use:   "init",
	Short: "Create example stepper config file",
	Long: `Create example stepper configuration file.

This file documents every setting and can be used as a starting point and customized further.

The default filename is example.stepper.hcl, but can be renamed via flags.`,
	Example: `$ stepper config init
$ stepper config init -f .stepper.hcl`,
	RunE: initConfig,
}

func init() {
	cmdConfigInit.Flags().StringP("filepath", "f", "./example.stepper.hcl", "path to file")
	CmdConfig.AddCommand(cmdConfigInit)
}

func initConfig(cmd *cobra.Command, _ []string) error {
	filepath, _ := cmd.Flags().GetString("filepath")

	cl.State.Fmt.Print("Creating config file")

	err := createConfigFile(filepath)
	if err != nil {
		cl.State.Fmt.PrintErr(fmt.Sprintf("could not create config file: %v", err))
		cl.State.Fmt.Finish()
		return err
	}

	cl.State.Fmt.PrintSuccess(fmt.Sprintf("Created config file: %s", filepath))
	cl.State.Fmt.Finish()
	return nil
}

func createConfigFile(name string) error {
	file, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(config.SampleConfig)
	if err != nil {
		return err
	}

	return nil
}
