// Package config contains the commands that help write and check stepper configuration files.
package config

import (
	"github.com/spf13/cobra"
)

var CmdConfig = &cobra.Command{
	Use:   "config",
	Short: "Manage stepper configuration files",
}
